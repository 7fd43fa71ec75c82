package handler

import (
	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/service"
)

// TeacherHandler serves /teachers.
type TeacherHandler = ResourceHandler[models.Teacher, service.CreateTeacherRequest, service.ReplaceTeacherRequest, service.PatchTeacherRequest]

// StudentHandler serves /students.
type StudentHandler = ResourceHandler[models.Student, service.CreateStudentRequest, service.ReplaceStudentRequest, service.PatchStudentRequest]

// CourseHandler serves /courses.
type CourseHandler = ResourceHandler[models.Course, service.CreateCourseRequest, service.ReplaceCourseRequest, service.PatchCourseRequest]

// EnrollmentHandler serves /enrollments.
type EnrollmentHandler = ResourceHandler[models.Enrollment, service.CreateEnrollmentRequest, service.ReplaceEnrollmentRequest, service.PatchEnrollmentRequest]

// FeeHandler serves /fees.
type FeeHandler = ResourceHandler[models.Fee, service.CreateFeeRequest, service.ReplaceFeeRequest, service.PatchFeeRequest]

// UserHandler serves /users.
type UserHandler = ResourceHandler[models.User, service.CreateUserRequest, service.ReplaceUserRequest, service.PatchUserRequest]

// NewTeacherHandler binds a TeacherService to the generic resource handler.
func NewTeacherHandler(svc *service.TeacherService) *TeacherHandler {
	return NewResourceHandler[models.Teacher, service.CreateTeacherRequest, service.ReplaceTeacherRequest, service.PatchTeacherRequest](svc, "teacher")
}

// NewStudentHandler binds a StudentService to the generic resource handler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return NewResourceHandler[models.Student, service.CreateStudentRequest, service.ReplaceStudentRequest, service.PatchStudentRequest](svc, "student")
}

// NewCourseHandler binds a CourseService to the generic resource handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return NewResourceHandler[models.Course, service.CreateCourseRequest, service.ReplaceCourseRequest, service.PatchCourseRequest](svc, "course")
}

// NewEnrollmentHandler binds an EnrollmentService to the generic resource handler.
func NewEnrollmentHandler(svc *service.EnrollmentService) *EnrollmentHandler {
	return NewResourceHandler[models.Enrollment, service.CreateEnrollmentRequest, service.ReplaceEnrollmentRequest, service.PatchEnrollmentRequest](svc, "enrollment")
}

// NewFeeHandler binds a FeeService to the generic resource handler.
func NewFeeHandler(svc *service.FeeService) *FeeHandler {
	return NewResourceHandler[models.Fee, service.CreateFeeRequest, service.ReplaceFeeRequest, service.PatchFeeRequest](svc, "fee")
}

// NewUserHandler binds a UserService to the generic resource handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return NewResourceHandler[models.User, service.CreateUserRequest, service.ReplaceUserRequest, service.PatchUserRequest](svc, "user")
}
