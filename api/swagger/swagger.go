package swagger

import (
	"encoding/json"
	"strings"

	"github.com/swaggo/swag"
)

type resource struct {
	path   string
	tag    string
	schema string
}

var resources = []resource{
	{path: "/users", tag: "Users", schema: "User"},
	{path: "/teachers", tag: "Teachers", schema: "Teacher"},
	{path: "/students", tag: "Students", schema: "Student"},
	{path: "/courses", tag: "Courses", schema: "Course"},
	{path: "/enrollments", tag: "Enrollments", schema: "Enrollment"},
	{path: "/fees", tag: "Fees", schema: "Fee"},
}

type object = map[string]any

func ref(name string) object {
	return object{"$ref": "#/definitions/" + name}
}

func reply(description, schema string) object {
	r := object{"description": description}
	if schema != "" {
		r["schema"] = ref(schema)
	}
	return r
}

var errorReplies = object{
	"400": reply("Validation or persistence error", "APIError"),
	"401": reply("Missing or invalid bearer token", "APIError"),
}

func with(base object, extra object) object {
	out := object{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

var idParam = object{"name": "id", "in": "path", "required": true, "type": "integer", "format": "int64"}

func bodyParam(schema string) object {
	return object{"name": "body", "in": "body", "required": true, "schema": ref(schema)}
}

func resourcePaths(r resource) (object, object) {
	singular := strings.ToLower(r.schema)
	collection := object{
		"get": object{
			"tags":    []string{r.tag},
			"summary": "List " + r.tag,
			"responses": object{"200": object{
				"description": "OK",
				"schema":      object{"type": "array", "items": ref(r.schema)},
			}},
		},
		"post": object{
			"tags":       []string{r.tag},
			"summary":    "Create " + singular,
			"parameters": []object{bodyParam(r.schema + "Input")},
			"responses":  with(errorReplies, object{"201": reply("Created", r.schema)}),
		},
	}
	item := object{
		"get": object{
			"tags":       []string{r.tag},
			"summary":    "Get " + singular,
			"parameters": []object{idParam},
			"responses": object{
				"200": reply("OK", r.schema),
				"400": reply("Invalid id", "APIError"),
				"404": reply("Not found", "APIError"),
			},
		},
		"put": object{
			"tags":       []string{r.tag},
			"summary":    "Replace " + singular,
			"parameters": []object{idParam, bodyParam(r.schema + "Input")},
			"responses":  with(errorReplies, object{"200": reply("OK", r.schema), "404": reply("Not found", "APIError")}),
		},
		"patch": object{
			"tags":       []string{r.tag},
			"summary":    "Update selected " + singular + " fields",
			"parameters": []object{idParam, bodyParam(r.schema + "Input")},
			"responses":  with(errorReplies, object{"200": reply("OK", r.schema), "404": reply("Not found", "APIError")}),
		},
		"delete": object{
			"tags":       []string{r.tag},
			"summary":    "Delete " + singular,
			"parameters": []object{idParam},
			"responses":  with(errorReplies, object{"204": reply("Deleted", ""), "404": reply("Not found", "APIError")}),
		},
	}
	return collection, item
}

func props(fields ...string) object {
	out := object{}
	for i := 0; i+1 < len(fields); i += 2 {
		switch fields[i+1] {
		case "date":
			out[fields[i]] = object{"type": "string", "format": "date"}
		case "date-time":
			out[fields[i]] = object{"type": "string", "format": "date-time"}
		case "int64":
			out[fields[i]] = object{"type": "integer", "format": "int64"}
		case "array":
			out[fields[i]] = object{"type": "array", "items": object{"type": "string"}}
		case "number":
			out[fields[i]] = object{"type": "number", "format": "double"}
		default:
			out[fields[i]] = object{"type": fields[i+1]}
		}
	}
	return out
}

func schema(required []string, fields ...string) object {
	s := object{"type": "object", "properties": props(fields...)}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

var definitions = object{
	"APIError": schema(nil, "code", "string", "message", "string", "status", "integer", "details", "array"),
	"User": schema(nil, "id", "int64", "email", "string", "full_name", "string", "role", "string",
		"active", "boolean", "last_login", "date-time", "created_at", "date-time", "updated_at", "date-time"),
	"UserInput": schema([]string{"email", "full_name", "role"}, "email", "string", "full_name", "string",
		"role", "string", "password", "string", "active", "boolean"),
	"Teacher": schema(nil, "id", "int64", "first_name", "string", "last_name", "string", "email", "string",
		"phone", "string", "department", "string", "credits", "integer", "hire_date", "date"),
	"TeacherInput": schema([]string{"first_name", "last_name", "email"}, "first_name", "string", "last_name", "string",
		"email", "string", "phone", "string", "department", "string", "credits", "integer", "hire_date", "date"),
	"Student": schema(nil, "id", "int64", "first_name", "string", "last_name", "string", "student_id", "string",
		"email", "string", "date_of_birth", "date", "enrollment_date", "date"),
	"StudentInput": schema([]string{"first_name", "last_name", "student_id", "email"}, "first_name", "string",
		"last_name", "string", "student_id", "string", "email", "string", "date_of_birth", "date", "enrollment_date", "date"),
	"Course": schema(nil, "id", "int64", "code", "string", "name", "string", "credits", "integer", "teacher_id", "int64"),
	"CourseInput": schema([]string{"code", "name", "teacher_id"}, "code", "string", "name", "string",
		"credits", "integer", "teacher_id", "int64"),
	"Enrollment": schema(nil, "id", "int64", "student_id", "int64", "course_id", "int64",
		"enrollment_date", "date", "status", "string"),
	"EnrollmentInput": schema([]string{"student_id", "course_id"}, "student_id", "int64", "course_id", "int64",
		"enrollment_date", "date", "status", "string"),
	"Fee": schema(nil, "id", "int64", "student_id", "int64", "description", "string", "amount", "number",
		"due_date", "date", "paid", "boolean", "paid_at", "date-time"),
	"FeeInput": schema([]string{"student_id", "description", "amount", "due_date"}, "student_id", "int64",
		"description", "string", "amount", "number", "due_date", "date", "paid", "boolean"),
	"LoginRequest": schema([]string{"email", "password"}, "email", "string", "password", "string"),
	"LoginResponse": schema(nil, "access_token", "string", "token_type", "string", "expires_in", "integer",
		"issued_at", "date-time", "user", "object"),
}

func document() object {
	paths := object{
		"/health": object{"get": object{"summary": "Health check", "responses": object{"200": reply("OK", "")}}},
		"/ready": object{"get": object{"summary": "Readiness check", "responses": object{
			"200": reply("Ready", ""),
			"503": reply("Database unreachable", ""),
		}}},
		"/metrics": object{"get": object{"summary": "Prometheus metrics", "produces": []string{"text/plain"},
			"responses": object{"200": reply("OK", "")}}},
		"/api/auth/login": object{"post": object{
			"tags":       []string{"Auth"},
			"summary":    "Exchange credentials for an access token",
			"parameters": []object{bodyParam("LoginRequest")},
			"responses": object{
				"200": reply("OK", "LoginResponse"),
				"400": reply("Validation error", "APIError"),
				"401": reply("Invalid credentials", "APIError"),
				"403": reply("Account inactive", "APIError"),
			},
		}},
		"/api/students/export": object{"get": object{
			"tags":     []string{"Students"},
			"summary":  "Export the student roster",
			"produces": []string{"text/csv", "application/pdf"},
			"parameters": []object{{
				"name": "format", "in": "query", "type": "string", "enum": []string{"csv", "pdf"}, "default": "csv",
			}},
			"responses": object{
				"200": reply("Roster file", ""),
				"400": reply("Unsupported format", "APIError"),
			},
		}},
	}
	tags := []object{{"name": "Auth", "description": "Login"}}
	for _, r := range resources {
		collection, item := resourcePaths(r)
		paths["/api"+r.path] = collection
		paths["/api"+r.path+"/{id}"] = item
		tags = append(tags, object{"name": r.tag})
	}

	return object{
		"swagger": "2.0",
		"info": object{
			"title":       "School API",
			"description": "CRUD API for users, teachers, students, courses, enrollments and fees",
			"version":     "1.0.0",
		},
		"basePath": "/",
		"schemes":  []string{"http"},
		"securityDefinitions": object{
			"BearerAuth": object{"type": "apiKey", "name": "Authorization", "in": "header"},
		},
		"tags":        tags,
		"paths":       paths,
		"definitions": definitions,
	}
}

type swaggerDoc struct {
	doc string
}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return s.doc
}

func init() {
	raw, err := json.Marshal(document())
	if err != nil {
		panic(err)
	}
	swag.Register(swag.Name, &swaggerDoc{doc: string(raw)})
}
