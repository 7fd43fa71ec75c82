package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
	"github.com/noah-isme/school-api/pkg/export"
	"github.com/noah-isme/school-api/pkg/logger"
)

// ExportFormat enumerates the supported roster formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

var studentExportHeaders = []string{"id", "student_id", "first_name", "last_name", "email", "date_of_birth", "enrollment_date"}

type studentLister interface {
	List(ctx context.Context) ([]models.Student, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered export ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the student roster.
type ExportService struct {
	students studentLister
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to
// the default CSV and PDF exporters.
func NewExportService(students studentLister, log *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if log == nil {
		log = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{students: students, csv: csv, pdf: pdf, logger: log, now: time.Now}
}

// Students renders every student in the requested format.
func (s *ExportService) Students(ctx context.Context, format ExportFormat) (*ExportFile, error) {
	format = ExportFormat(strings.ToLower(strings.TrimSpace(string(format))))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	students, err := s.students.List(ctx)
	if err != nil {
		return nil, appErrors.Cause(appErrors.ErrInternal, err, "failed to list students")
	}
	dataset := buildStudentDataset(students)

	file := &ExportFile{Filename: s.buildFilename("students", format)}
	switch format {
	case ExportFormatPDF:
		file.ContentType = "application/pdf"
		file.Data, err = s.pdf.Render(dataset, "Student roster")
	default:
		file.ContentType = "text/csv"
		file.Data, err = s.csv.Render(dataset)
	}
	if err != nil {
		logger.FromContext(ctx, s.logger).Error("render export failed", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Cause(appErrors.ErrInternal, err, "failed to render export")
	}
	return file, nil
}

func (s *ExportService) buildFilename(name string, format ExportFormat) string {
	return fmt.Sprintf("%s_%s.%s", name, s.now().UTC().Format("20060102_150405"), format)
}

func buildStudentDataset(students []models.Student) export.Dataset {
	rows := make([]map[string]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, map[string]string{
			"id":              strconv.FormatInt(st.ID, 10),
			"student_id":      st.StudentID,
			"first_name":      st.FirstName,
			"last_name":       st.LastName,
			"email":           st.Email,
			"date_of_birth":   formatOptionalDate(st.DateOfBirth),
			"enrollment_date": formatOptionalDate(st.EnrollmentDate),
		})
	}
	return export.Dataset{Headers: studentExportHeaders, Rows: rows}
}

func formatOptionalDate(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
