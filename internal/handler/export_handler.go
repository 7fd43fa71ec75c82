package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/service"
	"github.com/noah-isme/school-api/pkg/response"
)

type rosterExporter interface {
	Students(ctx context.Context, format service.ExportFormat) (*service.ExportFile, error)
}

// ExportHandler streams roster exports as attachments.
type ExportHandler struct {
	exports rosterExporter
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(exports rosterExporter) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Students handles GET /students/export?format=csv|pdf.
func (h *ExportHandler) Students(c *gin.Context) {
	file, err := h.exports.Students(c.Request.Context(), service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV))))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
