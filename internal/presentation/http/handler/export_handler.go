package handler

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/cafe-pos/internal/application/service"
	"github.com/sangkips/cafe-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/cafe-pos/internal/presentation/http/dto/response"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
	contentTypeJSON = "application/json; charset=utf-8"

	maxImportSize = 10 << 20
)

// ExportHandler serves sales reports, backups and CSV import
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func (h *ExportHandler) month(c *gin.Context) (string, bool) {
	var req request.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return "", false
	}
	return req.Month, true
}

// CSV downloads completed orders as a sales report
func (h *ExportHandler) CSV(c *gin.Context) {
	month, ok := h.month(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if _, err := h.exportService.WriteCSV(c.Request.Context(), &buf, month); err != nil {
		response.Error(c, err)
		return
	}

	response.Download(c, service.ReportFileName(month, "csv"), contentTypeCSV, buf.Bytes())
}

// XLSX downloads the sales report as a workbook
func (h *ExportHandler) XLSX(c *gin.Context) {
	month, ok := h.month(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.WriteXLSX(c.Request.Context(), &buf, month); err != nil {
		response.Error(c, err)
		return
	}

	response.Download(c, service.ReportFileName(month, "xlsx"), contentTypeXLSX, buf.Bytes())
}

// PDF downloads the one-page sales summary
func (h *ExportHandler) PDF(c *gin.Context) {
	month, ok := h.month(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.WritePDF(c.Request.Context(), &buf, month); err != nil {
		response.Error(c, err)
		return
	}

	response.Download(c, service.ReportFileName(month, "pdf"), contentTypePDF, buf.Bytes())
}

// Import reads a sales report CSV, either as the "file" form field or as the
// raw request body.
func (h *ExportHandler) Import(c *gin.Context) {
	var src io.Reader
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			response.BadRequest(c, "Could not read uploaded file")
			return
		}
		defer f.Close()
		src = f
	} else {
		src = c.Request.Body
	}

	result, err := h.exportService.ImportCSV(c.Request.Context(), io.LimitReader(src, maxImportSize))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Orders imported", result)
}

// Backup downloads every order, the catalog and the settings as JSON
func (h *ExportHandler) Backup(c *gin.Context) {
	backup, err := h.exportService.Backup(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		response.Error(c, err)
		return
	}

	name := "cafe_backup_" + backup.Timestamp.Format("2006-01-02") + ".json"
	response.Download(c, name, contentTypeJSON, data)
}

