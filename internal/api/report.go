package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type ReportService interface {
	GeneratePDF(ctx context.Context) ([]byte, error)
	GenerateCSV(ctx context.Context) ([]byte, error)
}

type ReportHandler struct {
	reportService ReportService
}

func NewReportHandler(reportService ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetPDFReport --> GET /reports/pdf
func (h *ReportHandler) GetPDFReport(c echo.Context) error {
	buf, err := h.reportService.GeneratePDF(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return attachment(c, "application/pdf", "report.pdf", buf)
}

// GetCSVReport --> GET /reports/csv
func (h *ReportHandler) GetCSVReport(c echo.Context) error {
	buf, err := h.reportService.GenerateCSV(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return attachment(c, "text/csv", "report.csv", buf)
}

func attachment(c echo.Context, contentType, filename string, buf []byte) error {
	header := c.Response().Header()
	header.Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	header.Set(echo.HeaderContentLength, strconv.Itoa(len(buf)))
	return c.Blob(http.StatusOK, contentType, buf)
}
