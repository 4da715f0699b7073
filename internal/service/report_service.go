package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/gocarina/gocsv"

	"backoffice-service/internal/entity"
)

const reportTitle = "Reporte de Pedidos"

type OrderLister interface {
	GetOrders(ctx context.Context) ([]*entity.Order, error)
}

// ReportService renders the order listing as PDF or CSV. Both formats are
// built fully in memory from one consistent read of the orders.
type ReportService struct {
	orders   OrderLister
	compress bool
}

func NewReportService(orders OrderLister) *ReportService {
	return &ReportService{orders: orders, compress: true}
}

type orderCSVRow struct {
	ID     int    `csv:"ID"`
	User   string `csv:"Usuario"`
	Total  string `csv:"Total"`
	Status string `csv:"Estado"`
}

// GenerateCSV emits one row per order under the header
// ID,Usuario,Total,Estado.
func (s *ReportService) GenerateCSV(ctx context.Context) ([]byte, error) {
	orders, err := s.orders.GetOrders(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading orders for CSV report")
		return nil, err
	}

	rows := make([]*orderCSVRow, 0, len(orders))
	for _, order := range orders {
		rows = append(rows, &orderCSVRow{
			ID:     order.ID,
			User:   userName(order),
			Total:  order.TotalPrice.StringFixed(2),
			Status: order.Status,
		})
	}

	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("could not render CSV report: %w", err)
	}
	return out, nil
}

// GeneratePDF renders a title and one block per order with its id, user
// name, total and status. A block never straddles a page break.
func (s *ReportService) GeneratePDF(ctx context.Context) ([]byte, error) {
	orders, err := s.orders.GetOrders(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading orders for PDF report")
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(s.compress)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(reportTitle, true)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Página %d/{nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, tr(reportTitle), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	const blockHeight = 8 + 3*6 + 4
	_, pageHeight := pdf.GetPageSize()
	_, breakMargin := pdf.GetAutoPageBreak()

	for _, order := range orders {
		if pdf.GetY()+blockHeight > pageHeight-breakMargin {
			pdf.AddPage()
		}
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, fmt.Sprintf("Pedido ID: %d", order.ID), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, tr("Usuario: "+userName(order)), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, "Total: "+order.TotalPrice.StringFixed(2), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr("Estado: "+order.Status), "", 1, "L", false, 0, "")
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("could not render PDF report: %w", err)
	}
	return buf.Bytes(), nil
}

func userName(order *entity.Order) string {
	if order.User == nil {
		return ""
	}
	return order.User.Name
}
