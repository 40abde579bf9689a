package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/xuri/excelize/v2"

	"skill-backend/internal/models"
	"skill-backend/internal/timeutil"
)

// ReportService renders the rooms and inventory reports as file
// artifacts: xlsx workbooks for download into the established
// spreadsheets, plus a PDF rendition of the rooms listing.
type ReportService struct {
	rooms   *RoomService
	catalog *CatalogService
}

func NewReportService(rooms *RoomService, catalog *CatalogService) *ReportService {
	return &ReportService{rooms: rooms, catalog: catalog}
}

const notAvailable = "N/D"

func datedFilename(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, timeutil.Now().Format(timeutil.DateLayout), ext)
}

// RoomsWorkbook builds the rooms report: a "Salones" listing sheet and
// a "Totales" breakdown sheet. The totals column sums the base rate and
// every setup rate as if all setups were booked at once — that mirrors
// the established report semantics and is intentional.
func (s *ReportService) RoomsWorkbook(ctx context.Context) (string, []byte, error) {
	priced, err := s.rooms.RoomPricing(ctx)
	if err != nil {
		return "", nil, err
	}

	f := excelize.NewFile()
	// Don't defer Close(); WriteToBuffer needs the file open.

	listSheet := "Salones"
	index, err := f.NewSheet(listSheet)
	if err != nil {
		f.Close()
		return "", nil, fmt.Errorf("report: create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := headerStyle(f)
	if err != nil {
		f.Close()
		return "", nil, err
	}

	listHeader := []string{"Salón", "Código", "Área m²", "Altura m", "Montajes", "Tarifa", "Moneda"}
	writeHeader(f, listSheet, listHeader, headerStyle)
	for i, rp := range priced {
		row := i + 2
		f.SetCellValue(listSheet, cell(0, row), rp.Room.Name)
		f.SetCellValue(listSheet, cell(1, row), rp.Room.Code)
		f.SetCellValue(listSheet, cell(2, row), rp.Room.Area)
		f.SetCellValue(listSheet, cell(3, row), rp.Room.Height)
		f.SetCellValue(listSheet, cell(4, row), len(rp.Room.Setups))
		if rp.SummaryPrice != nil {
			f.SetCellValue(listSheet, cell(5, row), *rp.SummaryPrice)
		} else {
			f.SetCellValue(listSheet, cell(5, row), notAvailable)
		}
		f.SetCellValue(listSheet, cell(6, row), rp.Currency)
	}

	totalsSheet := "Totales"
	if _, err := f.NewSheet(totalsSheet); err != nil {
		f.Close()
		return "", nil, fmt.Errorf("report: create sheet: %w", err)
	}
	totalsHeader := []string{"Salón", "Montaje", "Tarifa", "Total salón"}
	writeHeader(f, totalsSheet, totalsHeader, headerStyle)
	row := 2
	for _, rp := range priced {
		f.SetCellValue(totalsSheet, cell(0, row), rp.Room.Name)
		f.SetCellValue(totalsSheet, cell(1, row), "(salón completo)")
		if rp.BasePrice != nil {
			f.SetCellValue(totalsSheet, cell(2, row), *rp.BasePrice)
		} else {
			f.SetCellValue(totalsSheet, cell(2, row), notAvailable)
		}
		f.SetCellValue(totalsSheet, cell(3, row), rp.Total)
		row++
		for _, sr := range rp.SetupRates {
			f.SetCellValue(totalsSheet, cell(0, row), rp.Room.Name)
			f.SetCellValue(totalsSheet, cell(1, row), sr.Setup.Name)
			if sr.Price != nil {
				f.SetCellValue(totalsSheet, cell(2, row), *sr.Price)
			} else {
				f.SetCellValue(totalsSheet, cell(2, row), notAvailable)
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return "", nil, fmt.Errorf("report: write workbook: %w", err)
	}
	f.Close()
	return datedFilename("salones", "xlsx"), buf.Bytes(), nil
}

// ServicesWorkbook builds the inventory report with a valuation total.
// Items with unknown prices show N/D and are excluded from the total.
func (s *ReportService) ServicesWorkbook(ctx context.Context) (string, []byte, error) {
	services, err := s.catalog.ServicesWithRates(ctx)
	if err != nil {
		return "", nil, err
	}

	f := excelize.NewFile()

	sheet := "Inventario"
	index, err := f.NewSheet(sheet)
	if err != nil {
		f.Close()
		return "", nil, fmt.Errorf("report: create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	style, err := headerStyle(f)
	if err != nil {
		f.Close()
		return "", nil, err
	}
	header := []string{"Artículo", "Categoría", "Subcategoría", "Existencia", "Precio s/imp", "Precio c/imp", "Valor"}
	writeHeader(f, sheet, header, style)

	row := 2
	for _, svc := range services {
		f.SetCellValue(sheet, cell(0, row), svc.Name)
		f.SetCellValue(sheet, cell(1, row), svc.Category)
		f.SetCellValue(sheet, cell(2, row), svc.Subcategory)
		f.SetCellValue(sheet, cell(3, row), svc.Stock)
		writePrice(f, sheet, cell(4, row), svc.PriceTNI)
		writePrice(f, sheet, cell(5, row), svc.PriceTI)
		if value := lineValue(svc); value != nil {
			f.SetCellValue(sheet, cell(6, row), *value)
		} else {
			f.SetCellValue(sheet, cell(6, row), notAvailable)
		}
		row++
	}
	f.SetCellValue(sheet, cell(5, row), "Total")
	f.SetCellValue(sheet, cell(6, row), ValuationTotal(services))

	buf, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return "", nil, fmt.Errorf("report: write workbook: %w", err)
	}
	f.Close()
	return datedFilename("inventario", "xlsx"), buf.Bytes(), nil
}

func lineValue(svc models.Service) *float64 {
	price := svc.PriceTNI
	if price == nil {
		price = svc.PriceTI
	}
	if price == nil {
		return nil
	}
	value := float64(svc.Stock) * *price
	return &value
}

// RoomsPDF renders the rooms listing as a printable PDF.
func (s *ReportService) RoomsPDF(ctx context.Context) (string, []byte, error) {
	priced, err := s.rooms.RoomPricing(ctx)
	if err != nil {
		return "", nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(277, 10, "Salones y Tarifas", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(277, 6, fmt.Sprintf("Generado: %s", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(80, 7, "Salon", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Codigo", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Area m2", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Montajes", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Tarifa", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, rp := range priced {
		name := rp.Room.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		pdf.CellFormat(80, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, rp.Room.Code, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.0f", rp.Room.Area), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", len(rp.Room.Setups)), "1", 0, "C", false, 0, "")
		if rp.SummaryPrice != nil {
			pdf.CellFormat(40, 6, fmt.Sprintf("%s %.2f", rp.Currency, *rp.SummaryPrice), "1", 0, "R", false, 0, "")
		} else {
			pdf.CellFormat(40, 6, notAvailable, "1", 0, "C", false, 0, "")
		}
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", rp.Total), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", nil, fmt.Errorf("report: write pdf: %w", err)
	}
	return datedFilename("salones", "pdf"), buf.Bytes(), nil
}

func headerStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return 0, fmt.Errorf("report: header style: %w", err)
	}
	return style, nil
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) {
	for col, title := range header {
		f.SetCellValue(sheet, cell(col, 1), title)
	}
	end := cell(len(header)-1, 1)
	f.SetCellStyle(sheet, cell(0, 1), end, style)
}

func writePrice(f *excelize.File, sheet, ref string, price *float64) {
	if price != nil {
		f.SetCellValue(sheet, ref, *price)
	} else {
		f.SetCellValue(sheet, ref, notAvailable)
	}
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
