package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"sige-backend/internal/auth"
	"sige-backend/internal/database"
	"sige-backend/internal/logging"
	"sige-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// saleExportRow: uma linha por venda no arquivo exportado.
type saleExportRow struct {
	Date          time.Time
	SaleID        uint
	Customer      string
	Seller        string
	PaymentMethod string
	ItemCount     int
	Total         float64
}

var exportHeader = []string{"Data", "Venda", "Cliente", "Vendedor", "Pagamento", "Itens", "Total"}

// formatAmount: padrão brasileiro de planilha, vírgula decimal.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	out := []byte(s)
	for i, b := range out {
		if b == '.' {
			out[i] = ','
		}
	}
	return string(out)
}

func (r saleExportRow) record() []string {
	return []string{
		r.Date.Format("02/01/2006"),
		fmt.Sprintf("#%d", r.SaleID),
		r.Customer,
		r.Seller,
		r.PaymentMethod,
		strconv.Itoa(r.ItemCount),
		formatAmount(r.Total),
	}
}

// buildSalesCSV gera o CSV com separador ";", formato que o Excel brasileiro
// abre direto sem assistente de importação.
func buildSalesCSV(rows []saleExportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(r.record()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildSalesXLSX(rows []saleExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Vendas"
	f.SetSheetName("Sheet1", sheet)

	for col, h := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, r := range rows {
		values := []interface{}{
			r.Date.Format("02/01/2006"),
			fmt.Sprintf("#%d", r.SaleID),
			r.Customer,
			r.Seller,
			r.PaymentMethod,
			r.ItemCount,
			r.Total,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GET /api/reports/sales/export?from=&to=&format=csv|xlsx
func ExportSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}
		from, to, err := parsePeriod(c)
		if err != nil {
			return err
		}

		format := c.Query("format", "csv")
		if format != "csv" && format != "xlsx" {
			return fiber.NewError(fiber.StatusBadRequest, "Formato deve ser csv ou xlsx")
		}

		var sales []models.Sale
		if err := database.DB.Preload("Items").Preload("Customer").Preload("Seller").
			Where("store_id = ? AND created_at BETWEEN ? AND ?", storeID, from, to).
			Order("created_at asc").Find(&sales).Error; err != nil {
			logging.LogError("reports", "ExportSales", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível exportar as vendas")
		}

		rows := make([]saleExportRow, 0, len(sales))
		for _, s := range sales {
			row := saleExportRow{
				Date:          s.CreatedAt,
				SaleID:        s.ID,
				Seller:        s.Seller.Name,
				PaymentMethod: s.PaymentMethod,
				Total:         s.TotalNet,
			}
			if s.Customer != nil {
				row.Customer = s.Customer.Name
			}
			for _, it := range s.Items {
				row.ItemCount += it.Quantity
			}
			rows = append(rows, row)
		}

		filename := fmt.Sprintf("vendas_%s_%s.%s", from.Format("20060102"), to.Format("20060102"), format)

		var payload []byte
		var contentType string
		if format == "xlsx" {
			payload, err = buildSalesXLSX(rows)
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		} else {
			payload, err = buildSalesCSV(rows)
			contentType = "text/csv; charset=utf-8"
		}
		if err != nil {
			logging.LogError("reports", "ExportSales", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o arquivo")
		}

		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return c.Send(payload)
	}
}
