package cashflow

import (
	"math"
	"time"

	"sige-backend/internal/auth"
	"sige-backend/internal/database"
	"sige-backend/internal/logging"
	"sige-backend/internal/models"
	"sige-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type EntryResponse struct {
	ID          uint    `json:"id"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Direction   string  `json:"direction"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

func toResponse(e models.CashFlowEntry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		Date:        e.Date.Format("2006-01-02"),
		Category:    string(e.Category),
		Direction:   string(e.Direction),
		Amount:      e.Amount,
		Description: e.Description,
	}
}

func parseDateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if s := c.Query("from"); s != "" {
		d, perr := time.Parse("2006-01-02", s)
		if perr != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Parâmetro from inválido, use YYYY-MM-DD")
		}
		from = &d
	}
	if s := c.Query("to"); s != "" {
		d, perr := time.Parse("2006-01-02", s)
		if perr != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Parâmetro to inválido, use YYYY-MM-DD")
		}
		end := d.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}

// GET /api/cashflow?from=&to=&category=&direction=
func ListEntriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}
		from, to, err := parseDateRange(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Where("store_id = ?", storeID)
		if from != nil {
			dbq = dbq.Where("date >= ?", *from)
		}
		if to != nil {
			dbq = dbq.Where("date <= ?", *to)
		}
		if cat := c.Query("category"); cat != "" {
			dbq = dbq.Where("category = ?", cat)
		}
		if dir := c.Query("direction"); dir != "" {
			dbq = dbq.Where("direction = ?", dir)
		}

		var entries []models.CashFlowEntry
		if err := dbq.Order("date desc, id desc").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar o fluxo de caixa")
		}

		var totalIn, totalOut float64
		res := make([]EntryResponse, 0, len(entries))
		for _, e := range entries {
			if e.Direction == models.CashFlowIn {
				totalIn += e.Amount
			} else {
				totalOut += e.Amount
			}
			res = append(res, toResponse(e))
		}

		return c.JSON(fiber.Map{
			"entries":   res,
			"total_in":  round2(totalIn),
			"total_out": round2(totalOut),
			"balance":   round2(totalIn - totalOut),
		})
	}
}

type CreateEntryRequest struct {
	Date        string  `json:"date"`
	Category    string  `json:"category" validate:"required,oneof=sale purchase expense adjustment"`
	Direction   string  `json:"direction" validate:"required,oneof=in out"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"max=255"`
}

// POST /api/cashflow
// Lançamento manual (despesa, ajuste). Vendas e compras geram os seus
// lançamentos automaticamente nos respectivos fluxos.
func CreateEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		date := time.Now()
		if body.Date != "" {
			d, err := time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data inválida, use YYYY-MM-DD")
			}
			date = d
		}

		entry := models.CashFlowEntry{
			StoreID:     storeID,
			Date:        date,
			Category:    models.CashFlowCategory(body.Category),
			Direction:   models.CashFlowDirection(body.Direction),
			Amount:      body.Amount,
			Description: body.Description,
			CreatedByID: userID,
		}
		if err := database.DB.Create(&entry).Error; err != nil {
			logging.LogError("cashflow", "CreateEntry", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o lançamento")
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(entry))
	}
}

// DELETE /api/cashflow/:id
// Só lançamentos manuais podem ser removidos; os automáticos (venda/compra)
// acompanham o documento que os gerou.
func DeleteEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var entry models.CashFlowEntry
		if err := database.DB.Where("store_id = ?", storeID).
			First(&entry, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lançamento não encontrado")
		}
		if entry.Category == models.CashFlowCategorySale || entry.Category == models.CashFlowCategoryPurchase {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Lançamentos automáticos não podem ser removidos")
		}

		if err := database.DB.Delete(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível remover o lançamento")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type categoryTotal struct {
	Category string  `json:"category"`
	In       float64 `json:"in"`
	Out      float64 `json:"out"`
}

// GET /api/cashflow/summary?month=2025-08
// Resumo mensal por categoria mais o total geral.
func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		month := c.Query("month")
		var start time.Time
		if month == "" {
			now := time.Now()
			start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		} else {
			d, perr := time.Parse("2006-01", month)
			if perr != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Mês inválido, use YYYY-MM")
			}
			start = d
		}
		end := start.AddDate(0, 1, 0)

		var entries []models.CashFlowEntry
		if err := database.DB.
			Where("store_id = ? AND date >= ? AND date < ?", storeID, start, end).
			Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar o resumo")
		}

		byCategory := map[string]*categoryTotal{}
		var totalIn, totalOut float64
		for _, e := range entries {
			ct, ok := byCategory[string(e.Category)]
			if !ok {
				ct = &categoryTotal{Category: string(e.Category)}
				byCategory[string(e.Category)] = ct
			}
			if e.Direction == models.CashFlowIn {
				ct.In += e.Amount
				totalIn += e.Amount
			} else {
				ct.Out += e.Amount
				totalOut += e.Amount
			}
		}

		categories := make([]categoryTotal, 0, len(byCategory))
		for _, cat := range []models.CashFlowCategory{
			models.CashFlowCategorySale,
			models.CashFlowCategoryPurchase,
			models.CashFlowCategoryExpense,
			models.CashFlowCategoryAdjustment,
		} {
			if ct, ok := byCategory[string(cat)]; ok {
				ct.In = round2(ct.In)
				ct.Out = round2(ct.Out)
				categories = append(categories, *ct)
			}
		}

		return c.JSON(fiber.Map{
			"month":      start.Format("2006-01"),
			"categories": categories,
			"total_in":   round2(totalIn),
			"total_out":  round2(totalOut),
			"balance":    round2(totalIn - totalOut),
		})
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
