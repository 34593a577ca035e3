package pipeline

import (
	"errors"
	"time"

	"sige-backend/internal/auth"
	"sige-backend/internal/database"
	"sige-backend/internal/logging"
	"sige-backend/internal/models"
	"sige-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StageResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	OrderPosition int    `json:"order_position"`
	Color         string `json:"color"`
}

type DealResponse struct {
	ID                uint    `json:"id"`
	Title             string  `json:"title"`
	Value             float64 `json:"value"`
	Notes             string  `json:"notes"`
	Priority          string  `json:"priority"`
	StageID           uint    `json:"stage_id"`
	CustomerID        *uint   `json:"customer_id"`
	CustomerName      string  `json:"customer_name,omitempty"`
	CustomerWhatsapp  string  `json:"customer_whatsapp,omitempty"`
	ExpectedCloseDate *string `json:"expected_close_date"`
	UpdatedAt         string  `json:"updated_at"`
}

func toDealResponse(d models.Deal) DealResponse {
	res := DealResponse{
		ID:         d.ID,
		Title:      d.Title,
		Value:      d.Value,
		Notes:      d.Notes,
		Priority:   string(d.Priority),
		StageID:    d.StageID,
		CustomerID: d.CustomerID,
		UpdatedAt:  d.UpdatedAt.Format(time.RFC3339),
	}
	if d.Customer != nil {
		res.CustomerName = d.Customer.Name
		res.CustomerWhatsapp = d.Customer.Whatsapp
	}
	if d.ExpectedCloseDate != nil {
		s := d.ExpectedCloseDate.Format("2006-01-02")
		res.ExpectedCloseDate = &s
	}
	return res
}

// GET /api/pipeline/stages
func ListStagesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var stages []models.DealStage
		if err := database.DB.Where("store_id = ?", storeID).
			Order("order_position asc").Find(&stages).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os estágios")
		}

		res := make([]StageResponse, 0, len(stages))
		for _, s := range stages {
			res = append(res, StageResponse{s.ID, s.Name, s.Slug, s.OrderPosition, s.Color})
		}
		return c.JSON(res)
	}
}

type BoardColumn struct {
	StageResponse
	Deals []DealResponse `json:"deals"`
}

// GET /api/pipeline/board
// Funil completo: estágios em ordem, cada um com suas negociações (mais
// recentes primeiro).
func BoardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var stages []models.DealStage
		if err := database.DB.Where("store_id = ?", storeID).
			Order("order_position asc").Find(&stages).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os estágios")
		}

		var deals []models.Deal
		if err := database.DB.Preload("Customer").
			Where("store_id = ?", storeID).
			Order("updated_at desc").Find(&deals).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as negociações")
		}

		board := make([]BoardColumn, 0, len(stages))
		for _, s := range stages {
			col := BoardColumn{
				StageResponse: StageResponse{s.ID, s.Name, s.Slug, s.OrderPosition, s.Color},
				Deals:         []DealResponse{},
			}
			for _, d := range deals {
				if d.StageID == s.ID {
					col.Deals = append(col.Deals, toDealResponse(d))
				}
			}
			board = append(board, col)
		}
		return c.JSON(board)
	}
}

type CreateDealRequest struct {
	CustomerID        *uint   `json:"customer_id"`
	StageID           uint    `json:"stage_id" validate:"required"`
	Title             string  `json:"title" validate:"required,min=1"`
	Value             float64 `json:"value" validate:"gte=0"`
	Notes             string  `json:"notes"`
	Priority          string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	ExpectedCloseDate *string `json:"expected_close_date"`
}

// POST /api/deals
func CreateDealHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateDealRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		var stage models.DealStage
		if err := database.DB.Where("store_id = ?", storeID).First(&stage, body.StageID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Estágio não encontrado")
		}

		priority := models.DealPriority(body.Priority)
		if priority == "" {
			priority = models.DealPriorityMedium
		}

		deal := models.Deal{
			StoreID:      storeID,
			CustomerID:   body.CustomerID,
			StageID:      body.StageID,
			Title:        body.Title,
			Value:        body.Value,
			Notes:        body.Notes,
			Priority:     priority,
			AssignedToID: &userID,
		}
		if body.ExpectedCloseDate != nil && *body.ExpectedCloseDate != "" {
			d, err := time.Parse("2006-01-02", *body.ExpectedCloseDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data prevista inválida, use YYYY-MM-DD")
			}
			deal.ExpectedCloseDate = &d
		}

		if err := database.DB.Create(&deal).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar a negociação")
		}
		return c.Status(fiber.StatusCreated).JSON(toDealResponse(deal))
	}
}

type UpdateDealRequest struct {
	CustomerID        *uint    `json:"customer_id"`
	Title             *string  `json:"title"`
	Value             *float64 `json:"value"`
	Notes             *string  `json:"notes"`
	Priority          *string  `json:"priority"`
	ExpectedCloseDate *string  `json:"expected_close_date"`
}

// PUT /api/deals/:id
func UpdateDealHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var deal models.Deal
		if err := database.DB.Where("store_id = ?", storeID).First(&deal, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Negociação não encontrada")
		}

		var body UpdateDealRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Title != nil {
			if *body.Title == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Título não pode ficar vazio")
			}
			deal.Title = *body.Title
		}
		if body.Value != nil {
			if *body.Value < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Valor não pode ser negativo")
			}
			deal.Value = *body.Value
		}
		if body.Notes != nil {
			deal.Notes = *body.Notes
		}
		if body.CustomerID != nil {
			deal.CustomerID = body.CustomerID
		}
		if body.Priority != nil {
			switch models.DealPriority(*body.Priority) {
			case models.DealPriorityLow, models.DealPriorityMedium, models.DealPriorityHigh:
				deal.Priority = models.DealPriority(*body.Priority)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Prioridade inválida (low|medium|high)")
			}
		}
		if body.ExpectedCloseDate != nil {
			if *body.ExpectedCloseDate == "" {
				deal.ExpectedCloseDate = nil
			} else {
				d, err := time.Parse("2006-01-02", *body.ExpectedCloseDate)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Data prevista inválida, use YYYY-MM-DD")
				}
				deal.ExpectedCloseDate = &d
			}
		}

		if err := database.DB.Save(&deal).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar a negociação")
		}
		return c.JSON(toDealResponse(deal))
	}
}

type MoveDealRequest struct {
	ToStageID uint   `json:"to_stage_id" validate:"required"`
	Notes     string `json:"notes"`
}

// POST /api/deals/:id/move
// Move a negociação para outro estágio e registra o histórico na mesma
// transação — o funil nunca fica sem rastro da movimentação.
func MoveDealHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body MoveDealRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		var deal models.Deal
		if err := database.DB.Where("store_id = ?", storeID).First(&deal, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Negociação não encontrada")
		}

		var toStage models.DealStage
		if err := database.DB.Where("store_id = ?", storeID).First(&toStage, body.ToStageID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Estágio de destino não encontrado")
		}

		if deal.StageID == body.ToStageID {
			return c.JSON(toDealResponse(deal))
		}

		fromStageID := deal.StageID

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&deal).Update("stage_id", body.ToStageID).Error; err != nil {
				return err
			}
			history := models.DealHistory{
				DealID:      deal.ID,
				FromStageID: fromStageID,
				ToStageID:   body.ToStageID,
				ChangedByID: userID,
				Notes:       body.Notes,
			}
			return tx.Create(&history).Error
		})
		if txErr != nil {
			logging.LogError("pipeline", "MoveDeal", txErr)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível mover a negociação")
		}

		deal.StageID = body.ToStageID
		return c.JSON(toDealResponse(deal))
	}
}

// DELETE /api/deals/:id
func DeleteDealHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var deal models.Deal
		if err := database.DB.Where("store_id = ?", storeID).First(&deal, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Negociação não encontrada")
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("deal_id = ?", deal.ID).Delete(&models.DealHistory{}).Error; err != nil {
				return err
			}
			return tx.Delete(&deal).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir a negociação")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type DealHistoryResponse struct {
	ID        uint   `json:"id"`
	FromStage string `json:"from_stage"`
	ToStage   string `json:"to_stage"`
	ChangedBy string `json:"changed_by"`
	Notes     string `json:"notes"`
	ChangedAt string `json:"changed_at"`
}

// GET /api/deals/:id/history
func DealHistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var deal models.Deal
		if err := database.DB.Where("store_id = ?", storeID).First(&deal, "id = ?", c.Params("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Negociação não encontrada")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar a negociação")
		}

		var history []models.DealHistory
		if err := database.DB.Preload("FromStage").Preload("ToStage").Preload("ChangedBy").
			Where("deal_id = ?", deal.ID).
			Order("changed_at desc").Find(&history).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar o histórico")
		}

		res := make([]DealHistoryResponse, 0, len(history))
		for _, h := range history {
			res = append(res, DealHistoryResponse{
				ID:        h.ID,
				FromStage: h.FromStage.Name,
				ToStage:   h.ToStage.Name,
				ChangedBy: h.ChangedBy.Name,
				Notes:     h.Notes,
				ChangedAt: h.ChangedAt.Format(time.RFC3339),
			})
		}
		return c.JSON(res)
	}
}
