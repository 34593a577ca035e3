package quotes

import (
	"time"

	"sige-backend/internal/auth"
	"sige-backend/internal/database"
	"sige-backend/internal/logging"
	"sige-backend/internal/models"
	"sige-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuoteItemResponse struct {
	ID          uint    `json:"id"`
	ProductID   *uint   `json:"product_id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

type QuoteResponse struct {
	ID              uint                `json:"id"`
	QuoteNumber     int                 `json:"quote_number"`
	Status          string              `json:"status"`
	CustomerID      uint                `json:"customer_id"`
	CustomerName    string              `json:"customer_name,omitempty"`
	DealID          *uint               `json:"deal_id"`
	Subtotal        float64             `json:"subtotal"`
	DiscountPercent float64             `json:"discount_percent"`
	DiscountAmount  float64             `json:"discount_amount"`
	Total           float64             `json:"total"`
	Notes           string              `json:"notes"`
	ValidUntil      *string             `json:"valid_until"`
	SentAt          *string             `json:"sent_at"`
	ApprovedAt      *string             `json:"approved_at"`
	Items           []QuoteItemResponse `json:"items,omitempty"`
}

func toResponse(q models.Quote, withItems bool) QuoteResponse {
	res := QuoteResponse{
		ID:              q.ID,
		QuoteNumber:     q.QuoteNumber,
		Status:          string(q.Status),
		CustomerID:      q.CustomerID,
		CustomerName:    q.Customer.Name,
		DealID:          q.DealID,
		Subtotal:        q.Subtotal,
		DiscountPercent: q.DiscountPercent,
		DiscountAmount:  q.DiscountAmount,
		Total:           q.Total,
		Notes:           q.Notes,
	}
	if q.ValidUntil != nil {
		s := q.ValidUntil.Format("2006-01-02")
		res.ValidUntil = &s
	}
	if q.SentAt != nil {
		s := q.SentAt.Format(time.RFC3339)
		res.SentAt = &s
	}
	if q.ApprovedAt != nil {
		s := q.ApprovedAt.Format(time.RFC3339)
		res.ApprovedAt = &s
	}
	if withItems {
		res.Items = make([]QuoteItemResponse, 0, len(q.Items))
		for _, it := range q.Items {
			res.Items = append(res.Items, QuoteItemResponse{
				ID:          it.ID,
				ProductID:   it.ProductID,
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				Total:       it.Total,
			})
		}
	}
	return res
}

// recalcTotals recarrega os itens e grava subtotal/total do orçamento.
func recalcTotals(tx *gorm.DB, quote *models.Quote) error {
	var items []models.QuoteItem
	if err := tx.Where("quote_id = ?", quote.ID).Find(&items).Error; err != nil {
		return err
	}
	itemTotals := make([]float64, 0, len(items))
	for _, it := range items {
		itemTotals = append(itemTotals, it.Total)
	}
	quote.Subtotal, quote.Total = computeTotals(itemTotals, quote.DiscountPercent, quote.DiscountAmount)
	return tx.Model(quote).Updates(map[string]interface{}{
		"subtotal": quote.Subtotal,
		"total":    quote.Total,
	}).Error
}

// GET /api/quotes?status=draft
func ListQuotesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Preload("Customer").Where("store_id = ?", storeID)
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		var quotes []models.Quote
		if err := dbq.Order("created_at desc").Find(&quotes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os orçamentos")
		}

		res := make([]QuoteResponse, 0, len(quotes))
		for _, q := range quotes {
			res = append(res, toResponse(q, false))
		}
		return c.JSON(res)
	}
}

// GET /api/quotes/:id
func GetQuoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var quote models.Quote
		if err := database.DB.Preload("Customer").Preload("Items").
			Where("store_id = ?", storeID).First(&quote, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Orçamento não encontrado")
		}
		return c.JSON(toResponse(quote, true))
	}
}

type CreateQuoteRequest struct {
	DealID          *uint   `json:"deal_id"`
	CustomerID      uint    `json:"customer_id" validate:"required"`
	ValidUntil      string  `json:"valid_until"`
	Notes           string  `json:"notes"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
	DiscountAmount  float64 `json:"discount_amount" validate:"gte=0"`
}

// POST /api/quotes
func CreateQuoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateQuoteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		var customer models.Customer
		if err := database.DB.Where("store_id = ?", storeID).First(&customer, body.CustomerID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cliente não encontrado")
		}

		quote := models.Quote{
			StoreID:         storeID,
			DealID:          body.DealID,
			CustomerID:      body.CustomerID,
			Status:          models.QuoteStatusDraft,
			DiscountPercent: body.DiscountPercent,
			DiscountAmount:  body.DiscountAmount,
			Notes:           body.Notes,
			CreatedByID:     userID,
		}
		if body.ValidUntil != "" {
			d, err := time.Parse("2006-01-02", body.ValidUntil)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Validade inválida, use YYYY-MM-DD")
			}
			quote.ValidUntil = &d
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			// Número sequencial por loja, dentro da transação para não repetir
			var maxNumber int
			if err := tx.Model(&models.Quote{}).Where("store_id = ?", storeID).
				Select("COALESCE(MAX(quote_number), 0)").Scan(&maxNumber).Error; err != nil {
				return err
			}
			quote.QuoteNumber = maxNumber + 1
			return tx.Create(&quote).Error
		})
		if txErr != nil {
			logging.LogError("quotes", "CreateQuote", txErr)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o orçamento")
		}

		quote.Customer = customer
		return c.Status(fiber.StatusCreated).JSON(toResponse(quote, false))
	}
}

type AddQuoteItemRequest struct {
	ProductID   *uint   `json:"product_id"`
	Description string  `json:"description" validate:"required,min=1"`
	Quantity    int     `json:"quantity" validate:"gte=1"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// POST /api/quotes/:id/items
func AddQuoteItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var quote models.Quote
		if err := database.DB.Preload("Customer").
			Where("store_id = ?", storeID).First(&quote, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Orçamento não encontrado")
		}
		if quote.Status != models.QuoteStatusDraft {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Só orçamentos em rascunho podem ser editados")
		}

		var body AddQuoteItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		if body.ProductID != nil {
			var p models.Product
			if err := database.DB.Where("store_id = ?", storeID).First(&p, *body.ProductID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Produto não encontrado")
			}
		}

		item := models.QuoteItem{
			QuoteID:     quote.ID,
			ProductID:   body.ProductID,
			Description: body.Description,
			Quantity:    body.Quantity,
			UnitPrice:   body.UnitPrice,
			Total:       round2(float64(body.Quantity) * body.UnitPrice),
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			return recalcTotals(tx, &quote)
		})
		if txErr != nil {
			logging.LogError("quotes", "AddQuoteItem", txErr)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível adicionar o item")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"item_id":  item.ID,
			"subtotal": quote.Subtotal,
			"total":    quote.Total,
		})
	}
}

// DELETE /api/quotes/:id/items/:itemId
func RemoveQuoteItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var quote models.Quote
		if err := database.DB.Where("store_id = ?", storeID).First(&quote, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Orçamento não encontrado")
		}
		if quote.Status != models.QuoteStatusDraft {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Só orçamentos em rascunho podem ser editados")
		}

		var item models.QuoteItem
		if err := database.DB.Where("quote_id = ?", quote.ID).First(&item, "id = ?", c.Params("itemId")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&item).Error; err != nil {
				return err
			}
			return recalcTotals(tx, &quote)
		})
		if txErr != nil {
			logging.LogError("quotes", "RemoveQuoteItem", txErr)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível remover o item")
		}

		return c.JSON(fiber.Map{
			"subtotal": quote.Subtotal,
			"total":    quote.Total,
		})
	}
}

type UpdateQuoteStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft sent approved rejected expired"`
}

// PUT /api/quotes/:id/status
// sent e approved carimbam os respectivos timestamps.
func UpdateQuoteStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var quote models.Quote
		if err := database.DB.Preload("Customer").
			Where("store_id = ?", storeID).First(&quote, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Orçamento não encontrado")
		}

		var body UpdateQuoteStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		now := time.Now()
		quote.Status = models.QuoteStatus(body.Status)
		switch quote.Status {
		case models.QuoteStatusSent:
			quote.SentAt = &now
		case models.QuoteStatusApproved:
			quote.ApprovedAt = &now
		}

		if err := database.DB.Save(&quote).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o status")
		}
		return c.JSON(toResponse(quote, false))
	}
}

// POST /api/quotes/:id/convert
// Converte o orçamento em venda (pagamento "pending") e marca como aprovado,
// tudo em uma transação. O estoque NÃO é baixado aqui: a venda gerada fica
// pendente até o caixa fechar o pagamento.
func ConvertQuoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var quote models.Quote
		if err := database.DB.Preload("Items").Preload("Customer").
			Where("store_id = ?", storeID).First(&quote, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Orçamento não encontrado")
		}

		if quote.Status == models.QuoteStatusApproved {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Orçamento já foi convertido")
		}
		if len(quote.Items) == 0 {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Orçamento sem itens não pode virar venda")
		}

		var sale models.Sale

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			sale = models.Sale{
				StoreID:       storeID,
				SellerID:      userID,
				CustomerID:    &quote.CustomerID,
				TotalGross:    quote.Total,
				TotalNet:      quote.Total,
				PaymentMethod: "pending",
			}
			if err := tx.Create(&sale).Error; err != nil {
				return err
			}

			for _, it := range quote.Items {
				if it.ProductID == nil {
					// item avulso (serviço, produto fora do catálogo) não gera item de venda
					continue
				}
				saleItem := models.SaleItem{
					SaleID:          sale.ID,
					ProductID:       *it.ProductID,
					Quantity:        it.Quantity,
					UnitPriceAtSale: it.UnitPrice,
				}
				if err := tx.Create(&saleItem).Error; err != nil {
					return err
				}
			}

			now := time.Now()
			quote.Status = models.QuoteStatusApproved
			quote.ApprovedAt = &now
			return tx.Save(&quote).Error
		})
		if txErr != nil {
			logging.LogError("quotes", "ConvertQuote", txErr)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível converter o orçamento")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"sale_id":  sale.ID,
			"quote_id": quote.ID,
			"total":    quote.Total,
		})
	}
}

// UpdateQuoteDiscountRequest: ajuste de desconto com retotalização.
type UpdateQuoteDiscountRequest struct {
	DiscountPercent *float64 `json:"discount_percent"`
	DiscountAmount  *float64 `json:"discount_amount"`
}

// PUT /api/quotes/:id/discount
func UpdateQuoteDiscountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var quote models.Quote
		if err := database.DB.Where("store_id = ?", storeID).First(&quote, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Orçamento não encontrado")
		}
		if quote.Status != models.QuoteStatusDraft {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Só orçamentos em rascunho podem ser editados")
		}

		var body UpdateQuoteDiscountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.DiscountPercent != nil {
			if *body.DiscountPercent < 0 || *body.DiscountPercent > 100 {
				return fiber.NewError(fiber.StatusBadRequest, "Desconto percentual deve ficar entre 0 e 100")
			}
			quote.DiscountPercent = *body.DiscountPercent
		}
		if body.DiscountAmount != nil {
			if *body.DiscountAmount < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Desconto em valor não pode ser negativo")
			}
			quote.DiscountAmount = *body.DiscountAmount
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&quote).Updates(map[string]interface{}{
				"discount_percent": quote.DiscountPercent,
				"discount_amount":  quote.DiscountAmount,
			}).Error; err != nil {
				return err
			}
			return recalcTotals(tx, &quote)
		})
		if txErr != nil {
			logging.LogError("quotes", "UpdateQuoteDiscount", txErr)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o desconto")
		}

		return c.JSON(fiber.Map{
			"subtotal": quote.Subtotal,
			"total":    quote.Total,
		})
	}
}
