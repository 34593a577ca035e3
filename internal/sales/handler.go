package sales

import (
	"errors"
	"fmt"
	"time"

	"sige-backend/internal/auth"
	"sige-backend/internal/database"
	"sige-backend/internal/logging"
	"sige-backend/internal/models"
	"sige-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SaleItemRequest struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"gte=1"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

type CreateSaleRequest struct {
	CustomerID    *uint             `json:"customer_id"`
	TotalGross    float64           `json:"total_gross" validate:"gte=0"`
	TotalNet      float64           `json:"total_net" validate:"gte=0"`
	PaymentMethod string            `json:"payment_method" validate:"required,min=1"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// POST /api/sales
// Venda de balcão: grava venda + itens, baixa o estoque (barrando estoque
// negativo) e lança a entrada no fluxo de caixa — tudo em uma transação.
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		var sale models.Sale

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			sale = models.Sale{
				StoreID:       storeID,
				SellerID:      userID,
				CustomerID:    body.CustomerID,
				TotalGross:    body.TotalGross,
				TotalNet:      body.TotalNet,
				PaymentMethod: body.PaymentMethod,
			}
			if err := tx.Create(&sale).Error; err != nil {
				return err
			}

			for i, it := range body.Items {
				var p models.Product
				if err := tx.Where("store_id = ?", storeID).First(&p, it.ProductID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("Item %d: produto %d não encontrado", i+1, it.ProductID))
				}
				if p.CurrentStock < it.Quantity {
					return fiber.NewError(fiber.StatusUnprocessableEntity,
						fmt.Sprintf("Estoque insuficiente de %s (disponível: %d)", p.Name, p.CurrentStock))
				}

				item := models.SaleItem{
					SaleID:          sale.ID,
					ProductID:       it.ProductID,
					Quantity:        it.Quantity,
					UnitPriceAtSale: it.UnitPrice,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}

				// Decremento guardado: a condição repete a checagem para não
				// deixar duas vendas simultâneas estourarem o estoque.
				result := tx.Model(&models.Product{}).
					Where("id = ? AND current_stock >= ?", it.ProductID, it.Quantity).
					Update("current_stock", gorm.Expr("current_stock - ?", it.Quantity))
				if result.Error != nil {
					return result.Error
				}
				if result.RowsAffected == 0 {
					return fiber.NewError(fiber.StatusUnprocessableEntity,
						fmt.Sprintf("Estoque insuficiente de %s", p.Name))
				}
			}

			// Atualiza a data da última compra do cliente
			if body.CustomerID != nil {
				now := time.Now()
				if err := tx.Model(&models.Customer{}).
					Where("id = ? AND store_id = ?", *body.CustomerID, storeID).
					Updates(map[string]interface{}{
						"last_purchase_date": &now,
						"status":             models.CustomerStatusActive,
					}).Error; err != nil {
					return err
				}
			}

			// Lançamento no fluxo de caixa
			now := time.Now()
			entry := models.CashFlowEntry{
				StoreID:     storeID,
				Date:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
				Category:    models.CashFlowCategorySale,
				Direction:   models.CashFlowIn,
				Amount:      body.TotalNet,
				Description: fmt.Sprintf("Venda #%d", sale.ID),
				CreatedByID: userID,
			}
			return tx.Create(&entry).Error
		})
		if txErr != nil {
			var fe *fiber.Error
			if errors.As(txErr, &fe) {
				return fe
			}
			logging.LogError("sales", "CreateSale", txErr)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível registrar a venda")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":             sale.ID,
			"total_gross":    sale.TotalGross,
			"total_net":      sale.TotalNet,
			"payment_method": sale.PaymentMethod,
		})
	}
}

type SaleListItem struct {
	ID            uint    `json:"id"`
	CustomerName  string  `json:"customer_name"`
	SellerName    string  `json:"seller_name"`
	TotalGross    float64 `json:"total_gross"`
	TotalNet      float64 `json:"total_net"`
	PaymentMethod string  `json:"payment_method"`
	ItemCount     int     `json:"item_count"`
	CreatedAt     string  `json:"created_at"`
}

// GET /api/sales?from=2026-01-01&to=2026-01-31
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Preload("Items").Preload("Customer").Preload("Seller").
			Where("store_id = ?", storeID)

		if from := c.Query("from"); from != "" {
			d, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Parâmetro 'from' inválido, use YYYY-MM-DD")
			}
			dbq = dbq.Where("created_at >= ?", d)
		}
		if to := c.Query("to"); to != "" {
			d, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Parâmetro 'to' inválido, use YYYY-MM-DD")
			}
			dbq = dbq.Where("created_at < ?", d.AddDate(0, 0, 1))
		}

		var sales []models.Sale
		if err := dbq.Order("created_at desc").Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as vendas")
		}

		res := make([]SaleListItem, 0, len(sales))
		for _, s := range sales {
			customerName := ""
			if s.Customer != nil {
				customerName = s.Customer.Name
			}
			res = append(res, SaleListItem{
				ID:            s.ID,
				CustomerName:  customerName,
				SellerName:    s.Seller.Name,
				TotalGross:    s.TotalGross,
				TotalNet:      s.TotalNet,
				PaymentMethod: s.PaymentMethod,
				ItemCount:     len(s.Items),
				CreatedAt:     s.CreatedAt.Format(time.RFC3339),
			})
		}
		return c.JSON(res)
	}
}
