// Package purchases implementa a entrada de compra: resolve os produtos da
// nota (criando os que não existem), rateia frete/impostos/outros custos com
// o alocador e grava tudo — cabeçalho, itens e atualização de estoque/custo/
// preço de cada produto — em uma única transação. Ou entra tudo, ou nada.
package purchases

import (
	"errors"
	"fmt"
	"strings"

	"sige-backend/internal/auth"
	"sige-backend/internal/database"
	"sige-backend/internal/logging"
	"sige-backend/internal/models"
	"sige-backend/internal/pricing"
	"sige-backend/internal/settings"
	"sige-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PurchaseItemRequest struct {
	// ProductID OU SKU+Name: sem id, o produto é procurado pelo SKU e criado
	// se não existir (cadastro na primeira compra).
	ProductID   *uint   `json:"product_id"`
	ProductSKU  string  `json:"product_sku"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity" validate:"gte=1"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

type CreatePurchaseRequest struct {
	Supplier      string                `json:"supplier" validate:"required,min=1"`
	InvoiceNumber string                `json:"invoice_number"`
	FreightCost   float64               `json:"freight_cost" validate:"gte=0"`
	TaxCost       float64               `json:"tax_cost" validate:"gte=0"`
	OtherCosts    float64               `json:"other_costs" validate:"gte=0"`
	Items         []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

type PurchaseItemResponse struct {
	ProductID          uint    `json:"product_id"`
	ProductName        string  `json:"product_name"`
	ProductCreated     bool    `json:"product_created"`
	Quantity           int     `json:"quantity"`
	UnitPrice          float64 `json:"unit_price"`
	LineSubtotal       float64 `json:"line_subtotal"`
	AllocatedExtra     float64 `json:"allocated_extra"`
	EffectiveUnitCost  float64 `json:"effective_unit_cost"`
	SuggestedSalePrice float64 `json:"suggested_sale_price"`
	NewStock           int     `json:"new_stock"`
}

type CreatePurchaseResponse struct {
	ID                  uint                   `json:"id"`
	TotalProductsAmount float64                `json:"total_products_amount"`
	TotalExtras         float64                `json:"total_extras"`
	TotalPurchaseAmount float64                `json:"total_purchase_amount"`
	Items               []PurchaseItemResponse `json:"items"`
}

// resolvedProduct: item da nota já amarrado a um produto do catálogo.
type resolvedProduct struct {
	product models.Product
	created bool
}

// resolveProducts amarra cada item a um produto existente (por id ou SKU) ou
// cria o produto na hora, dentro da transação. O alocador nunca vê referência
// não resolvida.
func resolveProducts(tx *gorm.DB, storeID uint, items []PurchaseItemRequest) ([]resolvedProduct, error) {
	resolved := make([]resolvedProduct, len(items))

	for i, it := range items {
		if it.ProductID != nil {
			var p models.Product
			if err := tx.Where("store_id = ?", storeID).First(&p, *it.ProductID).Error; err != nil {
				return nil, fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Item %d: produto %d não encontrado", i+1, *it.ProductID))
			}
			resolved[i] = resolvedProduct{product: p}
			continue
		}

		sku := strings.TrimSpace(it.ProductSKU)
		if sku == "" {
			return nil, fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Item %d: informe product_id ou product_sku", i+1))
		}

		var p models.Product
		err := tx.Where("store_id = ? AND sku = ?", storeID, sku).First(&p).Error
		if err == nil {
			resolved[i] = resolvedProduct{product: p}
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		name := strings.TrimSpace(it.ProductName)
		if name == "" {
			name = "Novo Produto"
		}
		p = models.Product{
			StoreID:  storeID,
			SKU:      sku,
			Name:     name,
			Category: "Acessórios",
			MinStock: 5,
		}
		if err := tx.Create(&p).Error; err != nil {
			return nil, err
		}
		resolved[i] = resolvedProduct{product: p, created: true}
	}

	return resolved, nil
}

// POST /api/purchases
func CreatePurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreatePurchaseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		body.Supplier = strings.TrimSpace(body.Supplier)
		if err := validation.Struct(body); err != nil {
			return err
		}

		// O rateio é puro e roda antes de qualquer escrita: entrada inválida
		// falha aqui sem tocar o banco.
		lineItems := make([]pricing.LineItem, len(body.Items))
		for i, it := range body.Items {
			lineItems[i] = pricing.LineItem{Quantity: it.Quantity, UnitPrice: it.UnitPrice}
		}
		extras := pricing.ExtraCosts{
			Freight: body.FreightCost,
			Tax:     body.TaxCost,
			Other:   body.OtherCosts,
		}
		cfg := settings.PricingConfigForStore(database.DB, storeID)

		alloc, allocErr := pricing.Allocate(lineItems, extras, cfg)
		if allocErr != nil {
			var lie *pricing.LineItemError
			switch {
			case errors.As(allocErr, &lie):
				return fiber.NewError(fiber.StatusUnprocessableEntity,
					fmt.Sprintf("Item %d: campo %s inválido", lie.Index+1, lie.Field))
			case errors.Is(allocErr, pricing.ErrUnallocatableExtras):
				return fiber.NewError(fiber.StatusUnprocessableEntity,
					"Não dá para ratear custos extras com subtotal de produtos zerado")
			case errors.Is(allocErr, pricing.ErrInvalidConfig):
				// A gravação de settings barra soma >= 100%, então isso indica
				// configuração corrompida — rejeita antes de gravar qualquer coisa.
				return fiber.NewError(fiber.StatusUnprocessableEntity,
					"Configuração de precificação inválida: a soma das frações passa de 100%")
			default:
				return fiber.NewError(fiber.StatusUnprocessableEntity, allocErr.Error())
			}
		}

		var res CreatePurchaseResponse

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			resolved, rerr := resolveProducts(tx, storeID, body.Items)
			if rerr != nil {
				return rerr
			}

			purchase := models.Purchase{
				StoreID:             storeID,
				SupplierName:        body.Supplier,
				InvoiceNumber:       strings.TrimSpace(body.InvoiceNumber),
				TotalProductsAmount: alloc.TotalProductsAmount,
				FreightCost:         body.FreightCost,
				TaxCost:             body.TaxCost,
				OtherCosts:          body.OtherCosts,
				TotalPurchaseAmount: alloc.TotalPurchaseAmount,
				CreatedByID:         userID,
			}
			if err := tx.Create(&purchase).Error; err != nil {
				return err
			}

			res = CreatePurchaseResponse{
				ID:                  purchase.ID,
				TotalProductsAmount: alloc.TotalProductsAmount,
				TotalExtras:         alloc.TotalExtras,
				TotalPurchaseAmount: alloc.TotalPurchaseAmount,
				Items:               make([]PurchaseItemResponse, len(body.Items)),
			}

			for i, it := range body.Items {
				ia := alloc.Items[i]
				p := resolved[i].product

				item := models.PurchaseItem{
					PurchaseID:        purchase.ID,
					ProductID:         p.ID,
					Quantity:          it.Quantity,
					UnitPrice:         it.UnitPrice,
					EffectiveUnitCost: ia.EffectiveUnitCost,
					TotalLineAmount:   ia.LineSubtotal,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}

				// Estoque soma a quantidade; custo e preço são SOBRESCRITOS
				// com o custo efetivo e o preço sugerido desta entrada.
				newStock := p.CurrentStock + it.Quantity
				updates := map[string]interface{}{
					"current_stock": newStock,
					"cost_price":    ia.EffectiveUnitCost,
					"sale_price":    ia.SuggestedSalePrice,
				}
				if err := tx.Model(&models.Product{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
					return err
				}

				res.Items[i] = PurchaseItemResponse{
					ProductID:          p.ID,
					ProductName:        p.Name,
					ProductCreated:     resolved[i].created,
					Quantity:           it.Quantity,
					UnitPrice:          it.UnitPrice,
					LineSubtotal:       ia.LineSubtotal,
					AllocatedExtra:     ia.AllocatedExtra,
					EffectiveUnitCost:  ia.EffectiveUnitCost,
					SuggestedSalePrice: ia.SuggestedSalePrice,
					NewStock:           newStock,
				}
			}

			entry := models.CashFlowEntry{
				StoreID:     storeID,
				Date:        purchase.CreatedAt,
				Category:    models.CashFlowCategoryPurchase,
				Direction:   models.CashFlowOut,
				Amount:      alloc.TotalPurchaseAmount,
				Description: fmt.Sprintf("Compra #%d - %s", purchase.ID, purchase.SupplierName),
				CreatedByID: userID,
			}
			return tx.Create(&entry).Error
		})
		if txErr != nil {
			var fe *fiber.Error
			if errors.As(txErr, &fe) {
				return fe
			}
			logging.LogError("purchases", "CreatePurchase", txErr)
			return fiber.NewError(fiber.StatusInternalServerError,
				"Não foi possível registrar a compra (nenhum dado foi gravado)")
		}

		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

type PurchaseListItem struct {
	ID                  uint    `json:"id"`
	SupplierName        string  `json:"supplier_name"`
	InvoiceNumber       string  `json:"invoice_number"`
	TotalProductsAmount float64 `json:"total_products_amount"`
	FreightCost         float64 `json:"freight_cost"`
	TaxCost             float64 `json:"tax_cost"`
	OtherCosts          float64 `json:"other_costs"`
	TotalPurchaseAmount float64 `json:"total_purchase_amount"`
	CreatedAt           string  `json:"created_at"`
	ItemCount           int     `json:"item_count"`
}

// GET /api/purchases
func ListPurchasesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var purchases []models.Purchase
		if err := database.DB.Preload("Items").
			Where("store_id = ?", storeID).
			Order("created_at desc").
			Find(&purchases).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as compras")
		}

		res := make([]PurchaseListItem, 0, len(purchases))
		for _, p := range purchases {
			res = append(res, PurchaseListItem{
				ID:                  p.ID,
				SupplierName:        p.SupplierName,
				InvoiceNumber:       p.InvoiceNumber,
				TotalProductsAmount: p.TotalProductsAmount,
				FreightCost:         p.FreightCost,
				TaxCost:             p.TaxCost,
				OtherCosts:          p.OtherCosts,
				TotalPurchaseAmount: p.TotalPurchaseAmount,
				CreatedAt:           p.CreatedAt.Format("2006-01-02"),
				ItemCount:           len(p.Items),
			})
		}
		return c.JSON(res)
	}
}
