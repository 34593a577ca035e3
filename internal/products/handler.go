package products

import (
	"errors"
	"strings"

	"sige-backend/internal/auth"
	"sige-backend/internal/database"
	"sige-backend/internal/models"
	"sige-backend/internal/pricing"
	"sige-backend/internal/settings"
	"sige-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID               uint     `json:"id"`
	SKU              string   `json:"sku"`
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	CostPrice        float64  `json:"cost_price"`
	SalePrice        float64  `json:"sale_price"`
	CurrentStock     int      `json:"current_stock"`
	MinStock         int      `json:"min_stock"`
	CompatibleModels []string `json:"compatible_models"`
	LowStock         bool     `json:"low_stock"`
}

type CreateProductRequest struct {
	SKU              string   `json:"sku"`
	Name             string   `json:"name" validate:"required,min=1"`
	Category         string   `json:"category"`
	CostPrice        float64  `json:"cost_price" validate:"gte=0"`
	SalePrice        float64  `json:"sale_price" validate:"gte=0"`
	CurrentStock     int      `json:"current_stock" validate:"gte=0"`
	MinStock         int      `json:"min_stock" validate:"gte=0"`
	CompatibleModels []string `json:"compatible_models"`
}

type UpdateProductRequest struct {
	SKU              *string   `json:"sku"`
	Name             *string   `json:"name"`
	Category         *string   `json:"category"`
	CostPrice        *float64  `json:"cost_price"`
	SalePrice        *float64  `json:"sale_price"`
	CurrentStock     *int      `json:"current_stock"`
	MinStock         *int      `json:"min_stock"`
	CompatibleModels *[]string `json:"compatible_models"`
}

func toResponse(p models.Product) ProductResponse {
	var compat []string
	if p.CompatibleModels != "" {
		for _, m := range strings.Split(p.CompatibleModels, ",") {
			if m = strings.TrimSpace(m); m != "" {
				compat = append(compat, m)
			}
		}
	}
	return ProductResponse{
		ID:               p.ID,
		SKU:              p.SKU,
		Name:             p.Name,
		Category:         p.Category,
		CostPrice:        p.CostPrice,
		SalePrice:        p.SalePrice,
		CurrentStock:     p.CurrentStock,
		MinStock:         p.MinStock,
		CompatibleModels: compat,
		LowStock:         p.CurrentStock <= p.MinStock,
	}
}

func joinModels(ms []string) string {
	cleaned := make([]string, 0, len(ms))
	for _, m := range ms {
		if m = strings.TrimSpace(m); m != "" {
			cleaned = append(cleaned, m)
		}
	}
	return strings.Join(cleaned, ", ")
}

// GET /api/products?search=&category=&low_stock=true
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Product{}).Where("store_id = ?", storeID)

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			dbq = dbq.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
		}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			dbq = dbq.Where("category = ?", category)
		}
		if c.Query("low_stock") == "true" {
			dbq = dbq.Where("current_stock <= min_stock")
		}

		var products []models.Product
		if err := dbq.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os produtos")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toResponse(p))
		}
		return c.JSON(res)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var p models.Product
		if err := database.DB.Where("store_id = ?", storeID).First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}
		return c.JSON(toResponse(p))
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		body.Name = strings.TrimSpace(body.Name)
		body.SKU = strings.TrimSpace(body.SKU)
		if err := validation.Struct(body); err != nil {
			return err
		}

		if body.SKU != "" {
			var existing models.Product
			if err := database.DB.Where("store_id = ? AND sku = ?", storeID, body.SKU).First(&existing).Error; err == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Já existe um produto com esse SKU")
			}
		}

		category := strings.TrimSpace(body.Category)
		if category == "" {
			category = "Acessórios"
		}
		minStock := body.MinStock
		if minStock == 0 {
			minStock = 5
		}

		p := models.Product{
			StoreID:          storeID,
			SKU:              body.SKU,
			Name:             body.Name,
			Category:         category,
			CostPrice:        body.CostPrice,
			SalePrice:        body.SalePrice,
			CurrentStock:     body.CurrentStock,
			MinStock:         minStock,
			CompatibleModels: joinModels(body.CompatibleModels),
		}
		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o produto")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(p))
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var p models.Product
		if err := database.DB.Where("store_id = ?", storeID).First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome não pode ficar vazio")
			}
			p.Name = name
		}
		if body.SKU != nil {
			p.SKU = strings.TrimSpace(*body.SKU)
		}
		if body.Category != nil {
			p.Category = strings.TrimSpace(*body.Category)
		}
		if body.CostPrice != nil {
			if *body.CostPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Custo não pode ser negativo")
			}
			p.CostPrice = *body.CostPrice
		}
		if body.SalePrice != nil {
			if *body.SalePrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Preço não pode ser negativo")
			}
			p.SalePrice = *body.SalePrice
		}
		if body.CurrentStock != nil {
			if *body.CurrentStock < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Estoque não pode ser negativo")
			}
			p.CurrentStock = *body.CurrentStock
		}
		if body.MinStock != nil {
			if *body.MinStock < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Estoque mínimo não pode ser negativo")
			}
			p.MinStock = *body.MinStock
		}
		if body.CompatibleModels != nil {
			p.CompatibleModels = joinModels(*body.CompatibleModels)
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o produto")
		}
		return c.JSON(toResponse(p))
	}
}

// DELETE /api/products/:id (somente owner)
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var p models.Product
		if err := database.DB.Where("store_id = ?", storeID).First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}

		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o produto")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type PricePreviewRequest struct {
	Cost float64 `json:"cost" validate:"gte=0"`
}

type PricePreviewResponse struct {
	SuggestedPrice float64                `json:"suggested_price"`
	ConfigInvalid  bool                   `json:"config_invalid"`
	Breakdown      pricing.PriceBreakdown `json:"breakdown"`
}

// POST /api/products/price-preview
// Calculadora avulsa: dado um custo, devolve o preço sugerido e a composição
// sob a configuração atual da loja. Configuração degenerada não é rejeitada
// aqui — o preview mostra o fallback e sinaliza config_invalid.
func PricePreviewHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var body PricePreviewRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		cfg := settings.PricingConfigForStore(database.DB, storeID)
		price, perr := pricing.PriceFromCost(body.Cost, cfg)
		configInvalid := errors.Is(perr, pricing.ErrInvalidConfig)

		return c.JSON(PricePreviewResponse{
			SuggestedPrice: price,
			ConfigInvalid:  configInvalid,
			Breakdown:      pricing.Breakdown(body.Cost, price, cfg),
		})
	}
}
