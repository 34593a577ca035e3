package marketing

import (
	"sige-backend/internal/auth"
	"sige-backend/internal/database"
	"sige-backend/internal/logging"
	"sige-backend/internal/models"
	"sige-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type GenerateContentRequest struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Tone      string `json:"tone" validate:"required,min=1,max=50"`
	Platform  string `json:"platform" validate:"required,min=1,max=50"`
}

// POST /api/marketing/generate
func GenerateContentHandler(gen TextGenerator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		if gen == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Geração de conteúdo não está configurada")
		}

		var body GenerateContentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.Where("store_id = ?", storeID).First(&product, body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}

		prompt := buildPrompt(product, body.Tone, body.Platform)
		content, err := gen.Generate(c.Context(), prompt)
		if err != nil {
			logging.LogError("marketing", "GenerateContent", err)
			return fiber.NewError(fiber.StatusBadGateway, "Não foi possível gerar o conteúdo")
		}

		return c.JSON(fiber.Map{
			"product_id": product.ID,
			"platform":   body.Platform,
			"tone":       body.Tone,
			"content":    content,
		})
	}
}
