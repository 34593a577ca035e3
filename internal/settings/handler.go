// Package settings guarda a configuração de precificação da loja. Substitui o
// armazenamento local do navegador: as frações moram no banco e entram como
// argumento explícito em toda chamada de precificação.
package settings

import (
	"errors"

	"sige-backend/internal/auth"
	"sige-backend/internal/database"
	"sige-backend/internal/models"
	"sige-backend/internal/pricing"
	"sige-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PricingConfigForStore carrega as frações da loja, caindo nos defaults se a
// loja nunca salvou nada. Usado pelos fluxos de compra e preview de preço.
func PricingConfigForStore(db *gorm.DB, storeID uint) pricing.Config {
	var s models.PricingSettings
	err := db.Where("store_id = ?", storeID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pricing.DefaultConfig()
	}
	if err != nil {
		// banco fora do ar no meio da requisição vai estourar na próxima
		// query; aqui o default mantém o preview funcionando
		return pricing.DefaultConfig()
	}
	return pricing.Config{
		TargetMargin:        s.TargetMargin,
		SalesTaxRate:        s.SalesTaxRate,
		LaborCommissionRate: s.LaborCommissionRate,
	}
}

type PricingSettingsResponse struct {
	TargetMargin        float64 `json:"target_margin"`
	SalesTaxRate        float64 `json:"sales_tax_rate"`
	LaborCommissionRate float64 `json:"labor_commission_rate"`
	IsDefault           bool    `json:"is_default"`
}

type UpdatePricingSettingsRequest struct {
	TargetMargin        float64 `json:"target_margin" validate:"gte=0,lt=1"`
	SalesTaxRate        float64 `json:"sales_tax_rate" validate:"gte=0,lt=1"`
	LaborCommissionRate float64 `json:"labor_commission_rate" validate:"gte=0,lt=1"`
}

// GET /api/settings/pricing
func GetPricingSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var s models.PricingSettings
		dbErr := database.DB.Where("store_id = ?", storeID).First(&s).Error
		if errors.Is(dbErr, gorm.ErrRecordNotFound) {
			def := pricing.DefaultConfig()
			return c.JSON(PricingSettingsResponse{
				TargetMargin:        def.TargetMargin,
				SalesTaxRate:        def.SalesTaxRate,
				LaborCommissionRate: def.LaborCommissionRate,
				IsDefault:           true,
			})
		}
		if dbErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar as configurações")
		}

		return c.JSON(PricingSettingsResponse{
			TargetMargin:        s.TargetMargin,
			SalesTaxRate:        s.SalesTaxRate,
			LaborCommissionRate: s.LaborCommissionRate,
		})
	}
}

// PUT /api/settings/pricing (somente owner)
// Rejeita soma >= 100% na gravação: configuração degenerada nunca chega ao
// banco por aqui, então o fallback de 2x só aparece em linha editada na mão.
func UpdatePricingSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body UpdatePricingSettingsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		cfg := pricing.Config{
			TargetMargin:        body.TargetMargin,
			SalesTaxRate:        body.SalesTaxRate,
			LaborCommissionRate: body.LaborCommissionRate,
		}
		if !cfg.Valid() {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"A soma de margem, impostos e comissão precisa ficar abaixo de 100%")
		}

		var s models.PricingSettings
		dbErr := database.DB.Where("store_id = ?", storeID).First(&s).Error
		if errors.Is(dbErr, gorm.ErrRecordNotFound) {
			s = models.PricingSettings{StoreID: storeID}
		} else if dbErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar as configurações")
		}

		s.TargetMargin = body.TargetMargin
		s.SalesTaxRate = body.SalesTaxRate
		s.LaborCommissionRate = body.LaborCommissionRate
		s.UpdatedByID = userID

		if err := database.DB.Save(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar as configurações")
		}

		return c.JSON(PricingSettingsResponse{
			TargetMargin:        s.TargetMargin,
			SalesTaxRate:        s.SalesTaxRate,
			LaborCommissionRate: s.LaborCommissionRate,
		})
	}
}
