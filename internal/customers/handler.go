package customers

import (
	"crypto/subtle"
	"time"

	"sige-backend/internal/auth"
	"sige-backend/internal/database"
	"sige-backend/internal/logging"
	"sige-backend/internal/models"
	"sige-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CustomerResponse struct {
	ID                 uint    `json:"id"`
	Name               string  `json:"name"`
	Whatsapp           string  `json:"whatsapp"`
	CurrentDeviceModel string  `json:"current_device_model"`
	Notes              string  `json:"notes"`
	Status             string  `json:"status"`
	Source             string  `json:"source"`
	LastPurchaseDate   *string `json:"last_purchase_date"`
}

func toResponse(cu models.Customer) CustomerResponse {
	res := CustomerResponse{
		ID:                 cu.ID,
		Name:               cu.Name,
		Whatsapp:           cu.Whatsapp,
		CurrentDeviceModel: cu.CurrentDeviceModel,
		Notes:              cu.Notes,
		Status:             string(cu.Status),
		Source:             cu.Source,
	}
	if cu.LastPurchaseDate != nil {
		s := cu.LastPurchaseDate.Format(time.RFC3339)
		res.LastPurchaseDate = &s
	}
	return res
}

// GET /api/customers?search=&status=
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Where("store_id = ?", storeID)
		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			dbq = dbq.Where("name ILIKE ? OR whatsapp ILIKE ?", like, like)
		}
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		var customers []models.Customer
		if err := dbq.Order("name asc").Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os clientes")
		}

		res := make([]CustomerResponse, 0, len(customers))
		for _, cu := range customers {
			res = append(res, toResponse(cu))
		}
		return c.JSON(res)
	}
}

// GET /api/customers/:id
func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var customer models.Customer
		if err := database.DB.Where("store_id = ?", storeID).
			First(&customer, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente não encontrado")
		}
		return c.JSON(toResponse(customer))
	}
}

type CreateCustomerRequest struct {
	Name               string `json:"name" validate:"required,min=2,max=150"`
	Whatsapp           string `json:"whatsapp" validate:"max=30"`
	CurrentDeviceModel string `json:"current_device_model" validate:"max=100"`
	Notes              string `json:"notes" validate:"max=500"`
	Status             string `json:"status" validate:"omitempty,oneof=lead active"`
}

// POST /api/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		status := models.CustomerStatusActive
		if body.Status != "" {
			status = models.CustomerStatus(body.Status)
		}

		customer := models.Customer{
			StoreID:            storeID,
			Name:               body.Name,
			Whatsapp:           body.Whatsapp,
			CurrentDeviceModel: body.CurrentDeviceModel,
			Notes:              body.Notes,
			Status:             status,
			Source:             "manual",
		}
		if err := database.DB.Create(&customer).Error; err != nil {
			logging.LogError("customers", "CreateCustomer", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível cadastrar o cliente")
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(customer))
	}
}

type UpdateCustomerRequest struct {
	Name               *string `json:"name" validate:"omitempty,min=2,max=150"`
	Whatsapp           *string `json:"whatsapp" validate:"omitempty,max=30"`
	CurrentDeviceModel *string `json:"current_device_model" validate:"omitempty,max=100"`
	Notes              *string `json:"notes" validate:"omitempty,max=500"`
	Status             *string `json:"status" validate:"omitempty,oneof=lead active"`
}

// PUT /api/customers/:id
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var customer models.Customer
		if err := database.DB.Where("store_id = ?", storeID).
			First(&customer, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente não encontrado")
		}

		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		if body.Name != nil {
			customer.Name = *body.Name
		}
		if body.Whatsapp != nil {
			customer.Whatsapp = *body.Whatsapp
		}
		if body.CurrentDeviceModel != nil {
			customer.CurrentDeviceModel = *body.CurrentDeviceModel
		}
		if body.Notes != nil {
			customer.Notes = *body.Notes
		}
		if body.Status != nil {
			customer.Status = models.CustomerStatus(*body.Status)
		}

		if err := database.DB.Save(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o cliente")
		}
		return c.JSON(toResponse(customer))
	}
}

// DELETE /api/customers/:id
func DeleteCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		res := database.DB.Where("store_id = ?", storeID).
			Delete(&models.Customer{}, "id = ?", c.Params("id"))
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível remover o cliente")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Cliente não encontrado")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type LeadWebhookRequest struct {
	StoreID            uint   `json:"store_id" validate:"required"`
	Name               string `json:"name" validate:"required,min=2,max=150"`
	Whatsapp           string `json:"whatsapp" validate:"max=30"`
	CurrentDeviceModel string `json:"current_device_model" validate:"max=100"`
	Source             string `json:"source" validate:"max=50"`
	Notes              string `json:"notes" validate:"max=500"`
}

// POST /api/webhooks/leads
// Endpoint público para integrações externas (landing page, Instagram).
// Autentica pelo header X-Api-Secret, não pelo JWT.
func LeadWebhookHandler(apiSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if apiSecret == "" {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Webhook de leads não está configurado")
		}
		provided := c.Get("X-Api-Secret")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiSecret)) != 1 {
			return fiber.NewError(fiber.StatusUnauthorized, "Chave de API inválida")
		}

		var body LeadWebhookRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		var store models.Store
		if err := database.DB.First(&store, body.StoreID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Loja não encontrada")
		}

		source := body.Source
		if source == "" {
			source = "system"
		}

		customer := models.Customer{
			StoreID:            body.StoreID,
			Name:               body.Name,
			Whatsapp:           body.Whatsapp,
			CurrentDeviceModel: body.CurrentDeviceModel,
			Notes:              body.Notes,
			Status:             models.CustomerStatusLead,
			Source:             source,
		}
		if err := database.DB.Create(&customer).Error; err != nil {
			logging.LogError("customers", "LeadWebhook", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível registrar o lead")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"customer_id": customer.ID,
			"status":      customer.Status,
		})
	}
}
