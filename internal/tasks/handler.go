package tasks

import (
	"time"

	"sige-backend/internal/auth"
	"sige-backend/internal/database"
	"sige-backend/internal/models"
	"sige-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type TaskResponse struct {
	ID           uint    `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Type         string  `json:"type"`
	Priority     string  `json:"priority"`
	Status       string  `json:"status"`
	DealID       *uint   `json:"deal_id"`
	CustomerID   *uint   `json:"customer_id"`
	QuoteID      *uint   `json:"quote_id"`
	CustomerName string  `json:"customer_name,omitempty"`
	DealTitle    string  `json:"deal_title,omitempty"`
	DueDate      *string `json:"due_date"`
	ReminderAt   *string `json:"reminder_at"`
	CompletedAt  *string `json:"completed_at"`
}

func toResponse(t models.Task) TaskResponse {
	res := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Type:        string(t.Type),
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		DealID:      t.DealID,
		CustomerID:  t.CustomerID,
		QuoteID:     t.QuoteID,
	}
	if t.Customer != nil {
		res.CustomerName = t.Customer.Name
	}
	if t.Deal != nil {
		res.DealTitle = t.Deal.Title
	}
	if t.DueDate != nil {
		s := t.DueDate.Format("2006-01-02")
		res.DueDate = &s
	}
	if t.ReminderAt != nil {
		s := t.ReminderAt.Format(time.RFC3339)
		res.ReminderAt = &s
	}
	if t.CompletedAt != nil {
		s := t.CompletedAt.Format(time.RFC3339)
		res.CompletedAt = &s
	}
	return res
}

// GET /api/tasks?status=&priority=&type=&overdue=true&due_today=true
func ListTasksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Preload("Customer").Preload("Deal").
			Where("store_id = ?", storeID)

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}
		if priority := c.Query("priority"); priority != "" {
			dbq = dbq.Where("priority = ?", priority)
		}
		if taskType := c.Query("type"); taskType != "" {
			dbq = dbq.Where("type = ?", taskType)
		}

		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if c.Query("overdue") == "true" {
			dbq = dbq.Where("due_date < ? AND status IN ?", today,
				[]models.TaskStatus{models.TaskStatusPending, models.TaskStatusInProgress})
		}
		if c.Query("due_today") == "true" {
			dbq = dbq.Where("due_date >= ? AND due_date < ?", today, today.AddDate(0, 0, 1))
		}

		var tasks []models.Task
		if err := dbq.Order("due_date asc NULLS LAST").Find(&tasks).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as tarefas")
		}

		res := make([]TaskResponse, 0, len(tasks))
		for _, t := range tasks {
			res = append(res, toResponse(t))
		}
		return c.JSON(res)
	}
}

type CreateTaskRequest struct {
	DealID      *uint  `json:"deal_id"`
	CustomerID  *uint  `json:"customer_id"`
	QuoteID     *uint  `json:"quote_id"`
	Title       string `json:"title" validate:"required,min=1"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"omitempty,oneof=follow_up call meeting email whatsapp other"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     string `json:"due_date"`
	ReminderAt  string `json:"reminder_at"`
}

// POST /api/tasks
func CreateTaskHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateTaskRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		task := models.Task{
			StoreID:      storeID,
			DealID:       body.DealID,
			CustomerID:   body.CustomerID,
			QuoteID:      body.QuoteID,
			Title:        body.Title,
			Description:  body.Description,
			Type:         models.TaskTypeFollowUp,
			Priority:     models.TaskPriorityMedium,
			Status:       models.TaskStatusPending,
			AssignedToID: &userID,
			CreatedByID:  userID,
		}
		if body.Type != "" {
			task.Type = models.TaskType(body.Type)
		}
		if body.Priority != "" {
			task.Priority = models.TaskPriority(body.Priority)
		}
		if body.DueDate != "" {
			d, err := time.Parse("2006-01-02", body.DueDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data limite inválida, use YYYY-MM-DD")
			}
			task.DueDate = &d
		}
		if body.ReminderAt != "" {
			d, err := time.Parse(time.RFC3339, body.ReminderAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Lembrete inválido, use formato RFC3339")
			}
			task.ReminderAt = &d
		}

		if err := database.DB.Create(&task).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar a tarefa")
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(task))
	}
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	DueDate     *string `json:"due_date"`
	ReminderAt  *string `json:"reminder_at"`
}

// PUT /api/tasks/:id
// Marcar como completed carimba completed_at; sair de completed limpa.
func UpdateTaskHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var task models.Task
		if err := database.DB.Where("store_id = ?", storeID).First(&task, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tarefa não encontrada")
		}

		var body UpdateTaskRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Title != nil {
			if *body.Title == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Título não pode ficar vazio")
			}
			task.Title = *body.Title
		}
		if body.Description != nil {
			task.Description = *body.Description
		}
		if body.Type != nil {
			switch models.TaskType(*body.Type) {
			case models.TaskTypeFollowUp, models.TaskTypeCall, models.TaskTypeMeeting,
				models.TaskTypeEmail, models.TaskTypeWhatsapp, models.TaskTypeOther:
				task.Type = models.TaskType(*body.Type)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Tipo de tarefa inválido")
			}
		}
		if body.Priority != nil {
			switch models.TaskPriority(*body.Priority) {
			case models.TaskPriorityLow, models.TaskPriorityMedium, models.TaskPriorityHigh, models.TaskPriorityUrgent:
				task.Priority = models.TaskPriority(*body.Priority)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Prioridade inválida")
			}
		}
		if body.Status != nil {
			newStatus := models.TaskStatus(*body.Status)
			switch newStatus {
			case models.TaskStatusPending, models.TaskStatusInProgress,
				models.TaskStatusCompleted, models.TaskStatusCancelled:
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Status inválido")
			}
			if newStatus == models.TaskStatusCompleted && task.Status != models.TaskStatusCompleted {
				now := time.Now()
				task.CompletedAt = &now
			}
			if newStatus != models.TaskStatusCompleted {
				task.CompletedAt = nil
			}
			task.Status = newStatus
		}
		if body.DueDate != nil {
			if *body.DueDate == "" {
				task.DueDate = nil
			} else {
				d, err := time.Parse("2006-01-02", *body.DueDate)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Data limite inválida, use YYYY-MM-DD")
				}
				task.DueDate = &d
			}
		}
		if body.ReminderAt != nil {
			if *body.ReminderAt == "" {
				task.ReminderAt = nil
			} else {
				d, err := time.Parse(time.RFC3339, *body.ReminderAt)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Lembrete inválido, use formato RFC3339")
				}
				task.ReminderAt = &d
			}
		}

		if err := database.DB.Save(&task).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar a tarefa")
		}
		return c.JSON(toResponse(task))
	}
}

// DELETE /api/tasks/:id
func DeleteTaskHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var task models.Task
		if err := database.DB.Where("store_id = ?", storeID).First(&task, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tarefa não encontrada")
		}
		if err := database.DB.Delete(&task).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir a tarefa")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
