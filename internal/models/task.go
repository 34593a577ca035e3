package models

import "time"

type TaskType string

const (
	TaskTypeFollowUp TaskType = "follow_up"
	TaskTypeCall     TaskType = "call"
	TaskTypeMeeting  TaskType = "meeting"
	TaskTypeEmail    TaskType = "email"
	TaskTypeWhatsapp TaskType = "whatsapp"
	TaskTypeOther    TaskType = "other"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

type Task struct {
	ID          uint `gorm:"primaryKey"`
	StoreID     uint `gorm:"index;not null"`
	Store       Store
	DealID      *uint
	Deal        *Deal
	CustomerID  *uint
	Customer    *Customer
	QuoteID     *uint
	Title       string       `gorm:"size:150;not null"`
	Description string       `gorm:"size:1000"`
	Type        TaskType     `gorm:"size:20;not null;default:'follow_up'"`
	Priority    TaskPriority `gorm:"size:10;not null;default:'medium'"`
	Status      TaskStatus   `gorm:"size:20;not null;default:'pending'"`
	DueDate     *time.Time   `gorm:"index"`
	ReminderAt  *time.Time
	CompletedAt *time.Time
	AssignedToID *uint
	AssignedTo   *User `gorm:"foreignKey:AssignedToID"`
	CreatedByID  uint  `gorm:"not null"`
	CreatedBy    User  `gorm:"foreignKey:CreatedByID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
