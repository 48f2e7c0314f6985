package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID          = errors.New("task ID cannot be empty")
	ErrEmptyTaskOwnerID     = errors.New("task owner ID cannot be empty")
	ErrEmptyTaskDescription = errors.New("task description cannot be empty")
)

// Task represents a single to-do item owned by exactly one user.
// A task is only ever visible or mutable through its owner's
// authenticated session.
type Task struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a new Task for the given owner.
// It generates a new UUID for the task ID, trims the description,
// and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, description string, completed bool) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Description: strings.TrimSpace(description),
		Completed:   completed,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.OwnerID == uuid.Nil {
		return ErrEmptyTaskOwnerID
	}

	if t.Description == "" {
		return ErrEmptyTaskDescription
	}

	return nil
}
