// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus moves pending -> in-progress -> completed; cancelled is terminal.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// DefaultTaskSite is used when a task is created without a site.
const DefaultTaskSite = "global"

type Task struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Status      TaskStatus          `bson:"status" json:"status"`
	Priority    TaskPriority        `bson:"priority" json:"priority"`
	AssignedTo  *primitive.ObjectID `bson:"assignedTo,omitempty" json:"-"`
	AssignedBy  *primitive.ObjectID `bson:"assignedBy,omitempty" json:"-"`
	DueDate     *time.Time          `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Site        string              `bson:"site" json:"site"`
	Tags        []string            `bson:"tags" json:"tags"`

	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Overdue reports whether the task is past due and still open at now.
// It is derived on read and never stored.
func (t Task) Overdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status == TaskCompleted || t.Status == TaskCancelled {
		return false
	}
	return t.DueDate.Before(now)
}
