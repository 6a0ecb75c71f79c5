package domain

import (
	"encoding/json"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusProcessing, TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}

func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// Task is a submitted script as reported by the remote service. Status only
// ever changes on the service side; the client replaces tasks wholesale.
type Task struct {
	ID                      string          `json:"id"`
	Status                  TaskStatus      `json:"status"`
	Code                    string          `json:"code"`
	FileName                string          `json:"fileName,omitempty"`
	EstimatedCompletionTime *time.Time      `json:"estimatedCompletionTime,omitempty"`
	Result                  json.RawMessage `json:"result,omitempty"`
	CreatedAt               time.Time       `json:"createdAt"`
}

// HistoryEntry is the local record of a task submitted from this machine.
type HistoryEntry struct {
	TaskID      string
	FileName    string
	CodeBytes   int
	Status      TaskStatus
	SubmittedAt time.Time
}

func NewHistoryEntry(task Task, submittedAt time.Time) HistoryEntry {
	return HistoryEntry{
		TaskID:      task.ID,
		FileName:    task.FileName,
		CodeBytes:   len(task.Code),
		Status:      task.Status,
		SubmittedAt: submittedAt,
	}
}
