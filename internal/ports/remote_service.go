package ports

import (
	"context"

	"github.com/bnema/devicepool-cli/internal/domain"
)

type LoginResult struct {
	Success bool
	Token   string
	Message string
}

type TokenValidation struct {
	Valid bool
}

// RemoteService is the job-execution service. Only SubmitTask reports
// failures; the other calls fall back to safe values.
type RemoteService interface {
	Login(ctx context.Context, username, password string) LoginResult
	ValidateToken(ctx context.Context) TokenValidation
	GetStatus(ctx context.Context) domain.PoolStatus
	GetTasks(ctx context.Context) []domain.Task
	SubmitTask(ctx context.Context, code string, file *domain.FileInput) (domain.Task, error)
}
