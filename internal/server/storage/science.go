package storage

import (
	"context"
	"time"
)

// Submission represents one accepted science submission on the server.
// Принятая заявка хранится для учета; сервер не отдает клиентам
// никакого представления "уже доставленных" записей - дедупликация
// целиком на стороне локальной очереди клиента.
type Submission struct {
	ReceivedAt time.Time `json:"received_at"` // время приема сервером
	ID         string    `json:"id"`          // серверный UUID заявки
	Name       string    `json:"name"`        // имя участника
	Role       string    `json:"role"`        // категория участника
}

// ScienceStorage defines interface for the accepted-submissions store
type ScienceStorage interface {
	// SaveSubmission persists an accepted submission
	SaveSubmission(ctx context.Context, submission *Submission) error

	// ListSubmissions returns all accepted submissions, oldest first
	ListSubmissions(ctx context.Context) ([]*Submission, error)

	// CountByRole returns the number of accepted submissions per role
	CountByRole(ctx context.Context) (map[string]int, error)
}
