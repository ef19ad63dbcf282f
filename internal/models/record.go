package models

import (
	"time"

	"github.com/google/uuid"
)

// Record представляет одну заявку "science" в локальной очереди.
// Запись создается только когда немедленная отправка на сервер
// невозможна, и удаляется после подтвержденной доставки.
type Record struct {
	ID        string `json:"id"`        // ID уникальный идентификатор записи (UUID)
	Name      string `json:"name"`      // Name имя участника, обязательное поле
	Role      string `json:"role"`      // Role категория (например "Chimie"), хранится как непрозрачный текст
	Timestamp string `json:"timestamp"` // Timestamp время создания в формате RFC 3339
	Synced    bool   `json:"synced"`    // Synced флаг подтвержденной доставки
}

// Role константы категорий, которые показывает UI.
// Хранилище и sync engine их не интерпретируют.
const (
	RoleChimie      = "Chimie"
	RoleRobotique   = "Robotique"
	RoleElectricite = "Électricité"
)

// NewRecord creates a queued record with a fresh ID and creation timestamp.
// The record starts unsynced; only the sync engine confirms delivery.
func NewRecord(name, role string) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Name:      name,
		Role:      role,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Synced:    false,
	}
}

// Pending reports whether the record still awaits delivery.
// An absent synced flag counts as pending.
func (r *Record) Pending() bool {
	return !r.Synced
}
