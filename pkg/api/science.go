package api

import "fmt"

// SubmitRequest представляет полезную нагрузку отправки заявки.
// Ровно два поля уходят на сервер; локальные id/timestamp/synced
// никогда не передаются по сети.
type SubmitRequest struct {
	Name string `json:"name"` // имя участника
	Role string `json:"role"` // категория участника
}

// SubmitResponse представляет ответ сервера на заявку
type SubmitResponse struct {
	Message string `json:"message"`           // сообщение о приеме заявки
	Offline bool   `json:"offline,omitempty"` // true если заявка принята в локальную очередь, а не сервером
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"` // описание ошибки
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// StatusError is returned for a completed HTTP exchange with a non-2xx
// status. Callers use it to tell a server-side rejection apart from a
// transport failure, where no response was received at all.
type StatusError struct {
	Body string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Code, e.Body)
}

// IsClientError reports whether the status is a 4xx rejection.
// Those are input errors and must not be queued for retry.
func (e *StatusError) IsClientError() bool {
	return e.Code >= 400 && e.Code < 500
}
