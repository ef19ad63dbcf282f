package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/sciencesync/internal/server/storage"
	"github.com/iudanet/sciencesync/pkg/api"
)

// ScienceStorage определяет интерфейс для работы с принятыми заявками
type ScienceStorage interface {
	SaveSubmission(ctx context.Context, submission *storage.Submission) error
	ListSubmissions(ctx context.Context) ([]*storage.Submission, error)
	CountByRole(ctx context.Context) (map[string]int, error)
}

// ScienceHandler handles science submission requests
type ScienceHandler struct {
	logger  *slog.Logger
	storage ScienceStorage
}

// NewScienceHandler creates a new science handler
func NewScienceHandler(logger *slog.Logger, scienceStorage ScienceStorage) *ScienceHandler {
	return &ScienceHandler{
		logger:  logger,
		storage: scienceStorage,
	}
}

// StatsResponse представляет сводку принятых заявок по категориям
type StatsResponse struct {
	Counts map[string]int `json:"counts"` // количество заявок по категориям
	Total  int            `json:"total"`  // всего принятых заявок
}

// HandleSubmit обрабатывает POST /api/v1/science
// Принимает {name, role} как JSON или form-encoded.
// Отсутствующее поле - 400 с {error}, других проверок нет.
func (h *ScienceHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, err := decodeSubmission(r)
	if err != nil {
		h.logger.Warn("Failed to decode submission", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "name is required")
		return
	}
	if strings.TrimSpace(req.Role) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "role is required")
		return
	}

	submission := &storage.Submission{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Role:       req.Role,
		ReceivedAt: time.Now().UTC(),
	}

	if err := h.storage.SaveSubmission(r.Context(), submission); err != nil {
		h.logger.Error("Failed to save submission", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("Science submission accepted",
		"submission_id", submission.ID,
		"role", submission.Role)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	resp := api.SubmitResponse{Message: "science received"}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

// HandleStats обрабатывает GET /api/v1/science/stats
// Возвращает количество принятых заявок по категориям
func (h *ScienceHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	counts, err := h.storage.CountByRole(r.Context())
	if err != nil {
		h.logger.Error("Failed to count submissions", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	total := 0
	for _, count := range counts {
		total += count
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	resp := StatsResponse{Counts: counts, Total: total}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

// maxMultipartMemory ограничивает буфер multipart-формы.
// Заявка - два коротких текстовых поля, 1 MiB хватает с запасом.
const maxMultipartMemory = 1 << 20

// decodeSubmission разбирает тело запроса как JSON или form-encoded
// в зависимости от Content-Type
func decodeSubmission(r *http.Request) (*api.SubmitRequest, error) {
	contentType := r.Header.Get("Content-Type")
	mediaType := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = parsed
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return &api.SubmitRequest{
			Name: r.PostFormValue("name"),
			Role: r.PostFormValue("role"),
		}, nil
	case "multipart/form-data":
		// ParseForm не читает multipart тело, поля достает только
		// ParseMultipartForm
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, err
		}
		return &api.SubmitRequest{
			Name: r.PostFormValue("name"),
			Role: r.PostFormValue("role"),
		}, nil
	}

	var req api.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// writeError отправляет ответ с ошибкой в формате {error}
func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(api.ErrorResponse{Error: message}); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}
