package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/sciencesync/internal/server/storage"
	"github.com/iudanet/sciencesync/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// fakeStorage простая in-memory реализация ScienceStorage для тестов
type fakeStorage struct {
	submissions []*storage.Submission
	saveErr     error
}

func (f *fakeStorage) SaveSubmission(ctx context.Context, submission *storage.Submission) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.submissions = append(f.submissions, submission)
	return nil
}

func (f *fakeStorage) ListSubmissions(ctx context.Context) ([]*storage.Submission, error) {
	return f.submissions, nil
}

func (f *fakeStorage) CountByRole(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, s := range f.submissions {
		counts[s.Role]++
	}
	return counts, nil
}

func TestHandleSubmit_JSON(t *testing.T) {
	store := &fakeStorage{}
	handler := NewScienceHandler(testLogger(), store)

	body := `{"name":"Ada","role":"Chimie"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/science", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.HandleSubmit(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp api.SubmitResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "science received", resp.Message)

	require.Len(t, store.submissions, 1)
	assert.Equal(t, "Ada", store.submissions[0].Name)
	assert.Equal(t, "Chimie", store.submissions[0].Role)
	assert.NotEmpty(t, store.submissions[0].ID)
}

func TestHandleSubmit_FormEncoded(t *testing.T) {
	store := &fakeStorage{}
	handler := NewScienceHandler(testLogger(), store)

	form := url.Values{}
	form.Set("name", "Nikola")
	form.Set("role", "Électricité")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/science", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	handler.HandleSubmit(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.submissions, 1)
	assert.Equal(t, "Nikola", store.submissions[0].Name)
	assert.Equal(t, "Électricité", store.submissions[0].Role)
}

func TestHandleSubmit_MultipartForm(t *testing.T) {
	store := &fakeStorage{}
	handler := NewScienceHandler(testLogger(), store)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Marie"))
	require.NoError(t, mw.WriteField("role", "Robotique"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/science", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.HandleSubmit(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.submissions, 1)
	assert.Equal(t, "Marie", store.submissions[0].Name)
	assert.Equal(t, "Robotique", store.submissions[0].Role)
}

func TestHandleSubmit_MissingField(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"role":"Chimie"}`, "name is required"},
		{"missing role", `{"name":"Ada"}`, "role is required"},
		{"blank name", `{"name":"   ","role":"Chimie"}`, "name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStorage{}
			handler := NewScienceHandler(testLogger(), store)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/science", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			handler.HandleSubmit(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp api.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.want, resp.Error)

			// Отклоненная заявка не сохраняется
			assert.Empty(t, store.submissions)
		})
	}
}

func TestHandleSubmit_InvalidBody(t *testing.T) {
	handler := NewScienceHandler(testLogger(), &fakeStorage{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/science", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.HandleSubmit(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSubmit_MethodNotAllowed(t *testing.T) {
	handler := NewScienceHandler(testLogger(), &fakeStorage{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/science", nil)
	rec := httptest.NewRecorder()

	handler.HandleSubmit(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleSubmit_StorageFailure(t *testing.T) {
	store := &fakeStorage{saveErr: assert.AnError}
	handler := NewScienceHandler(testLogger(), store)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/science", strings.NewReader(`{"name":"Ada","role":"Chimie"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.HandleSubmit(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleStats(t *testing.T) {
	store := &fakeStorage{}
	handler := NewScienceHandler(testLogger(), store)

	// Принимаем несколько заявок
	for _, body := range []string{
		`{"name":"Ada","role":"Chimie"}`,
		`{"name":"Marie","role":"Chimie"}`,
		`{"name":"Nikola","role":"Électricité"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/science", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.HandleSubmit(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/science/stats", nil)
	rec := httptest.NewRecorder()

	handler.HandleStats(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp StatsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.Counts["Chimie"])
	assert.Equal(t, 1, resp.Counts["Électricité"])
}
