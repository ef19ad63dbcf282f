package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iudanet/sciencesync/pkg/api"
)

//go:generate moq -out client_mock.go . ClientAPI

// ClientAPI defines the interface for talking to the acceptance endpoint
type ClientAPI interface {
	// Submit delivers one {name, role} payload to the endpoint.
	// A completed exchange with a non-2xx status returns *api.StatusError;
	// any other error is a transport failure.
	Submit(ctx context.Context, req api.SubmitRequest) (*api.SubmitResponse, error)

	// Ping probes the endpoint health, used as a connectivity check
	Ping(ctx context.Context) error
}

// DefaultTimeout ограничивает каждый запрос, чтобы зависший вызов
// не останавливал фоновый sync навсегда. Истечение таймаута для
// вызывающего неотличимо от транспортной ошибки.
const DefaultTimeout = 10 * time.Second

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент.
// baseURL задается конфигурацией при запуске, никакого выбора
// endpoint по текущему origin здесь нет.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Submit отправляет одну заявку на сервер
func (c *Client) Submit(ctx context.Context, req api.SubmitRequest) (*api.SubmitResponse, error) {
	var resp api.SubmitResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/science", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ping проверяет доступность сервера через health endpoint
func (c *Client) Ping(ctx context.Context) error {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, &resp); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Не-2xx статус возвращаем типизированной ошибкой, чтобы
	// вызывающий мог отличить отказ сервера от транспортного сбоя
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := string(respBody)
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			detail = errResp.Error
		}
		return &api.StatusError{Code: resp.StatusCode, Body: detail}
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
