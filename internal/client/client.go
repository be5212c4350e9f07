// Package client is a typed consumer of the academic records API. It unwraps
// the response envelope and mirrors the server's form validation so callers
// can reject bad input before a round trip.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/academic-records-api/internal/dto"
	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/pkg/validation"
)

// DefaultBaseURL matches the server defaults.
const DefaultBaseURL = "http://localhost:3001/api"

// APIError is a non-success envelope or an unexpected HTTP status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Client issues requests against the API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validator  *validation.Validator
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New constructs a Client rooted at baseURL (including the API prefix).
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		validator:  dto.NewCursoValidator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListCursos returns every curso.
func (c *Client) ListCursos(ctx context.Context) ([]models.CursoWithDocente, error) {
	cursos := []models.CursoWithDocente{}
	if err := c.do(ctx, http.MethodGet, "/cursos", nil, &cursos); err != nil {
		return nil, err
	}
	return cursos, nil
}

// GetCurso returns the curso for id, or nil when it does not exist.
func (c *Client) GetCurso(ctx context.Context, id string) (*models.CursoWithDocente, error) {
	var curso models.CursoWithDocente
	if err := c.do(ctx, http.MethodGet, "/cursos/"+url.PathEscape(id), nil, &curso); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &curso, nil
}

// ListCursosByCiclo returns the cursos of one ciclo.
func (c *Client) ListCursosByCiclo(ctx context.Context, ciclo int) ([]models.CursoWithDocente, error) {
	cursos := []models.CursoWithDocente{}
	if err := c.do(ctx, http.MethodGet, "/cursos/ciclo/"+strconv.Itoa(ciclo), nil, &cursos); err != nil {
		return nil, err
	}
	return cursos, nil
}

// CreateCurso validates req locally and submits it.
func (c *Client) CreateCurso(ctx context.Context, req dto.CreateCursoRequest) (*models.Curso, error) {
	if err := c.validator.Struct(req); err != nil {
		return nil, err
	}
	var curso models.Curso
	if err := c.do(ctx, http.MethodPost, "/cursos", req, &curso); err != nil {
		return nil, err
	}
	return &curso, nil
}

// UpdateCurso validates req locally and submits it.
func (c *Client) UpdateCurso(ctx context.Context, id string, req dto.UpdateCursoRequest) (*models.Curso, error) {
	if err := c.validator.Struct(req); err != nil {
		return nil, err
	}
	var curso models.Curso
	if err := c.do(ctx, http.MethodPut, "/cursos/"+url.PathEscape(id), req, &curso); err != nil {
		return nil, err
	}
	return &curso, nil
}

// DeleteCurso removes a curso.
func (c *Client) DeleteCurso(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/cursos/"+url.PathEscape(id), nil, nil)
}

// ListDocentes returns every docente.
func (c *Client) ListDocentes(ctx context.Context) ([]models.Docente, error) {
	docentes := []models.Docente{}
	if err := c.do(ctx, http.MethodGet, "/docentes", nil, &docentes); err != nil {
		return nil, err
	}
	return docentes, nil
}

// Summary returns the server-side course counters.
func (c *Client) Summary(ctx context.Context) (*models.CursoSummary, error) {
	var summary models.CursoSummary
	if err := c.do(ctx, http.MethodGet, "/cursos/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}
	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
