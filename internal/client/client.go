// Package client is a typed HTTP client for the records API. Reads are
// retried on transient failures; writes are sent at most once.
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
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/docapp/docapp/internal/domain/patient"
)

type Options struct {
	BaseURL      string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       zerolog.Logger
}

type Client struct {
	base string
	http *retryablehttp.Client
}

func New(opts Options) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		rc.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		rc.RetryWaitMax = opts.RetryWaitMax
	}
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	}
	rc.Logger = leveledLogger{opts.Logger}
	rc.CheckRetry = readsOnly
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{base: strings.TrimRight(opts.BaseURL, "/"), http: rc}
}

type noRetryKey struct{}

// readsOnly applies the default policy to GETs and never retries a write.
// The request context carries the marker because resp is nil on transport
// errors.
func readsOnly(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Value(noRetryKey{}) != nil {
		return false, err
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("api %d: %s (%s)", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}
	if method != http.MethodGet {
		ctx = context.WithValue(ctx, noRetryKey{}, true)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		apiErr.Message, apiErr.Details = body.Error, body.Details
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func patientPath(id string) string {
	return "/api/patients/" + url.PathEscape(id)
}

func (c *Client) ListPatients(ctx context.Context) ([]*patient.Patient, error) {
	var out []*patient.Patient
	if err := c.do(ctx, http.MethodGet, "/api/patients", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPatient(ctx context.Context, id string) (*patient.Patient, error) {
	var out patient.Patient
	if err := c.do(ctx, http.MethodGet, patientPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePatient(ctx context.Context, p *patient.Patient) (*patient.Patient, error) {
	var out patient.Patient
	if err := c.do(ctx, http.MethodPost, "/api/patients", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePatient(ctx context.Context, id string, u patient.PatientUpdate) (*patient.Patient, error) {
	var out patient.Patient
	if err := c.do(ctx, http.MethodPut, patientPath(id), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListConsultations(ctx context.Context, patientID string) ([]*patient.Consultation, error) {
	var out []*patient.Consultation
	if err := c.do(ctx, http.MethodGet, patientPath(patientID)+"/consultations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateConsultation(ctx context.Context, patientID string, cons *patient.Consultation) (*patient.Consultation, error) {
	var out patient.Consultation
	if err := c.do(ctx, http.MethodPost, patientPath(patientID)+"/consultations", cons, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Seed(ctx context.Context) (*patient.SeedResult, error) {
	var out patient.SeedResult
	if err := c.do(ctx, http.MethodPost, "/api/seed", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
