package planapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/AngelCh415/sem_planner/internal/metrics"
	"github.com/AngelCh415/sem_planner/internal/models"
)

const maxBodyBytes = 4 << 20

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// timeout 0 = sin límite del lado cliente.
func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

// Client hace exactamente un POST por Submit, sin reintentos.
type Client struct {
	c       HTTPClient
	baseURL string
	log     *slog.Logger
	m       *metrics.Collector
	maxBody int64
}

func NewClient(c HTTPClient, baseURL string, log *slog.Logger, m *metrics.Collector) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{c: c, baseURL: baseURL, log: log, m: m, maxBody: maxBodyBytes}
}

func (cl *Client) Endpoint() string { return cl.baseURL + "/plan" }

func (cl *Client) Submit(ctx context.Context, req models.PlanRequest) (*models.PlanResponse, error) {
	start := time.Now()
	resp, outcome, err := cl.submit(ctx, req)
	cl.m.ObserveSubmission(outcome, time.Since(start))
	return resp, err
}

func (cl *Client) submit(ctx context.Context, req models.PlanRequest) (*models.PlanResponse, string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, metrics.OutcomeTransportError, fmt.Errorf("encode plan request: %w", err)
	}
	url := cl.Endpoint()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, metrics.OutcomeTransportError, &TransportError{URL: url, Err: err}
	}
	rid := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", rid)

	res, err := cl.c.Do(httpReq)
	if err != nil {
		return nil, metrics.OutcomeTransportError, &TransportError{URL: url, Err: err}
	}
	defer res.Body.Close()

	// un byte de más para distinguir "justo en el límite" de "truncado"
	body, err := io.ReadAll(io.LimitReader(res.Body, cl.maxBody+1))
	if err != nil {
		return nil, metrics.OutcomeTransportError, &TransportError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > cl.maxBody {
		cl.log.Warn("plan response too large", slog.String("rid", rid), slog.Int("status", res.StatusCode), slog.Int64("limit_bytes", cl.maxBody))
		return nil, metrics.OutcomeServiceError, &ServiceError{Status: res.StatusCode, Message: GenericMessage, Err: fmt.Errorf("response body exceeds %d bytes", cl.maxBody)}
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, metrics.OutcomeServiceError, &ServiceError{Status: res.StatusCode, Message: detailMessage(body)}
	}

	plan, dropped, err := models.DecodePlanResponse(body)
	if err != nil {
		return nil, metrics.OutcomeServiceError, &ServiceError{Status: res.StatusCode, Message: GenericMessage, Err: err}
	}
	for _, d := range dropped {
		cl.log.Warn("plan section ignored", slog.String("rid", rid), slog.String("section", d.Key), slog.String("reason", d.Reason))
	}
	cl.log.Debug("plan received", slog.String("rid", rid), slog.Int("status", res.StatusCode), slog.Int("bytes", len(body)))
	return plan, metrics.OutcomeSuccess, nil
}
