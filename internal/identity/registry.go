package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	dErrors "sufragio/pkg/domain-errors"
)

// RegistryClient queries the national identity registry. The HTTP client is
// production; the mock serves development and tests with deterministic data.
type RegistryClient interface {
	Lookup(ctx context.Context, nationalID string) (PersonRecord, error)
}

// HTTPRegistryClient calls the upstream registry API. Every failure mode is
// mapped onto the domain taxonomy here so callers never see transport errors.
type HTTPRegistryClient struct {
	baseURL string
	token   string
	client  *http.Client
	tracer  trace.Tracer
}

// NewHTTPRegistryClient builds a registry client with the given call budget.
// The timeout bounds the whole request, connection included.
func NewHTTPRegistryClient(baseURL, token string, timeout time.Duration) *HTTPRegistryClient {
	return &HTTPRegistryClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
		tracer:  otel.Tracer("sufragio/identity"),
	}
}

// registryResponse mirrors the upstream payload.
type registryResponse struct {
	FirstName      string `json:"first_name"`
	FirstLastName  string `json:"first_last_name"`
	SecondLastName string `json:"second_last_name"`
	DocumentNumber string `json:"document_number"`
}

func (c *HTTPRegistryClient) Lookup(ctx context.Context, nationalID string) (PersonRecord, error) {
	ctx, span := c.tracer.Start(ctx, "registry.lookup")
	defer span.End()

	endpoint := c.baseURL + "?numero=" + url.QueryEscape(nationalID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return PersonRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build registry request")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return PersonRecord{}, dErrors.Wrap(err, dErrors.CodeTimeout, "identity registry did not respond in time")
		}
		return PersonRecord{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "identity registry unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var body registryResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return PersonRecord{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "identity registry returned malformed data")
		}
		record := PersonRecord{
			NationalID:      strings.TrimSpace(body.DocumentNumber),
			GivenName:       strings.TrimSpace(body.FirstName),
			PaternalSurname: strings.TrimSpace(body.FirstLastName),
			MaternalSurname: strings.TrimSpace(body.SecondLastName),
		}
		if record.NationalID == "" {
			record.NationalID = nationalID
		}
		return record, nil
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusNotFound:
		return PersonRecord{}, dErrors.New(dErrors.CodeValidation, "national id is not registered")
	default:
		return PersonRecord{}, dErrors.Newf(dErrors.CodeUnavailable, "identity registry error (status %d)", resp.StatusCode)
	}
}

func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}

// MockRegistryClient answers with deterministic data and a configurable
// latency to mimic real-world calls. National ids starting with "00" are
// treated as unknown.
type MockRegistryClient struct {
	Latency time.Duration
}

func (c MockRegistryClient) Lookup(ctx context.Context, nationalID string) (PersonRecord, error) {
	select {
	case <-ctx.Done():
		return PersonRecord{}, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "identity registry did not respond in time")
	case <-time.After(c.Latency):
	}
	if strings.HasPrefix(nationalID, "00") {
		return PersonRecord{}, dErrors.New(dErrors.CodeValidation, "national id is not registered")
	}
	return PersonRecord{
		NationalID:      nationalID,
		GivenName:       "MARIA ELENA",
		PaternalSurname: fmt.Sprintf("QUISPE%s", nationalID[:2]),
		MaternalSurname: "HUAMAN",
	}, nil
}
