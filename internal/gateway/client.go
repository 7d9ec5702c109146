package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/phuslu/log"

	"github.com/perktap/perktap/internal/model"
)

// Config is the explicit gateway configuration, injected once at
// construction. The client never reads ambient globals mid-flight.
type Config struct {
	BaseURL     string
	Environment string
	// Timeout bounds a single request. Zero means no client-side timeout;
	// a hung request then stays in flight until the transport gives up.
	Timeout   time.Duration
	UserAgent string
}

// APIError is a failure reported by the gateway itself: either an
// envelope with success=false or a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("gateway returned status %d", e.StatusCode)
}

// Client is the remote search gateway: stateless request/response mapping
// to the search, suggestion and submission endpoints. Every response uses
// the {success, data, error} envelope; transport failures are normalized
// to errors, never raw panics into the orchestrators.
type Client struct {
	http    *http.Client
	baseURL string
	env     string
	ua      string
	log     *log.Logger
}

func New(cfg Config, logger *log.Logger) *Client {
	ua := cfg.UserAgent
	if ua == "" {
		ua = "perktap/0.1"
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		env:     cfg.Environment,
		ua:      ua,
		log:     logger,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// SearchText runs a structured criteria search. Page and page size ride
// inside the criteria snapshot.
func (c *Client) SearchText(ctx context.Context, criteria model.SearchCriteria) (*model.SearchResult, error) {
	var out model.SearchResult
	if err := c.do(ctx, http.MethodPost, "/search/text", criteria, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type mapSearchRequest struct {
	model.SearchCriteria
	Bounds model.MapBounds `json:"bounds"`
}

// SearchMap runs a geospatial search over the given bounds. Partial
// criteria filters may optionally be merged in.
func (c *Client) SearchMap(ctx context.Context, bounds model.MapBounds, criteria *model.SearchCriteria) (*model.SearchResult, error) {
	req := mapSearchRequest{Bounds: bounds}
	if criteria != nil {
		req.SearchCriteria = *criteria
	}
	var out model.SearchResult
	if err := c.do(ctx, http.MethodPost, "/search/map", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type suggestionsPayload struct {
	Suggestions []model.AutocompleteSuggestion `json:"suggestions"`
}

// Suggestions fetches completions for one field. Query length >= 2 is
// enforced by the autocomplete engine before this is called.
func (c *Client) Suggestions(ctx context.Context, field model.FieldType, query string) ([]model.AutocompleteSuggestion, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("unknown field type %q", field)
	}
	path := "/suggestions/" + string(field) + "?query=" + url.QueryEscape(query)
	var out suggestionsPayload
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

// SubmissionReceipt acknowledges a queued user submission.
type SubmissionReceipt struct {
	ID      string                 `json:"id"`
	Status  model.SubmissionStatus `json:"status"`
	Message string                 `json:"message"`
}

// SubmitEntry posts an unmatched field value to the moderation queue.
// Best-effort: callers log failures and move on.
func (c *Client) SubmitEntry(ctx context.Context, entry model.UserSubmittedEntry) (*SubmissionReceipt, error) {
	var out SubmissionReceipt
	if err := c.do(ctx, http.MethodPost, "/user-submissions", entry, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.env != "" {
		req.Header.Set("X-Client-Environment", c.env)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("gateway request failed")
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Non-JSON body (proxy error page, truncated response) is
		// normalized like any other failure.
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("gateway returned non-JSON body")
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("invalid response (status %d)", resp.StatusCode)}
	}

	if !env.Success {
		c.log.Debug().Int("status", resp.StatusCode).Str("path", path).Str("error", env.Error).Msg("gateway reported failure")
		return &APIError{StatusCode: resp.StatusCode, Message: env.Error}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding response data: %w", err)
		}
	}

	c.log.Debug().Str("path", path).Int("status", resp.StatusCode).Msg("gateway request ok")
	return nil
}
