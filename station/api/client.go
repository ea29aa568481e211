// Package api is the HTTP client the scan station uses against the
// quickstock server. It implements the workflow lookup and mutation
// interfaces over the scan endpoints, with a circuit breaker so a dead
// network degrades to fast failures instead of hanging the operator.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"quickstock/station/workflow"
)

const csrfCookieName = "X-CSRF-Token"

// ErrLoginFailed means the server rejected the station credentials.
var ErrLoginFailed = errors.New("login rejected")

// Client talks to one quickstock server on behalf of one station user.
// Safe for concurrent use after Login.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

// New builds a Client for the server at baseURL (scheme and host, no
// trailing slash required).
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	settings := gobreaker.Settings{
		Name:        "quickstock-api",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("api circuit breaker state change",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: 10 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(settings),
	}, nil
}

// Login authenticates the station user. The server sets the session and
// CSRF cookies on the jar; subsequent JSON posts echo the CSRF cookie in
// the request header.
func (c *Client) Login(ctx context.Context, username, password string) error {
	// GET first so the CSRF cookie exists before the form post.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/login", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("reach login page: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	if token := c.csrfToken(); token != "" {
		form.Set("_csrf", token)
	}
	req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	// The login handler answers 303 on success; do not follow it.
	noRedirect := *c.http
	noRedirect.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	resp, err = noRedirect.Do(req)
	if err != nil {
		return fmt.Errorf("post login: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusSeeOther {
		return fmt.Errorf("%w: status %d", ErrLoginFailed, resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); strings.Contains(loc, "error") {
		return ErrLoginFailed
	}
	return nil
}

// Resolve looks up one barcode. A 404 is a clean not-found Resolution,
// not an error.
func (c *Client) Resolve(ctx context.Context, code string) (workflow.Resolution, error) {
	body := struct {
		Barcode string `json:"barcode"`
		Context string `json:"context"`
	}{Barcode: code, Context: "receive"}

	status, raw, err := c.postJSON(ctx, "/api/scan", body)
	if err != nil {
		return workflow.Resolution{}, err
	}
	if status == http.StatusNotFound {
		return workflow.Resolution{}, nil
	}
	if status != http.StatusOK {
		return workflow.Resolution{}, apiError("scan", status, raw)
	}

	var peek struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &peek); err != nil {
		return workflow.Resolution{}, fmt.Errorf("decode scan response: %w", err)
	}
	switch peek.Type {
	case "location":
		var lr struct {
			ID       int64  `json:"id"`
			Code     string `json:"code"`
			Name     string `json:"name"`
			Contents []struct {
				ItemID   int64  `json:"item_id"`
				SKU      string `json:"sku"`
				Name     string `json:"name"`
				Quantity int64  `json:"quantity"`
				Unit     string `json:"unit"`
			} `json:"contents"`
		}
		if err := json.Unmarshal(raw, &lr); err != nil {
			return workflow.Resolution{}, fmt.Errorf("decode location result: %w", err)
		}
		loc := &workflow.Location{ID: lr.ID, Code: lr.Code, Name: lr.Name}
		for _, line := range lr.Contents {
			loc.Contents = append(loc.Contents, workflow.ContentLine{
				ItemID: line.ItemID, SKU: line.SKU, Name: line.Name,
				Quantity: line.Quantity, Unit: line.Unit,
			})
		}
		return workflow.Resolution{Location: loc}, nil
	case "item":
		var ir struct {
			ID                int64  `json:"id"`
			SKU               string `json:"sku"`
			Name              string `json:"name"`
			Unit              string `json:"unit"`
			SuggestedQty      int64  `json:"suggested_qty"`
			SuggestedFromCode bool   `json:"suggested_from_code"`
		}
		if err := json.Unmarshal(raw, &ir); err != nil {
			return workflow.Resolution{}, fmt.Errorf("decode item result: %w", err)
		}
		return workflow.Resolution{Item: &workflow.Item{
			ID: ir.ID, SKU: ir.SKU, Name: ir.Name, Unit: ir.Unit,
			SuggestedQty: ir.SuggestedQty, FromLabel: ir.SuggestedFromCode,
		}}, nil
	default:
		return workflow.Resolution{}, fmt.Errorf("scan response has unknown type %q", peek.Type)
	}
}

// Commit posts the quick-receive mutation. A rejected commit (HTTP 4xx
// with a populated error field) comes back as an unsuccessful
// CommitResult, not a transport error.
func (c *Client) Commit(ctx context.Context, itemID, locationID, quantity int64) (workflow.CommitResult, error) {
	body := struct {
		ItemID     int64 `json:"item_id"`
		LocationID int64 `json:"location_id"`
		Quantity   int64 `json:"quantity"`
	}{ItemID: itemID, LocationID: locationID, Quantity: quantity}

	status, raw, err := c.postJSON(ctx, "/api/quick-receive", body)
	if err != nil {
		return workflow.CommitResult{}, err
	}

	var mr struct {
		Success     bool   `json:"success"`
		Message     string `json:"message"`
		NewQuantity int64  `json:"new_quantity"`
		Error       string `json:"error"`
	}
	if decodeErr := json.Unmarshal(raw, &mr); decodeErr != nil {
		if status >= http.StatusInternalServerError {
			return workflow.CommitResult{}, apiError("quick-receive", status, raw)
		}
		return workflow.CommitResult{}, fmt.Errorf("decode quick-receive response: %w", decodeErr)
	}
	if status >= http.StatusInternalServerError {
		return workflow.CommitResult{}, apiError("quick-receive", status, raw)
	}
	if !mr.Success && mr.Error == "" {
		mr.Error = fmt.Sprintf("receive rejected with status %d", status)
	}
	return workflow.CommitResult{
		Success:     mr.Success,
		Message:     mr.Message,
		NewQuantity: mr.NewQuantity,
		Err:         mr.Error,
	}, nil
}

// SearchLocations lists locations matching query; an empty query lists
// everything the picker should show.
func (c *Client) SearchLocations(ctx context.Context, query string) ([]workflow.LocationSummary, error) {
	u := c.baseURL + "/locations/api/search?q=" + url.QueryEscape(query)
	status, raw, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiError("location search", status, raw)
	}

	var rows []struct {
		ID   int64  `json:"id"`
		Code string `json:"code"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	out := make([]workflow.LocationSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, workflow.LocationSummary{ID: row.ID, Code: row.Code, Name: row.Name})
	}
	return out, nil
}

// LocationContents fetches one location with its stock lines.
func (c *Client) LocationContents(ctx context.Context, id int64) (workflow.Location, error) {
	u := fmt.Sprintf("%s/locations/api/%d/contents", c.baseURL, id)
	status, raw, err := c.get(ctx, u)
	if err != nil {
		return workflow.Location{}, err
	}
	if status != http.StatusOK {
		return workflow.Location{}, apiError("location contents", status, raw)
	}

	var cr struct {
		Location struct {
			ID   int64  `json:"id"`
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"location"`
		Contents []struct {
			ItemID   int64  `json:"item_id"`
			SKU      string `json:"sku"`
			Name     string `json:"name"`
			Quantity int64  `json:"quantity"`
			Unit     string `json:"unit"`
		} `json:"contents"`
	}
	if err := json.Unmarshal(raw, &cr); err != nil {
		return workflow.Location{}, fmt.Errorf("decode contents response: %w", err)
	}
	loc := workflow.Location{ID: cr.Location.ID, Code: cr.Location.Code, Name: cr.Location.Name}
	for _, line := range cr.Contents {
		loc.Contents = append(loc.Contents, workflow.ContentLine{
			ItemID: line.ItemID, SKU: line.SKU, Name: line.Name,
			Quantity: line.Quantity, Unit: line.Unit,
		})
	}
	return loc, nil
}

type apiResponse struct {
	status int
	body   []byte
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}
	return c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if token := c.csrfToken(); token != "" {
			req.Header.Set("X-CSRF-Token", token)
		}
		return req, nil
	})
}

func (c *Client) get(ctx context.Context, rawURL string) (int, []byte, error) {
	return c.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	})
}

func (c *Client) do(ctx context.Context, build func() (*http.Request, error)) (int, []byte, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		req, err := build()
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, err
		}
		// 5xx counts against the breaker; client errors are valid
		// application answers and must not trip it.
		if resp.StatusCode >= http.StatusInternalServerError {
			return apiResponse{status: resp.StatusCode, body: raw},
				fmt.Errorf("server error %d", resp.StatusCode)
		}
		return apiResponse{status: resp.StatusCode, body: raw}, nil
	})
	if err != nil {
		if resp, ok := result.(apiResponse); ok {
			return resp.status, resp.body, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return 0, nil, fmt.Errorf("server unreachable, retrying soon: %w", err)
		}
		return 0, nil, err
	}
	resp := result.(apiResponse)
	return resp.status, resp.body, nil
}

func (c *Client) csrfToken() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.http.Jar.Cookies(u) {
		if cookie.Name == csrfCookieName {
			return cookie.Value
		}
	}
	return ""
}

func apiError(op string, status int, raw []byte) error {
	var er struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &er) == nil && er.Error != "" {
		return fmt.Errorf("%s: %s", op, er.Error)
	}
	return fmt.Errorf("%s: unexpected status %d", op, status)
}
