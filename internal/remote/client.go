// Package remote is the boundary to the external customer record store. It
// issues plain request/response REST calls and normalizes the store's wire
// shapes into the internal model. One attempt per call; retries are the
// caller's business.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gitea.jw6.us/james/traindesk/internal/domain"
	"gitea.jw6.us/james/traindesk/internal/metrics"
)

// Client talks to the record store. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the record store rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// ListCustomers fetches the full customer collection and attaches identifiers
// extracted from each record's self link.
func (c *Client) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	defer observeRemote(ctx, "remote.list_customers")()

	body, err := c.get(ctx, "/customers")
	if err != nil {
		return nil, err
	}

	var coll customerCollection
	if err := json.Unmarshal(body, &coll); err != nil {
		return nil, &MalformedError{Resource: "customers", Err: err}
	}
	if coll.Embedded == nil || coll.Embedded.Customers == nil {
		return nil, &MalformedError{Resource: "customers", Err: fmt.Errorf("missing _embedded.customers")}
	}

	customers := make([]domain.Customer, 0, len(coll.Embedded.Customers))
	for _, w := range coll.Embedded.Customers {
		customers = append(customers, w.normalize())
	}
	return customers, nil
}

// ListTrainings fetches the full training collection with each training's
// customer embedded by the store.
func (c *Client) ListTrainings(ctx context.Context) ([]domain.Training, error) {
	defer observeRemote(ctx, "remote.list_trainings")()

	body, err := c.get(ctx, "/gettrainings")
	if err != nil {
		return nil, err
	}

	var wires []trainingWire
	if err := json.Unmarshal(body, &wires); err != nil {
		return nil, &MalformedError{Resource: "trainings", Err: err}
	}
	// A literal null decodes into a nil slice; only a real array counts.
	if wires == nil {
		return nil, &MalformedError{Resource: "trainings", Err: fmt.Errorf("body is not an array")}
	}

	trainings := make([]domain.Training, 0, len(wires))
	for _, w := range wires {
		trainings = append(trainings, w.normalize())
	}
	return trainings, nil
}

// CreateCustomer posts a new customer and returns the stored record.
func (c *Client) CreateCustomer(ctx context.Context, cust domain.Customer) (domain.Customer, error) {
	defer observeRemote(ctx, "remote.create_customer")()

	body, err := c.send(ctx, http.MethodPost, "/customers", customerBody(cust))
	if err != nil {
		return domain.Customer{}, err
	}
	return decodeCustomer(body)
}

// UpdateCustomer replaces the customer's mutable fields.
func (c *Client) UpdateCustomer(ctx context.Context, id string, cust domain.Customer) (domain.Customer, error) {
	defer observeRemote(ctx, "remote.update_customer")()

	body, err := c.send(ctx, http.MethodPut, "/customers/"+url.PathEscape(id), customerBody(cust))
	if err != nil {
		return domain.Customer{}, err
	}
	return decodeCustomer(body)
}

// DeleteCustomer removes a customer. The store does not cascade the delete to
// trainings referencing it.
func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	defer observeRemote(ctx, "remote.delete_customer")()

	_, err := c.send(ctx, http.MethodDelete, "/customers/"+url.PathEscape(id), nil)
	return err
}

// CreateTraining posts a new training referencing a customer by identifier.
func (c *Client) CreateTraining(ctx context.Context, draft domain.TrainingDraft) error {
	defer observeRemote(ctx, "remote.create_training")()

	payload := map[string]any{
		"date":     draft.Date.Format(time.RFC3339),
		"activity": draft.Activity,
		"duration": draft.Duration,
		"customer": draft.CustomerID,
	}
	_, err := c.send(ctx, http.MethodPost, "/trainings", payload)
	return err
}

// DeleteTraining removes a training.
func (c *Client) DeleteTraining(ctx context.Context, id string) error {
	defer observeRemote(ctx, "remote.delete_training")()

	_, err := c.send(ctx, http.MethodDelete, "/trainings/"+url.PathEscape(id), nil)
	return err
}

// Ping verifies that the record store answers at all. Used by readiness
// checks; the response body is discarded.
func (c *Client) Ping(ctx context.Context) error {
	defer observeRemote(ctx, "remote.ping")()

	_, err := c.get(ctx, "/customers")
	return err
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) send(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(encoded)
	}
	return c.do(ctx, method, path, body)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, unavailable(method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unavailable(method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, unavailable(method, path, fmt.Errorf("status %s", resp.Status))
	}
	return data, nil
}

func observeRemote(ctx context.Context, operation string) func() {
	start := time.Now()
	return func() {
		metrics.ObserveRemoteLatency(ctx, operation, start)
	}
}
