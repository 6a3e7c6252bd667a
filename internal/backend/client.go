package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"stocklens/internal/models"
)

// Client talks to the upstream inventory REST API. Every call carries the
// configured bearer token, runs under a bounded client-side timeout and is
// attempted exactly once.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	// onUnauthorized fires on any 401 so the session collaborator can
	// invalidate the whole session. May be nil.
	onUnauthorized func()
}

// NewClient creates an upstream API client.
func NewClient(baseURL, token string, timeout time.Duration, onUnauthorized func()) *Client {
	return &Client{
		baseURL:        baseURL,
		token:          token,
		httpClient:     &http.Client{Timeout: timeout},
		onUnauthorized: onUnauthorized,
	}
}

// do performs one request and decodes the JSON body into out when out is
// non-nil. Error mapping: 404 -> NotFoundError, everything else non-2xx
// and all transport failures -> FetchError.
func (c *Client) do(ctx context.Context, op, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal payload: %w", op, err)
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &FetchError{Op: op, Status: resp.StatusCode}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Op: op, Resource: path}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &FetchError{Op: op, Status: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &FetchError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}
	return nil
}

// ListInventory fetches the authoritative item list.
func (c *Client) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := c.do(ctx, "list inventory", http.MethodGet, "/inventory", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItemQuotes fetches all supplier quotes for one item. An item with no
// suppliers yields an empty, non-nil slice.
func (c *Client) GetItemQuotes(ctx context.Context, itemName string) ([]models.SupplierQuote, error) {
	quotes := []models.SupplierQuote{}
	path := fmt.Sprintf("/inventory/%s/suppliers", url.PathEscape(itemName))
	if err := c.do(ctx, "get item quotes", http.MethodGet, path, nil, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

func (c *Client) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	return c.do(ctx, "create item", http.MethodPost, "/inventory", item, nil)
}

func (c *Client) UpdateItem(ctx context.Context, item *models.InventoryItem) error {
	path := "/inventory/" + url.PathEscape(item.Name)
	return c.do(ctx, "update item", http.MethodPut, path, item, nil)
}

func (c *Client) DeleteItem(ctx context.Context, itemName string) error {
	path := "/inventory/" + url.PathEscape(itemName)
	return c.do(ctx, "delete item", http.MethodDelete, path, nil, nil)
}

func (c *Client) CreateSupplierProduct(ctx context.Context, quote *models.SupplierQuote) error {
	return c.do(ctx, "create supplier product", http.MethodPost, "/supplier-products", quote, nil)
}

func (c *Client) UpdateSupplierProduct(ctx context.Context, id uuid.UUID, quote *models.SupplierQuote) error {
	path := "/supplier-products/" + id.String()
	return c.do(ctx, "update supplier product", http.MethodPut, path, quote, nil)
}

func (c *Client) DeleteSupplierProduct(ctx context.Context, id uuid.UUID) error {
	path := "/supplier-products/" + id.String()
	return c.do(ctx, "delete supplier product", http.MethodDelete, path, nil, nil)
}

// assignLocationRequest is the wire shape of an item-location link.
type assignLocationRequest struct {
	ItemName   string     `json:"item_name"`
	LocationID *uuid.UUID `json:"location_id"`
	Quantity   int        `json:"quantity"`
}

// AssignItemLocation links an item to a location, or clears the link when
// locationID is nil.
func (c *Client) AssignItemLocation(ctx context.Context, itemName string, locationID *uuid.UUID, quantity int) error {
	payload := assignLocationRequest{ItemName: itemName, LocationID: locationID, Quantity: quantity}
	return c.do(ctx, "assign item location", http.MethodPost, "/item-locations", payload, nil)
}

func (c *Client) CreateLocation(ctx context.Context, location *models.Location) error {
	return c.do(ctx, "create location", http.MethodPost, "/locations", location, nil)
}

func (c *Client) UpdateLocation(ctx context.Context, location *models.Location) error {
	path := "/locations/" + location.ID.String()
	return c.do(ctx, "update location", http.MethodPut, path, location, nil)
}

func (c *Client) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	path := "/locations/" + id.String()
	return c.do(ctx, "delete location", http.MethodDelete, path, nil, nil)
}

func (c *Client) CreateBatch(ctx context.Context, batch *models.Batch) error {
	return c.do(ctx, "create batch", http.MethodPost, "/batches", batch, nil)
}

func (c *Client) UpdateBatch(ctx context.Context, batch *models.Batch) error {
	path := "/batches/" + batch.ID.String()
	return c.do(ctx, "update batch", http.MethodPut, path, batch, nil)
}

func (c *Client) DeleteBatch(ctx context.Context, id uuid.UUID) error {
	path := "/batches/" + id.String()
	return c.do(ctx, "delete batch", http.MethodDelete, path, nil, nil)
}

func (c *Client) CreateAdjustment(ctx context.Context, adjustment *models.StockAdjustment) error {
	return c.do(ctx, "create adjustment", http.MethodPost, "/adjustments", adjustment, nil)
}
