package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklens/internal/models"
)

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]models.InventoryItem{})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-token", 5*time.Second, nil)
	_, err := client.ListInventory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestClient_ListInventoryDecodesItems(t *testing.T) {
	locationID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory", r.URL.Path)
		json.NewEncoder(w).Encode([]models.InventoryItem{
			{Name: "Widget", Quantity: 4, LocationID: &locationID},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", 5*time.Second, nil)
	items, err := client.ListInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Widget", items[0].Name)
	require.NotNil(t, items[0].LocationID)
	assert.Equal(t, locationID, *items[0].LocationID)
}

func TestClient_GetItemQuotes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/Widget/suppliers", r.URL.Path)
		json.NewEncoder(w).Encode([]models.SupplierQuote{
			{SupplierID: uuid.New(), SupplierName: "Acme", ItemName: "Widget",
				UnitPrice: decimal.RequireFromString("9.99"), IsAvailable: true},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", 5*time.Second, nil)
	quotes, err := client.GetItemQuotes(context.Background(), "Widget")
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "Acme", quotes[0].SupplierName)
}

func TestClient_EmptyQuoteSetIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", 5*time.Second, nil)
	quotes, err := client.GetItemQuotes(context.Background(), "Lonely")
	require.NoError(t, err)
	assert.NotNil(t, quotes)
	assert.Empty(t, quotes)
}

func TestClient_NotFoundMapsToNotFoundError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", 5*time.Second, nil)
	err := client.DeleteItem(context.Background(), "Ghost")

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestClient_ServerErrorMapsToFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", 5*time.Second, nil)
	_, err := client.ListInventory(context.Background())

	var fetch *FetchError
	require.ErrorAs(t, err, &fetch)
	assert.Equal(t, http.StatusInternalServerError, fetch.Status)
}

func TestClient_ConflictDegradesToFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", 5*time.Second, nil)
	err := client.CreateItem(context.Background(), &models.InventoryItem{Name: "Widget"})

	var fetch *FetchError
	require.ErrorAs(t, err, &fetch)
	assert.Equal(t, http.StatusConflict, fetch.Status)
}

func TestClient_UnauthorizedFiresSessionHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	hookFired := false
	client := NewClient(server.URL, "t", 5*time.Second, func() { hookFired = true })
	_, err := client.ListInventory(context.Background())

	var fetch *FetchError
	require.ErrorAs(t, err, &fetch)
	assert.Equal(t, http.StatusUnauthorized, fetch.Status)
	assert.True(t, hookFired)
}

func TestClient_TransportFailureMapsToFetchError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "t", 500*time.Millisecond, nil)
	_, err := client.ListInventory(context.Background())

	var fetch *FetchError
	require.ErrorAs(t, err, &fetch)
	assert.Zero(t, fetch.Status)
}
