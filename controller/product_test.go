package controller_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adnan4141/digital-product-store-server/models"
)

func TestProductWritesRequireAdmin(t *testing.T) {
	router := newTestRouter(t, newTestDB(t), &providerStub{})
	body := map[string]any{"name": "Go Book", "price": "10.00", "stock_quantity": 5}

	w := doJSON(t, router, http.MethodPost, "/products", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/products", body, map[string]string{"X-Admin-Secret": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/products", body, adminHeaders())
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestProductCRUD(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(t, db, &providerStub{})

	// Create
	w := doJSON(t, router, http.MethodPost, "/products", map[string]any{
		"name":           "Go Book",
		"description":    "A book about Go",
		"price":          "19.99",
		"stock_quantity": 5,
	}, adminHeaders())
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Product
	env := decodeData(t, w, &created)
	assert.True(t, env.Success)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Go Book", created.Name)

	// List
	w = doJSON(t, router, http.MethodGet, "/products", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []models.Product
	decodeData(t, w, &listed)
	require.Len(t, listed, 1)

	// Get by id
	w = doJSON(t, router, http.MethodGet, "/products/"+created.ID.String(), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched models.Product
	decodeData(t, w, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.True(t, fetched.Price.Equal(decimal.RequireFromString("19.99")), "price %s", fetched.Price)

	// Update
	w = doJSON(t, router, http.MethodPut, "/products/"+created.ID.String(), map[string]any{
		"name":           "Go Book, 2nd Edition",
		"price":          "24.99",
		"stock_quantity": 7,
	}, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Product
	decodeData(t, w, &updated)
	assert.Equal(t, "Go Book, 2nd Edition", updated.Name)
	assert.Equal(t, 7, updated.StockQuantity)

	// Delete
	w = doJSON(t, router, http.MethodDelete, "/products/"+created.ID.String(), nil, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/products/"+created.ID.String(), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProductValidation(t *testing.T) {
	router := newTestRouter(t, newTestDB(t), &providerStub{})

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"price": "10.00", "stock_quantity": 1}},
		{"negative price", map[string]any{"name": "Go Book", "price": "-1.00", "stock_quantity": 1}},
		{"negative stock", map[string]any{"name": "Go Book", "price": "10.00", "stock_quantity": -1}},
		{"malformed category id", map[string]any{"name": "Go Book", "price": "10.00", "stock_quantity": 1, "category_id": "nope"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/products", tc.body, adminHeaders())
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, decodeEnvelope(t, w).Success)
		})
	}
}

func TestCreateProductUnknownCategory(t *testing.T) {
	router := newTestRouter(t, newTestDB(t), &providerStub{})

	w := doJSON(t, router, http.MethodPost, "/products", map[string]any{
		"name":           "Go Book",
		"price":          "10.00",
		"stock_quantity": 1,
		"category_id":    uuid.NewString(),
	}, adminHeaders())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductInvalidID(t *testing.T) {
	router := newTestRouter(t, newTestDB(t), &providerStub{})

	w := doJSON(t, router, http.MethodGet, "/products/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/products/"+uuid.NewString(), nil, adminHeaders())
	assert.Equal(t, http.StatusNotFound, w.Code)
}
