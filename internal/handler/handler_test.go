package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignaciociccioli3-cmd/Backend1/internal/domain/cart"
	"github.com/ignaciociccioli3-cmd/Backend1/internal/domain/product"
	"github.com/ignaciociccioli3-cmd/Backend1/internal/store"
)

const mateBody = `{"title":"Mate","description":"Calabash gourd","code":"MATE-1",
	"price":12.5,"stock":10,"category":"kitchen","thumbnails":["mate.png"],"rating":5}`

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	products := product.NewRepository(store.NewFile[product.Product](filepath.Join(dir, "products.json")))
	carts := cart.NewRepository(store.NewFile[cart.Cart](filepath.Join(dir, "carts.json")))
	return New(products, carts).NewRouter()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestProducts(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/products", mateBody)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"title":"Mate","description":"Calabash gourd","code":"MATE-1",
		"price":12.5,"status":true,"stock":10,"category":"kitchen","thumbnails":["mate.png"]}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/products", mateBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Code already exists"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/products/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Mate", decode[product.Product](t, w).Title)

	w = do(t, h, http.MethodPut, "/api/products/1", `{"price":"15","id":99}`)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[product.Product](t, w)
	assert.Equal(t, store.ID(1), updated.ID)
	assert.Equal(t, 15.0, updated.Price)

	w = do(t, h, http.MethodGet, "/api/products", "")
	require.Len(t, decode[[]product.Product](t, w), 1)

	w = do(t, h, http.MethodDelete, "/api/products/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","message":"Product deleted"}`, w.Body.String())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w = do(t, h, method, "/api/products/1", `{}`)
		assert.Equal(t, http.StatusNotFound, w.Code, method)
		assert.JSONEq(t, `{"error":"Product not found"}`, w.Body.String(), method)
	}
}

func TestProducts_BadRequests(t *testing.T) {
	h := newTestServer(t)

	for _, tt := range []struct {
		name, method, target, body, want string
	}{
		{"MissingFields", http.MethodPost, "/api/products", `{"title":"Mate"}`,
			`{"error":"Missing required fields: description, code, price, stock, category"}`},
		{"NotNumeric", http.MethodPost, "/api/products",
			`{"title":"t","description":"d","code":"c","price":"abc","stock":1,"category":"x"}`,
			`{"error":"price and stock must be numbers"}`},
		{"ArrayBody", http.MethodPost, "/api/products", `[1,2]`, `{"error":"invalid request body"}`},
		{"BrokenJSON", http.MethodPost, "/api/products", `{"title":`, `{"error":"invalid request body"}`},
		{"BadID", http.MethodGet, "/api/products/abc", "", `{"error":"Invalid product id"}`},
		{"ZeroID", http.MethodDelete, "/api/products/0", "", `{"error":"Invalid product id"}`},
		{"BadCartID", http.MethodGet, "/api/carts/x", "", `{"error":"Invalid cart id"}`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestCarts(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/api/carts", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"products":[]}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/carts/1/product/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, w.Body.String())

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/products", mateBody).Code)

	do(t, h, http.MethodPost, "/api/carts/1/product/1", "")
	w = do(t, h, http.MethodPost, "/api/carts/1/product/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"products":[{"product":1,"quantity":2}]}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/carts/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[cart.Cart](t, w).Products[0].Quantity)

	w = do(t, h, http.MethodGet, "/api/carts/9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Cart not found"}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/carts/9/product/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Cart not found"}`, w.Body.String())
}

func TestRouting(t *testing.T) {
	h := newTestServer(t)

	for _, tt := range []struct {
		method, target string
		status         int
		want           string
	}{
		{http.MethodGet, "/api/orders", http.StatusNotFound, `{"error":"Route not found"}`},
		{http.MethodGet, "/nowhere", http.StatusNotFound, `{"error":"Route not found"}`},
		{http.MethodPatch, "/api/products", http.StatusMethodNotAllowed, `{"error":"Method not allowed"}`},
		{http.MethodPost, "/api/products/1", http.StatusMethodNotAllowed, `{"error":"Method not allowed"}`},
		{http.MethodGet, "/api/carts/1/product/1", http.StatusMethodNotAllowed, `{"error":"Method not allowed"}`},
	} {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			w := do(t, h, tt.method, tt.target, "")
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

type brokenCollection[T any] struct{}

func (brokenCollection[T]) Load(context.Context) ([]T, error) {
	return nil, &store.StorageError{Op: "parse", Path: "products.json", Err: errors.New("unexpected EOF")}
}

func (brokenCollection[T]) Save(context.Context, []T) error {
	return errors.New("unreachable")
}

func TestStorageFailure(t *testing.T) {
	products := product.NewRepository(brokenCollection[product.Product]{})
	carts := cart.NewRepository(brokenCollection[cart.Cart]{})
	h := New(products, carts).NewRouter()

	for _, target := range []string{"/api/products", "/api/products/1", "/api/carts/1"} {
		w := do(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code, target)
		assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String(), target)
	}
}
