// Package handler exposes the catalog and cart repositories over HTTP.
package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ignaciociccioli3-cmd/Backend1/internal/domain/cart"
	"github.com/ignaciociccioli3-cmd/Backend1/internal/domain/product"
	"github.com/ignaciociccioli3-cmd/Backend1/internal/store"
)

// Products is the catalog behavior the HTTP layer relies on.
type Products interface {
	cart.ProductLookup
	GetAll(ctx context.Context) ([]product.Product, error)
	Create(ctx context.Context, in product.Input) (*product.Product, error)
	Update(ctx context.Context, id store.ID, in product.Input) (*product.Product, error)
	Delete(ctx context.Context, id store.ID) (bool, error)
}

// Carts is the cart behavior the HTTP layer relies on.
type Carts interface {
	Create(ctx context.Context) (*cart.Cart, error)
	GetByID(ctx context.Context, id store.ID) (*cart.Cart, error)
	AddProduct(ctx context.Context, cartID, productID store.ID, products cart.ProductLookup) (*cart.Cart, error)
}

var (
	_ Products = (*product.Repository)(nil)
	_ Carts    = (*cart.Repository)(nil)
)

// Handler serves the /api routes.
type Handler struct {
	products Products
	carts    Carts
}

// New returns a Handler over the given repositories.
func New(products Products, carts Carts) *Handler {
	return &Handler{products: products, carts: carts}
}

// Register mounts the API routes on r.
func (h *Handler) Register(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	api.HandleFunc("/products", h.createProduct).Methods(http.MethodPost)
	api.HandleFunc("/products/{pid}", h.getProduct).Methods(http.MethodGet)
	api.HandleFunc("/products/{pid}", h.updateProduct).Methods(http.MethodPut)
	api.HandleFunc("/products/{pid}", h.deleteProduct).Methods(http.MethodDelete)

	api.HandleFunc("/carts", h.createCart).Methods(http.MethodPost)
	api.HandleFunc("/carts/{cid}", h.getCart).Methods(http.MethodGet)
	api.HandleFunc("/carts/{cid}/product/{pid}", h.addToCart).Methods(http.MethodPost)

	// Subrouters answer their own misses; the root router never sees them.
	for _, router := range []*mux.Router{r, api} {
		router.NotFoundHandler = http.HandlerFunc(routeNotFound)
		router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	}
}

func routeNotFound(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusNotFound, "Route not found")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// NewRouter returns a router with the API routes registered.
func (h *Handler) NewRouter() *mux.Router {
	r := mux.NewRouter()
	h.Register(r)
	return r
}

// pathID parses the named route variable as a record ID.
func pathID(r *http.Request, name string) (store.ID, bool) {
	return store.ParseID(mux.Vars(r)[name])
}
