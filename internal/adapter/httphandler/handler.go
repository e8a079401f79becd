package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
)

// GET v1/filters (200 OK)
// GET v1/products?category=&q= (200 OK)
// GET v1/products/{id} (200 OK, 404 Not found)
// POST v1/products/{id}/cart (200 OK, 404 Not found, 503 Service unavailable)

type CatalogHandler struct {
	products []domain.Product
	cart     port.Cart
}

func RegisterCatalog(
	mux *http.ServeMux, products []domain.Product, cart port.Cart,
) {
	h := CatalogHandler{products, cart}
	mux.HandleFunc("GET /v1/filters", h.GetFilters)
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("POST /v1/products/{id}/cart", h.PostProductToCart)
}

// gallery is per request, filter state is never shared.
func (h CatalogHandler) gallery() *service.Gallery {
	return service.NewGallery(h.products, h.cart, nil)
}

func (h CatalogHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetFilters"
	g := h.gallery()
	writeJSON(w, op, http.StatusOK, Filters{
		Filters: g.Filters(),
		Active:  g.State().ActiveCategory,
	})
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"

	g := h.gallery()
	g.Apply(domain.FilterState{
		ActiveCategory: r.URL.Query().Get("category"),
		SearchQuery:    r.URL.Query().Get("q"),
	})

	writeJSON(w, op, http.StatusOK, fromDomainProducts(g.FilteredProducts()))
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"

	p, ok := h.gallery().Product(r.PathValue("id"))
	if !ok {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	writeJSON(w, op, http.StatusOK, fromDomainProduct(p))
}

func (h CatalogHandler) PostProductToCart(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.PostProductToCart"
	log := slog.With("op", op)

	g := h.gallery()
	id := r.PathValue("id")
	if _, ok := g.Product(id); !ok {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	if err := g.AddToCart(r.Context(), id); err != nil {
		http.Error(w, "failed to update cart", http.StatusServiceUnavailable)
		log.Error("failed to add to cart", "err", err)
		return
	}

	writeJSON(w, op, http.StatusOK, fromDomainItems(h.cart.Items(r.Context())))
}

// GET v1/cart (200 OK)
// POST v1/cart/items JSON {"product_id" string, "qty" int} (200 OK, 400 Bad request)
// PUT v1/cart/items/{id} JSON {"qty" int} (200 OK, 400 Bad request)
// DELETE v1/cart/items/{id} (200 OK)
// DELETE v1/cart (200 OK)

type CartHandler struct {
	cart port.Cart
}

func RegisterCart(mux *http.ServeMux, cart port.Cart) {
	h := CartHandler{cart}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("POST /v1/cart/items", h.PostItem)
	mux.HandleFunc("PUT /v1/cart/items/{id}", h.PutItemQty)
	mux.HandleFunc("DELETE /v1/cart/items/{id}", h.DeleteItem)
	mux.HandleFunc("DELETE /v1/cart", h.DeleteCart)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, r, "CartHandler.GetCart")
}

// PostItem adds by bare id. Omitted qty means 1.
func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"
	log := slog.With("op", op)

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	qty := 1
	if req.Qty != nil {
		qty = *req.Qty
	}

	if err := h.cart.AddID(r.Context(), req.ProductID, qty); err != nil {
		h.unavailable(w, log, err)
		return
	}
	h.writeCart(w, r, op)
}

func (h CartHandler) PutItemQty(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PutItemQty"
	log := slog.With("op", op)

	var req SetQtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	if err := h.cart.SetQty(r.Context(), r.PathValue("id"), req.Qty); err != nil {
		h.unavailable(w, log, err)
		return
	}
	h.writeCart(w, r, op)
}

func (h CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteItem"
	log := slog.With("op", op)

	if err := h.cart.Remove(r.Context(), r.PathValue("id")); err != nil {
		h.unavailable(w, log, err)
		return
	}
	h.writeCart(w, r, op)
}

func (h CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteCart"
	log := slog.With("op", op)

	if err := h.cart.Clear(r.Context()); err != nil {
		h.unavailable(w, log, err)
		return
	}
	h.writeCart(w, r, op)
}

func (h CartHandler) writeCart(w http.ResponseWriter, r *http.Request, op string) {
	writeJSON(w, op, http.StatusOK, fromDomainItems(h.cart.Items(r.Context())))
}

func (h CartHandler) unavailable(w http.ResponseWriter, log *slog.Logger, err error) {
	http.Error(w, "failed to update cart", http.StatusServiceUnavailable)
	log.Error("failed to update cart", "err", err)
}

func writeJSON(w http.ResponseWriter, op string, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}
