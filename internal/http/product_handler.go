package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
)

// Catalog is what the product routes need from the catalog service.
type Catalog interface {
	List(ctx context.Context, filter domain.ProductFilter, page, pageSize int) ([]domain.Product, int64, error)
	Get(ctx context.Context, idOrSlug string) (*domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AdjustStock(ctx context.Context, id primitive.ObjectID, sku string, delta int) (*domain.Product, error)
}

type ProductHandler struct {
	catalog Catalog
}

func NewProductHandler(catalog Catalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type ProductsResponse struct {
	Products []domain.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ProductFilter{Category: q.Get("category")}
	if raw := q.Get("in_stock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "validation_failed", "in_stock must be a boolean")
			return
		}
		filter.InStock = &inStock
	}

	page := queryInt(q.Get("page"), 1)
	pageSize := queryInt(q.Get("page_size"), 20)

	products, total, err := h.catalog.List(r.Context(), filter, page, pageSize)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	respondJSON(w, http.StatusOK, ProductsResponse{
		Products: products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "idOrSlug"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

// Admin surface below: create/update/delete and stock adjustment.

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.catalog.Create(r.Context(), &product); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid product id")
		return
	}

	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	product.ID = id

	if err := h.catalog.Update(r.Context(), &product); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid product id")
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

type AdjustStockRequestDTO struct {
	SKU   string `json:"sku"`
	Delta int    `json:"delta"`
}

func (h *ProductHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid product id")
		return
	}

	var req AdjustStockRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.SKU == "" {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "sku is required")
		return
	}

	product, err := h.catalog.AdjustStock(r.Context(), id, req.SKU, req.Delta)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func queryInt(raw string, defaultValue int) int {
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return defaultValue
	}
	return n
}
