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

// Feedbacks stores contact-form entries and supports admin triage.
type Feedbacks interface {
	Create(ctx context.Context, f *domain.Feedback) error
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Feedback, error)
	List(ctx context.Context, filter domain.FeedbackFilter, page, pageSize int) ([]domain.Feedback, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.FeedbackStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type FeedbackHandler struct {
	feedback Feedbacks
}

func NewFeedbackHandler(feedback Feedbacks) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

type FeedbackRequestDTO struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Rating    int    `json:"rating,omitempty"`
	ProductID string `json:"product_id,omitempty"`
	OrderID   string `json:"order_id,omitempty"`
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	feedback := domain.Feedback{
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		Rating:    req.Rating,
		ProductID: req.ProductID,
		OrderID:   req.OrderID,
		Status:    domain.FeedbackPending,
	}
	if err := feedback.Validate(); err != nil {
		handleDomainError(w, err)
		return
	}

	if err := h.feedback.Create(r.Context(), &feedback); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, feedback)
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.FeedbackFilter{
		Status:    domain.FeedbackStatus(q.Get("status")),
		ProductID: q.Get("product_id"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "unknown feedback status")
		return
	}

	page := queryInt(q.Get("page"), 1)
	pageSize := queryInt(q.Get("page_size"), 50)

	entries, total, err := h.feedback.List(r.Context(), filter, page, pageSize)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.Feedback{}
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	respondJSON(w, http.StatusOK, entries)
}

func (h *FeedbackHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid feedback id")
		return
	}

	feedback, err := h.feedback.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, feedback)
}

type FeedbackStatusDTO struct {
	Status string `json:"status"`
}

func (h *FeedbackHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid feedback id")
		return
	}

	var req FeedbackStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Status == "" {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "status is required")
		return
	}

	if err := h.feedback.UpdateStatus(r.Context(), id, domain.FeedbackStatus(req.Status)); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": id.Hex(), "status": req.Status})
}

func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid feedback id")
		return
	}

	if err := h.feedback.Delete(r.Context(), id); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "feedback deleted"})
}
