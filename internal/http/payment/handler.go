package payment

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifepolicy/internal/http/render"
	"github.com/MrJamesThe3rd/lifepolicy/internal/payment"
)

type Handler struct {
	svc *payment.Service
}

func NewHandler(svc *payment.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/{id}/pay", h.pay)
}

type paymentResponse struct {
	ID        int64           `json:"id"`
	PolicyID  int64           `json:"policy_id"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   time.Time       `json:"due_date"`
	Status    payment.Status  `json:"status"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func toResponse(p *payment.Payment) paymentResponse {
	return paymentResponse{
		ID:        p.ID,
		PolicyID:  p.PolicyID,
		Amount:    p.Amount,
		DueDate:   p.DueDate,
		Status:    p.Status,
		PaidAt:    p.PaidAt,
		CreatedAt: p.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.List(r.Context())
	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	resp := make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toResponse(p)
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Pay(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrNotFound):
			http.Error(w, "payment not found", http.StatusNotFound)
		case errors.Is(err, payment.ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			render.InternalError(w, r, err)
		}

		return
	}

	render.JSON(w, http.StatusOK, toResponse(p))
}
