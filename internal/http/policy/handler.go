package policy

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifepolicy/internal/http/auth"
	"github.com/MrJamesThe3rd/lifepolicy/internal/http/render"
	"github.com/MrJamesThe3rd/lifepolicy/internal/payment"
	"github.com/MrJamesThe3rd/lifepolicy/internal/policy"
)

type Handler struct {
	svc      *policy.Service
	payments *payment.Service
}

func NewHandler(svc *policy.Service, payments *payment.Service) *Handler {
	return &Handler{svc: svc, payments: payments}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/cancel", h.cancel)
	r.Get("/{id}/payments", h.listPayments)
	r.Post("/{id}/payments", h.schedulePayment)
}

type policyResponse struct {
	ID            int64           `json:"id"`
	Number        string          `json:"number"`
	ApplicationID int64           `json:"application_id"`
	OwnerID       uuid.UUID       `json:"owner_id"`
	StartDate     time.Time       `json:"start_date"`
	AnnualPremium decimal.Decimal `json:"annual_premium"`
	Status        policy.Status   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(p *policy.Policy) policyResponse {
	return policyResponse{
		ID:            p.ID,
		Number:        p.Number,
		ApplicationID: p.ApplicationID,
		OwnerID:       p.OwnerID,
		StartDate:     p.StartDate,
		AnnualPremium: p.AnnualPremium,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toResponseList(policies []*policy.Policy) []policyResponse {
	resp := make([]policyResponse, len(policies))
	for i, p := range policies {
		resp[i] = toResponse(p)
	}

	return resp
}

type paymentResponse struct {
	ID       int64           `json:"id"`
	PolicyID int64           `json:"policy_id"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  time.Time       `json:"due_date"`
	Status   payment.Status  `json:"status"`
	PaidAt   *time.Time      `json:"paid_at,omitempty"`
}

func toPaymentResponse(p *payment.Payment) paymentResponse {
	return paymentResponse{
		ID:       p.ID,
		PolicyID: p.PolicyID,
		Amount:   p.Amount,
		DueDate:  p.DueDate,
		Status:   p.Status,
		PaidAt:   p.PaidAt,
	}
}

// list serves ?scope=mine (default), active (the caller's active policies) or
// all, which is reserved for underwriters.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	var (
		policies []*policy.Policy
		err      error
	)

	switch scope := r.URL.Query().Get("scope"); scope {
	case "", "mine":
		policies, err = h.svc.ListByOwner(r.Context(), owner)
	case "active":
		policies, err = h.svc.ListActiveByOwner(r.Context(), owner)
	case "all":
		if !auth.IsUnderwriter(r.Context()) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		policies, err = h.svc.List(r.Context())
	default:
		http.Error(w, "unknown scope "+scope, http.StatusBadRequest)
		return
	}

	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(policies))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.find(w, r)
	if !ok {
		return
	}

	render.JSON(w, http.StatusOK, toResponse(p))
}

type cancelResponse struct {
	Policy         policyResponse `json:"policy"`
	VoidedPayments int            `json:"voided_payments"`
}

// cancel cancels the policy and then voids its due payments. A failed cascade
// is logged and reported as zero voided payments; rerunning cancel retries it.
func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	current, ok := h.find(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Cancel(r.Context(), current.ID)
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrNotFound):
			http.Error(w, "policy not found", http.StatusNotFound)
		case errors.Is(err, policy.ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			render.InternalError(w, r, err)
		}

		return
	}

	voided, err := h.payments.RemoveUnusedSchedules(r.Context(), p.ID)
	if err != nil {
		slog.Error("failed to void payment schedules", "policy_id", p.ID, "error", err)
	}

	render.JSON(w, http.StatusOK, cancelResponse{
		Policy:         toResponse(p),
		VoidedPayments: voided,
	})
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	p, ok := h.find(w, r)
	if !ok {
		return
	}

	payments, err := h.payments.ListByPolicy(r.Context(), p)
	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	resp := make([]paymentResponse, len(payments))
	for i, pay := range payments {
		resp[i] = toPaymentResponse(pay)
	}

	render.JSON(w, http.StatusOK, resp)
}

type schedulePaymentRequest struct {
	Amount  *decimal.Decimal `json:"amount" validate:"required"`
	DueDate string           `json:"due_date" validate:"required,datetime=2006-01-02"`
}

func (h *Handler) schedulePayment(w http.ResponseWriter, r *http.Request) {
	var req schedulePaymentRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	due, err := time.Parse(time.DateOnly, req.DueDate)
	if err != nil {
		http.Error(w, "due_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	p, ok := h.find(w, r)
	if !ok {
		return
	}

	pay, err := h.payments.Create(r.Context(), payment.CreateParams{
		PolicyID: p.ID,
		Amount:   *req.Amount,
		DueDate:  due,
	})
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, policy.ErrNotFound):
			http.Error(w, "policy not found", http.StatusNotFound)
		case errors.Is(err, payment.ErrPolicyNotActive):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			render.InternalError(w, r, err)
		}

		return
	}

	render.JSON(w, http.StatusCreated, toPaymentResponse(pay))
}

// find loads the {id} policy. Policies of other owners are reported as missing
// unless the caller is an underwriter.
func (h *Handler) find(w http.ResponseWriter, r *http.Request) (*policy.Policy, bool) {
	id, err := render.ID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	p, err := h.svc.Find(r.Context(), id)
	if err != nil {
		render.InternalError(w, r, err)
		return nil, false
	}

	if p == nil || !auth.CanAccess(r.Context(), p.OwnerID) {
		http.Error(w, "policy not found", http.StatusNotFound)
		return nil, false
	}

	return p, true
}
