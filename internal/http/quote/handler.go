package quote

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifepolicy/internal/http/render"
	"github.com/MrJamesThe3rd/lifepolicy/internal/premium"
)

type Handler struct {
	svc *premium.Service
}

func NewHandler(svc *premium.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.quote)
}

type quoteRequest struct {
	ProductType     string           `json:"product_type" validate:"required"`
	DesiredCoverage *decimal.Decimal `json:"desired_coverage" validate:"required"`
}

type quoteResponse struct {
	ProductType     string               `json:"product_type"`
	Strategy        premium.StrategyName `json:"strategy"`
	DesiredCoverage decimal.Decimal      `json:"desired_coverage"`
	AnnualPremium   decimal.Decimal      `json:"annual_premium"`
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.DesiredCoverage.IsNegative() {
		http.Error(w, "desired_coverage must not be negative", http.StatusBadRequest)
		return
	}

	amount, err := h.svc.Quote(req.ProductType, *req.DesiredCoverage)
	if err != nil {
		if errors.Is(err, premium.ErrUnsupportedProductType) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		render.InternalError(w, r, err)

		return
	}

	strategy, _ := premium.Classify(req.ProductType)

	render.JSON(w, http.StatusOK, quoteResponse{
		ProductType:     req.ProductType,
		Strategy:        strategy,
		DesiredCoverage: *req.DesiredCoverage,
		AnnualPremium:   amount,
	})
}
