package risk

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/lifepolicy/internal/http/render"
	"github.com/MrJamesThe3rd/lifepolicy/internal/risk"
)

type Handler struct {
	svc *risk.Service
}

func NewHandler(svc *risk.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

type assessmentResponse struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"application_id"`
	Content       string    `json:"content"`
	Score         int       `json:"score"`
	Flags         []string  `json:"flags"`
	CreatedAt     time.Time `json:"created_at"`
}

func toResponse(a *risk.Assessment) assessmentResponse {
	flags := a.Flags
	if flags == nil {
		flags = []string{}
	}

	return assessmentResponse{
		ID:            a.ID,
		ApplicationID: a.ApplicationID,
		Content:       a.Content,
		Score:         a.Score,
		Flags:         flags,
		CreatedAt:     a.CreatedAt,
	}
}

type createRequest struct {
	ApplicationID int64  `json:"application_id" validate:"required,gt=0"`
	Content       string `json:"content" validate:"required,max=4000"`
	Age           int    `json:"age" validate:"gte=18,lte=120"`
	Smoker        bool   `json:"smoker"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.svc.Create(r.Context(), risk.CreateParams{
		ApplicationID: req.ApplicationID,
		Content:       req.Content,
		Factors:       risk.Factors{Age: req.Age, Smoker: req.Smoker},
	})
	if err != nil {
		if errors.Is(err, risk.ErrApplicationNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		render.InternalError(w, r, err)

		return
	}

	render.JSON(w, http.StatusCreated, toResponse(a))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		assessments []*risk.Assessment
		err         error
	)

	if raw := r.URL.Query().Get("application_id"); raw != "" {
		appID, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			http.Error(w, "invalid application_id", http.StatusBadRequest)
			return
		}

		assessments, err = h.svc.ListByApplication(r.Context(), appID)
	} else {
		assessments, err = h.svc.List(r.Context())
	}

	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	resp := make([]assessmentResponse, len(assessments))
	for i, a := range assessments {
		resp[i] = toResponse(a)
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.svc.Find(r.Context(), id)
	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	if a == nil {
		http.Error(w, "risk assessment not found", http.StatusNotFound)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(a))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	outcome, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	switch outcome {
	case risk.OutcomeDeleted:
		w.WriteHeader(http.StatusNoContent)
	case risk.OutcomeNotFound:
		http.Error(w, "risk assessment not found", http.StatusNotFound)
	default:
		http.Error(w, "application is accepted or missing; assessment is kept", http.StatusConflict)
	}
}
