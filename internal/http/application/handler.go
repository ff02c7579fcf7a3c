package application

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifepolicy/internal/application"
	"github.com/MrJamesThe3rd/lifepolicy/internal/http/auth"
	"github.com/MrJamesThe3rd/lifepolicy/internal/http/render"
	"github.com/MrJamesThe3rd/lifepolicy/internal/importer"
	"github.com/MrJamesThe3rd/lifepolicy/internal/policy"
	"github.com/MrJamesThe3rd/lifepolicy/internal/premium"
)

const maxUploadSize = 10 << 20

type Handler struct {
	svc      *application.Service
	policies *policy.Service
	importer *importer.Service
}

func NewHandler(svc *application.Service, policies *policy.Service, importer *importer.Service) *Handler {
	return &Handler{
		svc:      svc,
		policies: policies,
		importer: importer,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/import", h.importCSV)
	r.Get("/{id}", h.get)
	r.With(auth.RequireRole(auth.RoleUnderwriter)).Patch("/{id}/decision", h.decide)
	r.Post("/{id}/policy", h.issuePolicy)
}

type applicationResponse struct {
	ID              int64               `json:"id"`
	OwnerID         uuid.UUID           `json:"owner_id"`
	ProductType     string              `json:"product_type"`
	DesiredCoverage decimal.NullDecimal `json:"desired_coverage"`
	Status          application.Status  `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       *time.Time          `json:"updated_at,omitempty"`
}

func toResponse(app *application.Application) applicationResponse {
	return applicationResponse{
		ID:              app.ID,
		OwnerID:         app.OwnerID,
		ProductType:     app.ProductType,
		DesiredCoverage: app.DesiredCoverage,
		Status:          app.Status,
		CreatedAt:       app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
	}
}

func toResponseList(apps []*application.Application) []applicationResponse {
	resp := make([]applicationResponse, len(apps))
	for i, app := range apps {
		resp[i] = toResponse(app)
	}

	return resp
}

type createApplicationRequest struct {
	ProductType     string           `json:"product_type" validate:"required,max=200"`
	DesiredCoverage *decimal.Decimal `json:"desired_coverage,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	var req createApplicationRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var coverage decimal.NullDecimal
	if req.DesiredCoverage != nil {
		if req.DesiredCoverage.IsNegative() {
			http.Error(w, "desired_coverage must not be negative", http.StatusBadRequest)
			return
		}

		coverage = decimal.NewNullDecimal(*req.DesiredCoverage)
	}

	app, err := h.svc.Create(r.Context(), application.CreateParams{
		OwnerID:         owner,
		ProductType:     req.ProductType,
		DesiredCoverage: coverage,
	})
	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(app))
}

// list returns the caller's applications, optionally narrowed by ?status=.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	filter := application.ListFilter{OwnerID: &owner}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(application.Status(s))
	}

	apps, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(apps))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	app, ok := h.find(w, r)
	if !ok {
		return
	}

	render.JSON(w, http.StatusOK, toResponse(app))
}

// find loads the {id} application. Applications of other owners are reported
// as missing unless the caller is an underwriter.
func (h *Handler) find(w http.ResponseWriter, r *http.Request) (*application.Application, bool) {
	id, err := render.ID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	app, err := h.svc.Find(r.Context(), id)
	if err != nil {
		render.InternalError(w, r, err)
		return nil, false
	}

	if app == nil || !auth.CanAccess(r.Context(), app.OwnerID) {
		http.Error(w, "application not found", http.StatusNotFound)
		return nil, false
	}

	return app, true
}

type decisionRequest struct {
	Status application.Status `json:"status" validate:"required,oneof=accepted rejected"`
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req decisionRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	app, err := h.svc.Decide(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNotFound):
			http.Error(w, "application not found", http.StatusNotFound)
		case errors.Is(err, application.ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			render.InternalError(w, r, err)
		}

		return
	}

	render.JSON(w, http.StatusOK, toResponse(app))
}

type importResponse struct {
	Profile      string                `json:"profile"`
	Imported     int                   `json:"imported"`
	Applications []applicationResponse `json:"applications"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var res *importer.Result
	if p, _ := auth.PrincipalFrom(r.Context()); p.Role == auth.RoleUnderwriter {
		res, err = h.importer.Import(r.Context(), file)
	} else {
		res, err = h.importer.ImportAs(r.Context(), file, p.Owner)
	}

	if err != nil {
		switch {
		case errors.Is(err, importer.ErrUnknownFormat):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, importer.ErrInvalidRow):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, importer.ErrOwnerMismatch):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			render.InternalError(w, r, err)
		}

		return
	}

	render.JSON(w, http.StatusCreated, importResponse{
		Profile:      res.Profile,
		Imported:     len(res.Applications),
		Applications: toResponseList(res.Applications),
	})
}

type policyResponse struct {
	ID            int64           `json:"id"`
	Number        string          `json:"number"`
	ApplicationID int64           `json:"application_id"`
	StartDate     time.Time       `json:"start_date"`
	AnnualPremium decimal.Decimal `json:"annual_premium"`
	Status        policy.Status   `json:"status"`
}

// issuePolicy turns an accepted application into an active policy.
func (h *Handler) issuePolicy(w http.ResponseWriter, r *http.Request) {
	app, ok := h.find(w, r)
	if !ok {
		return
	}

	if app.Status != application.StatusAccepted {
		http.Error(w, "application is "+string(app.Status)+", not accepted", http.StatusConflict)
		return
	}

	p, err := h.policies.CreateFromApplication(r.Context(), app)
	if err != nil {
		switch {
		case errors.Is(err, premium.ErrUnsupportedProductType):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, policy.ErrAlreadyExists):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			render.InternalError(w, r, err)
		}

		return
	}

	render.JSON(w, http.StatusCreated, policyResponse{
		ID:            p.ID,
		Number:        p.Number,
		ApplicationID: p.ApplicationID,
		StartDate:     p.StartDate,
		AnnualPremium: p.AnnualPremium,
		Status:        p.Status,
	})
}
