package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/lifepolicy/internal/http/application"
	"github.com/MrJamesThe3rd/lifepolicy/internal/http/auth"
	"github.com/MrJamesThe3rd/lifepolicy/internal/http/payment"
	"github.com/MrJamesThe3rd/lifepolicy/internal/http/policy"
	"github.com/MrJamesThe3rd/lifepolicy/internal/http/quote"
	"github.com/MrJamesThe3rd/lifepolicy/internal/http/risk"
)

type Handlers struct {
	Quotes       *quote.Handler
	Applications *application.Handler
	Policies     *policy.Handler
	Payments     *payment.Handler
	Risk         *risk.Handler
}

type Options struct {
	Tokens         *auth.Tokens
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.Tokens))

		r.Route("/quotes", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Quotes.Routes(r)
		})

		// Not restricted to JSON: the import route takes multipart uploads.
		r.Route("/applications", h.Applications.Routes)

		r.Route("/policies", h.Policies.Routes)

		r.Route("/payments", func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleUnderwriter))
			h.Payments.Routes(r)
		})

		r.Route("/risk-assessments", func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleUnderwriter))
			r.Use(middleware.AllowContentType("application/json"))
			h.Risk.Routes(r)
		})
	})

	return router
}
