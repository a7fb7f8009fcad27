package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type RouterOptions struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(h *HTTPHandler, logger *zap.Logger, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(logger))
	r.Use(middleware.Recoverer)
	r.Use(CORS(opts.AllowedOrigins))
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/inventory", h.SubmitEntry)
		r.Post("/inventory/get", h.GetEntry)

		r.Route("/manager", func(r chi.Router) {
			r.Post("/inventory", h.ListEntries)
			r.Post("/delete-inventory", h.DeleteEntry)
			r.Post("/add-employee", h.AddEmployee)
			r.Post("/employees", h.ListEmployees)
			r.Post("/remove-employee", h.RemoveEmployee)
			r.Post("/settings", h.UpdateSettings)
		})
	})

	return r
}
