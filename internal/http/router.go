package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"gitea.jw6.us/james/traindesk/internal/cache"
	"gitea.jw6.us/james/traindesk/internal/config"
	"gitea.jw6.us/james/traindesk/internal/derive"
	"gitea.jw6.us/james/traindesk/internal/http/csrf"
	"gitea.jw6.us/james/traindesk/internal/http/ratelimit"
	"gitea.jw6.us/james/traindesk/internal/metrics"
	"gitea.jw6.us/james/traindesk/internal/remote"
	"gitea.jw6.us/james/traindesk/internal/ui"
)

// NewRouter wires all HTTP routes for the UI, exports, and JSON feeds.
func NewRouter(cfg *config.Config, client *remote.Client, store *cache.Cache, palette derive.Palette) http.Handler {
	r := chi.NewRouter()

	// Mutating endpoints: 5 requests per second, burst of 10
	mutationLimiter := ratelimit.NewIPRateLimiter(rate.Limit(5), 10, 5*time.Minute, cfg.TrustedProxies)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(overrideMethod)
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := client.Ping(ctx); err != nil {
			http.Error(w, "unready", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.PrometheusEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		})
	}

	uiHandler := ui.NewHandler(cfg, store, palette)

	r.Group(func(r chi.Router) {
		r.Use(csrf.Middleware(cfg))

		r.Get("/", uiHandler.Dashboard)
		r.Get("/customers", uiHandler.Customers)
		r.Get("/customers/export.csv", uiHandler.ExportCustomersCSV)
		r.Get("/trainings", uiHandler.Trainings)
		r.Get("/calendar", uiHandler.Calendar)
		r.Get("/calendar/export.ics", uiHandler.ExportCalendarICS)
		r.Get("/statistics", uiHandler.Statistics)
		r.Get("/api/calendar/events", uiHandler.CalendarEventsJSON)
		r.Get("/api/statistics", uiHandler.StatisticsJSON)

		r.Group(func(r chi.Router) {
			r.Use(mutationLimiter.Middleware())

			r.Post("/customers", uiHandler.CreateCustomer)
			r.Put("/customers/{id}", uiHandler.UpdateCustomer)
			r.Delete("/customers/{id}", uiHandler.DeleteCustomer)
			r.Post("/customers/{id}/delete", uiHandler.DeleteCustomer) // HTML form fallback

			r.Post("/trainings", uiHandler.CreateTraining)
			r.Delete("/trainings/{id}", uiHandler.DeleteTraining)
			r.Post("/trainings/{id}/delete", uiHandler.DeleteTraining) // HTML form fallback
		})
	})

	return r
}

func overrideMethod(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.Method
		if r.Method == http.MethodPost {
			if m := r.PostFormValue("_method"); m != "" {
				method = m
			} else if m := r.URL.Query().Get("_method"); m != "" {
				method = m
			}
		}
		switch method {
		case http.MethodPut, http.MethodDelete:
			r.Method = method
		}
		next.ServeHTTP(w, r)
	})
}
