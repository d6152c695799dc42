package routes

import (
	"net/http"

	"github.com/badrinagarjun/marketpulse/configs"
	"github.com/badrinagarjun/marketpulse/internal/handlers"
	"github.com/badrinagarjun/marketpulse/internal/metrics"
	appmw "github.com/badrinagarjun/marketpulse/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRoutes(challenge *handlers.ChallengeHandler, stock *handlers.StockHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Instrument)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   configs.AppConfig.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	if configs.AppConfig.RateLimit.RPS > 0 {
		r.Use(appmw.RateLimit(configs.AppConfig.RateLimit.RPS, configs.AppConfig.RateLimit.Burst))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Works Fine!"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", handlers.RegisterHandler)
		r.Post("/auth/login", handlers.LoginHandler)
		r.With(appmw.Authenticated).Get("/auth/me", handlers.MeHandler)

		r.Route("/challenge", func(r chi.Router) {
			r.Use(appmw.Authenticated)
			r.Post("/account", challenge.CreateAccount)
			r.Get("/account", challenge.GetAccount)
			r.Get("/positions", challenge.Positions)
			r.Get("/trades", challenge.Trades)
			r.Post("/order", challenge.Order)
			r.Delete("/reset", challenge.Reset)
		})

		r.Route("/journal", func(r chi.Router) {
			r.Use(appmw.Authenticated)
			r.Get("/", handlers.ListJournalHandler)
			r.Post("/", handlers.CreateJournalHandler)
			r.Get("/{id}", handlers.GetJournalHandler)
			r.Put("/{id}", handlers.UpdateJournalHandler)
			r.Delete("/{id}", handlers.DeleteJournalHandler)
		})

		r.Get("/stock/{symbol}", stock.GetQuote)
	})

	return r
}
