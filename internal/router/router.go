package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	appLogger "github.com/FACorreiaa/go-trip-route-planner/app/logger"
	_ "github.com/FACorreiaa/go-trip-route-planner/docs"
)

type ItineraryHandler interface {
	GenerateItinerary(w http.ResponseWriter, r *http.Request)
	PreviewRouteStops(w http.ResponseWriter, r *http.Request)
}

type ImageHandler interface {
	ResolveImage(w http.ResponseWriter, r *http.Request)
	InvalidateImage(w http.ResponseWriter, r *http.Request)
}

// Config contains the dependencies needed for the router setup.
type Config struct {
	ItineraryHandler ItineraryHandler
	ImageHandler     ImageHandler
	// AuthenticateMiddleware guards /api/v1 when set.
	AuthenticateMiddleware func(http.Handler) http.Handler
	AllowedOrigins         []string
	Timeout                time.Duration
	Logger                 *slog.Logger
}

// SetupRouter builds the application router with the server-wide
// middleware applied.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.AuthenticateMiddleware != nil {
			r.Use(cfg.AuthenticateMiddleware)
		}
		r.Use(middleware.Compress(5, "application/json"))

		r.Post("/itineraries/generate", cfg.ItineraryHandler.GenerateItinerary)
		r.Get("/route-stops", cfg.ItineraryHandler.PreviewRouteStops)

		r.Get("/images/resolve", cfg.ImageHandler.ResolveImage)
		r.Delete("/images/cache", cfg.ImageHandler.InvalidateImage)
	})

	return r
}
