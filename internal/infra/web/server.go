package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"property-marketplace/internal/domain/ports/repository"
	"property-marketplace/internal/infra/worker"
	"property-marketplace/internal/usecase"
)

type Server struct {
	statsUC   usecase.StatsUseCase
	listingUC usecase.ListingUseCase
	premiumUC usecase.PremiumUseCase
	planUC    usecase.PlanUseCase
	activity  repository.ActivityLogRepository
	auth      *AuthManager
	apiKey    string
	pool      *worker.Pool
	log       *zerolog.Logger
}

func NewServer(
	statsUC usecase.StatsUseCase,
	listingUC usecase.ListingUseCase,
	premiumUC usecase.PremiumUseCase,
	planUC usecase.PlanUseCase,
	activity repository.ActivityLogRepository,
	auth *AuthManager,
	apiKey string,
	pool *worker.Pool,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		statsUC:   statsUC,
		listingUC: listingUC,
		premiumUC: premiumUC,
		planUC:    planUC,
		activity:  activity,
		auth:      auth,
		apiKey:    apiKey,
		pool:      pool,
		log:       logger,
	}
}

// RegisterRoutes sets up the routing for the admin and public APIs.
// The payment webhook is mounted separately by the caller; it carries
// its own token check and must stay outside the session middleware.
func RegisterRoutes(r chi.Router, s *Server) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/admin/login", loginHandler(s))

		// Public read surface plus engagement tracking.
		r.Get("/properties", propertiesListHandler(s.listingUC))
		r.Get("/properties/{id}", propertyGetHandler(s.listingUC))
		r.Post("/properties/{id}/upgrade", upgradeHandler(s.premiumUC))
		r.Post("/premium/{id}/track/{event}", trackHandler(s))
		r.Get("/plans", plansListHandler(s.planUC))

		// Everything below requires an admin session.
		r.Group(func(r chi.Router) {
			r.Use(s.sessionMiddleware)

			r.Get("/stats", statsHandler(s.statsUC))
			r.Post("/properties", propertyCreateHandler(s.listingUC))
			r.Get("/users/{id}/premium", userPremiumHandler(s.premiumUC))
			r.Get("/activity", activityHandler(s.activity))

			r.Post("/plans", planCreateHandler(s.planUC))
			r.Put("/plans/{id}", planUpdateHandler(s.planUC))
			r.Delete("/plans/{id}", planDeleteHandler(s.planUC))
		})
	})
}

// sessionMiddleware admits requests that carry a valid admin JWT,
// minted by the login endpoint.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth == nil {
			s.log.Error().Msg("admin auth is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// loginHandler exchanges the static admin API key for a session JWT.
func loginHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		var req struct {
			APIKey string `json:"api_key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.APIKey != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		token, err := s.auth.Mint(w)
		if err != nil {
			s.log.Error().Err(err).Msg("mint admin session")
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
	}
}
