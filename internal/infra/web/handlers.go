package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"property-marketplace/internal/domain"
	"property-marketplace/internal/domain/model"
	"property-marketplace/internal/domain/ports/repository"
	"property-marketplace/internal/usecase"
)

// statsHandler serves marketplace totals and premium revenue.
func statsHandler(statsUC usecase.StatsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		properties, activePremium, err := statsUC.Totals(ctx)
		if err != nil {
			http.Error(w, "Failed to get totals", http.StatusInternalServerError)
			return
		}

		week, month, year, err := statsUC.Revenue(ctx)
		if err != nil {
			http.Error(w, "Failed to get revenue", http.StatusInternalServerError)
			return
		}

		response := struct {
			TotalProperties int `json:"total_properties"`
			ActivePremium   int `json:"active_premium"`
			Revenue         struct {
				Week  int64 `json:"week"`
				Month int64 `json:"month"`
				Year  int64 `json:"year"`
			} `json:"revenue"`
		}{
			TotalProperties: properties,
			ActivePremium:   activePremium,
		}
		response.Revenue.Week = week
		response.Revenue.Month = month
		response.Revenue.Year = year

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// propertiesListHandler returns a paginated property list, promoted first.
// It accepts 'offset' and 'limit' query parameters.
func propertiesListHandler(listingUC usecase.ListingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 50
		}
		if offset < 0 {
			offset = 0
		}

		properties, err := listingUC.List(ctx, offset, limit)
		if err != nil {
			http.Error(w, "Failed to list properties", http.StatusInternalServerError)
			return
		}

		total, err := listingUC.Count(ctx)
		if err != nil {
			http.Error(w, "Failed to count properties", http.StatusInternalServerError)
			return
		}

		response := struct {
			Data   []*model.Property `json:"data"`
			Total  int               `json:"total"`
			Limit  int               `json:"limit"`
			Offset int               `json:"offset"`
		}{
			Data:   properties,
			Total:  total,
			Limit:  limit,
			Offset: offset,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func propertyGetHandler(listingUC usecase.ListingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Property ID is required", http.StatusBadRequest)
			return
		}

		property, err := listingUC.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrPropertyNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "Failed to get property", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(property)
	}
}

type propertyCreateRequest struct {
	OwnerID string `json:"owner_id"`
	Title   string `json:"title"`
	City    string `json:"city"`
	Price   int64  `json:"price"`
}

func propertyCreateHandler(listingUC usecase.ListingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req propertyCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		property, err := listingUC.Create(ctx, req.OwnerID, req.Title, req.City, req.Price)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "Failed to create property", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(property)
	}
}

type upgradeRequest struct {
	UserID string `json:"user_id"`
	PlanID string `json:"plan_id"`
}

// upgradeHandler starts a premium upgrade: it creates the pending payment
// and returns the gateway redirect URL.
func upgradeHandler(premiumUC usecase.PremiumUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		propertyID := chi.URLParam(r, "id")
		var req upgradeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		payment, payURL, err := premiumUC.InitiateUpgrade(ctx, req.UserID, propertyID, req.PlanID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrPropertyNotFound), errors.Is(err, domain.ErrPlanNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, domain.ErrNotPropertyOwner), errors.Is(err, domain.ErrInvalidArgument):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "Failed to start upgrade", http.StatusInternalServerError)
			}
			return
		}

		response := struct {
			PaymentID string `json:"payment_id"`
			OrderRef  string `json:"order_ref"`
			PayURL    string `json:"pay_url"`
		}{
			PaymentID: payment.ID,
			OrderRef:  payment.ExternalOrderID,
			PayURL:    payURL,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// trackHandler records an engagement event against a premium listing.
// Counter writes are fire-and-forget through the worker pool so a slow
// database never blocks the page render that triggered the event.
func trackHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		premiumID := chi.URLParam(r, "id")
		event := chi.URLParam(r, "event")

		var record func(ctx context.Context, id string) error
		switch event {
		case "view":
			record = s.premiumUC.RecordView
		case "inquiry":
			record = s.premiumUC.RecordInquiry
		case "favorite":
			record = s.premiumUC.RecordFavorite
		default:
			http.Error(w, "Unknown event", http.StatusBadRequest)
			return
		}

		task := func(ctx context.Context) error {
			return record(ctx, premiumID)
		}
		if s.pool != nil {
			if err := s.pool.Submit(task); err != nil {
				s.log.Warn().Err(err).Str("premium_id", premiumID).Msg("track event dropped")
			}
		} else if err := task(r.Context()); err != nil {
			s.log.Warn().Err(err).Str("premium_id", premiumID).Msg("track event failed")
		}

		w.WriteHeader(http.StatusAccepted)
	}
}

func userPremiumHandler(premiumUC usecase.PremiumUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := chi.URLParam(r, "id")
		if userID == "" {
			http.Error(w, "User ID is required", http.StatusBadRequest)
			return
		}

		listings, err := premiumUC.ListByUser(ctx, userID)
		if err != nil {
			http.Error(w, "Failed to list premium listings", http.StatusInternalServerError)
			return
		}

		response := struct {
			Data []*model.PremiumListing `json:"data"`
		}{Data: listings}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// activityHandler tails the activity log. It accepts a 'limit' query
// parameter and an optional resource/resource_id filter pair.
func activityHandler(activity repository.ActivityLogRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		resource := r.URL.Query().Get("resource")
		resourceID := r.URL.Query().Get("resource_id")

		var (
			entries []*model.ActivityLogEntry
			err     error
		)
		if resource != "" && resourceID != "" {
			entries, err = activity.ListByResource(ctx, repository.NoTX, resource, resourceID)
		} else {
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			if limit <= 0 {
				limit = 100
			}
			entries, err = activity.ListRecent(ctx, repository.NoTX, limit)
		}
		if err != nil {
			http.Error(w, "Failed to read activity log", http.StatusInternalServerError)
			return
		}

		response := struct {
			Data []*model.ActivityLogEntry `json:"data"`
		}{Data: entries}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

type planRequest struct {
	Name         string `json:"name"`
	DurationDays int    `json:"duration_days"`
	Price        int64  `json:"price"`
	Currency     string `json:"currency"`
}

func planCreateHandler(planUC usecase.PlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req planRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		plan, err := planUC.Create(ctx, req.Name, req.DurationDays, req.Price, req.Currency)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "Failed to create plan", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(plan)
	}
}

func planUpdateHandler(planUC usecase.PlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id := chi.URLParam(r, "id")
		var req planRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		plan, err := planUC.Update(ctx, id, req.Name, req.DurationDays, req.Price, req.Currency)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrPlanNotFound):
				http.NotFound(w, r)
			case errors.Is(err, domain.ErrInvalidArgument):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "Failed to update plan", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(plan)
	}
}

func planDeleteHandler(planUC usecase.PlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id := chi.URLParam(r, "id")
		if err := planUC.Delete(ctx, id); err != nil {
			if errors.Is(err, domain.ErrPlanNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "Failed to delete plan", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func plansListHandler(planUC usecase.PlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		plans, err := planUC.List(ctx)
		if err != nil {
			http.Error(w, "Failed to list plans", http.StatusInternalServerError)
			return
		}

		response := struct {
			Data []*model.PremiumPlan `json:"data"`
		}{Data: plans}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}
