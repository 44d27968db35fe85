package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"property-marketplace/internal/domain/model"
	"property-marketplace/internal/infra/metrics"
	"property-marketplace/internal/infra/payment"
	"property-marketplace/internal/usecase"
)

// SourceLimiter caps webhook deliveries per remote source. Optional.
type SourceLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// WebhookHandler is the gateway-facing reconciliation endpoint. It owns the
// transport contract (CORS, method handling, token verification, response
// shape); all business decisions live in the reconcile use case.
type WebhookHandler struct {
	reconcile     usecase.ReconcileUseCase
	callbackToken string
	limiter       SourceLimiter // nil disables throttling
	rateLimit     int
	rateWindow    time.Duration
	log           *zerolog.Logger
}

func NewWebhookHandler(reconcile usecase.ReconcileUseCase, callbackToken string, limiter SourceLimiter, rateLimit int, rateWindow time.Duration, logger *zerolog.Logger) *WebhookHandler {
	l := logger.With().Str("component", "WebhookHandler").Logger()
	return &WebhookHandler{
		reconcile:     reconcile,
		callbackToken: callbackToken,
		limiter:       limiter,
		rateLimit:     rateLimit,
		rateWindow:    rateWindow,
		log:           &l,
	}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Callback-Token")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	if !payment.VerifyCallbackToken(h.callbackToken, r.Header.Get("X-Callback-Token")) {
		metrics.IncWebhookRejected("bad_token")
		h.log.Warn().Str("remote", r.RemoteAddr).Msg("webhook rejected: invalid callback token")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid callback token"})
		return
	}

	ctx := r.Context()
	if h.limiter != nil {
		ok, err := h.limiter.Allow(ctx, "rate_limit:webhook:"+r.RemoteAddr, h.rateLimit, h.rateWindow)
		if err != nil {
			// Throttling is advisory; never drop a delivery because Redis is down.
			h.log.Warn().Err(err).Msg("webhook rate limiter unavailable")
		} else if !ok {
			metrics.IncWebhookRejected("throttled")
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
			return
		}
	}

	var evt model.PaymentEvent
	if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
		// Undecodable payloads surface as 500 so the gateway retries them.
		h.log.Error().Err(err).Msg("webhook payload decode failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	outcome, err := h.reconcile.Process(ctx, &evt)
	if err != nil {
		h.log.Error().Err(err).
			Str("event_id", evt.ID).
			Str("order_ref", evt.ExternalID).
			Str("status", evt.Status).
			Msg("webhook reconciliation failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.log.Info().
		Str("event_id", evt.ID).
		Str("order_ref", evt.ExternalID).
		Str("status", evt.Status).
		Str("outcome", string(outcome)).
		Msg("webhook processed")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
