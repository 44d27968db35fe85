package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"property-marketplace/internal/domain"
	"property-marketplace/internal/domain/model"
	"property-marketplace/internal/domain/ports/adapter"
	"property-marketplace/internal/domain/ports/repository"
	"property-marketplace/internal/infra/metrics"
)

// ReconcileOutcome classifies what a processed gateway event did.
type ReconcileOutcome string

const (
	OutcomePaymentConfirmed ReconcileOutcome = "payment_confirmed"
	OutcomePremiumActivated ReconcileOutcome = "premium_activated"
	OutcomePaymentFailed    ReconcileOutcome = "payment_failed"
	OutcomeIgnored          ReconcileOutcome = "ignored"       // unrecognized event status
	OutcomeUnknownOrder     ReconcileOutcome = "unknown_order" // failure event for an order we no longer track
	OutcomeDuplicate        ReconcileOutcome = "duplicate"     // short-circuited by the event guard
)

// Compile-time check
var _ ReconcileUseCase = (*reconcileUC)(nil)

// ReconcileUseCase applies gateway payment events to the payment record,
// premium listing, property promotion flag and activity log. Processing is
// idempotent: redelivered, duplicated or out-of-order events converge to
// the same end state without double-logging or double-mutating.
type ReconcileUseCase interface {
	Process(ctx context.Context, evt *model.PaymentEvent) (ReconcileOutcome, error)
}

type reconcileUC struct {
	payments   repository.PaymentRepository
	premiums   repository.PremiumListingRepository
	properties repository.PropertyRepository
	plans      repository.PremiumPlanRepository
	activity   repository.ActivityLogRepository
	tm         repository.TransactionManager
	guard      repository.EventGuard // optional
	notifier   adapter.OpsNotifier   // optional
	log        *zerolog.Logger
}

// guardTTL bounds how long an event key suppresses duplicates. Short by
// intent: the conditional updates stay authoritative beyond this window.
const guardTTL = 2 * time.Minute

func NewReconcileUseCase(
	payments repository.PaymentRepository,
	premiums repository.PremiumListingRepository,
	properties repository.PropertyRepository,
	plans repository.PremiumPlanRepository,
	activity repository.ActivityLogRepository,
	tm repository.TransactionManager,
	guard repository.EventGuard,
	notifier adapter.OpsNotifier,
	logger *zerolog.Logger,
) *reconcileUC {
	l := logger.With().Str("component", "ReconcileUC").Logger()
	return &reconcileUC{
		payments:   payments,
		premiums:   premiums,
		properties: properties,
		plans:      plans,
		activity:   activity,
		tm:         tm,
		guard:      guard,
		notifier:   notifier,
		log:        &l,
	}
}

func (u *reconcileUC) Process(ctx context.Context, evt *model.PaymentEvent) (ReconcileOutcome, error) {
	if err := evt.Validate(); err != nil {
		return "", err
	}

	var (
		outcome ReconcileOutcome
		err     error
	)
	switch {
	case evt.Settled():
		outcome, err = u.processSettled(ctx, evt)
	case evt.Failed():
		outcome, err = u.processFailed(ctx, evt)
	default:
		// Unknown event types are acknowledged without mutation so the
		// gateway does not retry them forever.
		u.log.Info().Str("status", evt.Status).Str("event_id", evt.ID).Msg("unhandled gateway event status, acknowledged")
		outcome = OutcomeIgnored
	}
	if err != nil {
		return "", err
	}
	metrics.IncWebhookEvent(string(outcome))
	return outcome, nil
}

// processSettled handles PAID/SETTLED: two-tier lookup, conditional
// transition to paid, and the premium cascade for fallback matches.
// A correlation miss here is retryable (the checkout insert may not have
// committed yet), so it surfaces as an error.
func (u *reconcileUC) processSettled(ctx context.Context, evt *model.PaymentEvent) (ReconcileOutcome, error) {
	if evt.ExternalID == "" {
		return "", fmt.Errorf("%w: paid event %q without external_id", domain.ErrInvalidArgument, evt.ID)
	}

	guardKey := "payment-event:" + evt.ID
	if u.guard != nil {
		first, err := u.guard.FirstDelivery(ctx, guardKey, guardTTL)
		if err != nil {
			u.log.Warn().Err(err).Msg("event guard unavailable, relying on conditional updates")
		} else if !first {
			u.log.Debug().Str("event_id", evt.ID).Msg("duplicate delivery short-circuited")
			return OutcomeDuplicate, nil
		}
	}

	outcome := OutcomePaymentConfirmed
	var confirmed *model.PaymentRecord
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, fallback, err := u.locate(ctx, tx, evt)
		if err != nil {
			return err
		}

		now := time.Now()
		transitioned, err := u.payments.MarkPaidIfUnpaid(ctx, tx, p.ID, evt.ID, evt.Method(), now)
		if err != nil {
			return err
		}

		// The cascade only fires for fallback matches on a premium order
		// reference: a primary match means this transaction id was already
		// backfilled by an earlier delivery that ran the cascade. It also
		// requires the payment to actually be paid: a late PAID delivery
		// after the payment already failed must not activate anything.
		if fallback && (transitioned || p.Status == model.PaymentStatusPaid) {
			if propertyID, ok := model.ParsePremiumOrderRef(evt.ExternalID); ok {
				activated, err := u.cascadePremium(ctx, tx, propertyID, p, now)
				if err != nil {
					return err
				}
				if activated {
					outcome = OutcomePremiumActivated
				}
			}
		}

		if transitioned {
			confirmed = p
			if err := u.appendLog(ctx, tx, model.ActivityPaymentReceived, evt.ID,
				fmt.Sprintf("Payment received for order %s", evt.ExternalID), now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if u.guard != nil {
			if rerr := u.guard.Release(ctx, guardKey); rerr != nil {
				u.log.Warn().Err(rerr).Msg("event guard release failed")
			}
		}
		return "", err
	}

	if confirmed != nil {
		metrics.IncPayment(string(model.PaymentStatusPaid))
		metrics.AddPaymentRevenue(confirmed.Currency, confirmed.Amount)
		u.notify(ctx, fmt.Sprintf("payment confirmed: order=%s amount=%d %s", evt.ExternalID, confirmed.Amount, confirmed.Currency))
	}
	u.log.Info().
		Str("event_id", evt.ID).
		Str("order_ref", evt.ExternalID).
		Str("outcome", string(outcome)).
		Msg("settled event reconciled")
	return outcome, nil
}

// processFailed handles EXPIRED/FAILED. A correlation miss is benign: a
// failed payment for an order we no longer track is not actionable.
func (u *reconcileUC) processFailed(ctx context.Context, evt *model.PaymentEvent) (ReconcileOutcome, error) {
	var found, transitioned bool
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, _, err := u.locate(ctx, tx, evt)
		if err != nil {
			if errors.Is(err, domain.ErrPaymentNotFound) {
				return nil
			}
			return err
		}
		found = true

		now := time.Now()
		transitioned, err = u.payments.MarkFailedIfUnpaid(ctx, tx, p.ID, evt.ID)
		if err != nil {
			return err
		}
		if !transitioned {
			return nil
		}

		// The linked premium listing stays pending; it never activates.
		action := model.ActivityPaymentFailed
		if evt.Status == model.EventStatusExpired {
			action = model.ActivityPaymentExpired
		}
		return u.appendLog(ctx, tx, action, evt.ID,
			fmt.Sprintf("Payment %s for order %s", evt.Status, evt.ExternalID), now)
	})
	if err != nil {
		return "", err
	}
	if !found {
		u.log.Info().Str("event_id", evt.ID).Str("order_ref", evt.ExternalID).Msg("failure event for unknown order, acknowledged")
		return OutcomeUnknownOrder, nil
	}
	if !transitioned {
		// Already terminal; redelivered failure events change nothing.
		return OutcomeDuplicate, nil
	}
	metrics.IncPayment(string(model.PaymentStatusFailed))
	u.notify(ctx, fmt.Sprintf("payment %s: order=%s", evt.Status, evt.ExternalID))
	return OutcomePaymentFailed, nil
}

// locate resolves the payment record for an event: exact gateway
// transaction id first, then the checkout-assigned order reference.
func (u *reconcileUC) locate(ctx context.Context, tx repository.Tx, evt *model.PaymentEvent) (p *model.PaymentRecord, fallback bool, err error) {
	p, err = u.payments.FindByTransactionID(ctx, tx, evt.ID)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}
	if evt.ExternalID == "" {
		return nil, false, fmt.Errorf("%w: transaction %q", domain.ErrPaymentNotFound, evt.ID)
	}
	p, err = u.payments.FindByOrderRef(ctx, tx, evt.ExternalID)
	if err == nil {
		return p, true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("%w: transaction %q order %q", domain.ErrPaymentNotFound, evt.ID, evt.ExternalID)
	}
	return nil, false, err
}

// cascadePremium activates the premium listing tied to this payment and
// promotes the property. A missing listing is not an error: the payment may
// be unrelated to a premium upgrade.
func (u *reconcileUC) cascadePremium(ctx context.Context, tx repository.Tx, propertyID string, p *model.PaymentRecord, now time.Time) (bool, error) {
	pl, err := u.premiums.FindByPropertyAndPayment(ctx, tx, propertyID, p.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	plan, err := u.plans.FindByID(ctx, tx, pl.PlanID)
	if err != nil {
		return false, err
	}
	end := now.Add(time.Duration(plan.DurationDays) * 24 * time.Hour)

	activated, err := u.premiums.ActivateIfPending(ctx, tx, pl.ID, now, end)
	if err != nil {
		return false, err
	}
	if !activated {
		// Already active (or cancelled): redelivery must not shift the
		// window or touch the promotion flag again.
		return false, nil
	}
	if err := u.properties.SetPromoted(ctx, tx, propertyID, true); err != nil {
		return false, err
	}
	metrics.IncPremiumActivated()
	return true, nil
}

func (u *reconcileUC) appendLog(ctx context.Context, tx repository.Tx, action model.ActivityAction, resourceID, details string, now time.Time) error {
	return u.activity.Append(ctx, tx, &model.ActivityLogEntry{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Action:     action,
		Resource:   "payments",
		ResourceID: resourceID,
		Details:    details,
		CreatedAt:  now,
	})
}

func (u *reconcileUC) notify(ctx context.Context, text string) {
	if u.notifier == nil {
		return
	}
	if err := u.notifier.Notify(ctx, text); err != nil {
		u.log.Warn().Err(err).Msg("ops notification failed")
	}
}
