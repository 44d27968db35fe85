package sched

import (
	"context"
	"errors"
	"log"
	"time"

	"property-marketplace/internal/domain"
	"property-marketplace/internal/domain/model"
	"property-marketplace/internal/domain/ports/adapter"
	"property-marketplace/internal/domain/ports/repository"
	"property-marketplace/internal/usecase"
)

// PaymentReconciler periodically scans for stale pending payments and asks the
// gateway what happened to their invoices. Terminal invoices are pushed through
// the same reconcile path the webhook uses, so a lost callback converges to the
// exact same state as a delivered one.
type PaymentReconciler struct {
	uc         usecase.ReconcileUseCase
	payments   repository.PaymentRepository
	gateway    adapter.PaymentGateway
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a pending payment must be to retry
}

func NewPaymentReconciler(uc usecase.ReconcileUseCase, payments repository.PaymentRepository, gateway adapter.PaymentGateway, interval, staleAfter time.Duration) *PaymentReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	return &PaymentReconciler{uc: uc, payments: payments, gateway: gateway, interval: interval, staleAfter: staleAfter}
}

func (w *PaymentReconciler) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *PaymentReconciler) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	pending, err := w.payments.ListPendingOlderThan(ctx, nil, cutoff, 200)
	if err != nil {
		log.Printf("payment-reconciler: list pending error: %v", err)
		return
	}
	for _, p := range pending {
		if p.ExternalOrderID == "" {
			continue
		}
		inv, err := w.gateway.FindInvoice(ctx, p.ExternalOrderID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			log.Printf("payment-reconciler: gateway lookup failed payment=%s order=%s err=%v", p.ID, p.ExternalOrderID, err)
			continue
		}

		evt := &model.PaymentEvent{
			ID:            inv.ID,
			ExternalID:    p.ExternalOrderID,
			Status:        inv.Status,
			PaymentMethod: inv.PaymentMethod,
		}
		if !evt.Settled() && !evt.Failed() {
			continue
		}
		outcome, err := w.uc.Process(ctx, evt)
		if err != nil {
			log.Printf("payment-reconciler: reconcile failed payment=%s order=%s err=%v", p.ID, p.ExternalOrderID, err)
			continue
		}
		log.Printf("payment-reconciler: reconciled payment=%s outcome=%s", p.ID, outcome)
	}
}
