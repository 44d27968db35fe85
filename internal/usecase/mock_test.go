//go:build !integration

// File: internal/usecase/mock_test.go
package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"property-marketplace/internal/domain"
	"property-marketplace/internal/domain/model"
	"property-marketplace/internal/domain/ports/adapter"
	"property-marketplace/internal/domain/ports/repository"
)

// --- Mock PaymentRepository

type MockPaymentRepo struct {
	mu      sync.Mutex
	data    map[string]*model.PaymentRecord // by id
	byTxn   map[string]string               // transaction id -> id
	byOrder map[string]string               // external order id -> id

	SaveFunc                func(ctx context.Context, tx repository.Tx, p *model.PaymentRecord) error
	FindByTransactionIDFunc func(ctx context.Context, tx repository.Tx, transactionID string) (*model.PaymentRecord, error)
	FindByOrderRefFunc      func(ctx context.Context, tx repository.Tx, externalOrderID string) (*model.PaymentRecord, error)
	MarkPaidIfUnpaidFunc    func(ctx context.Context, tx repository.Tx, id, transactionID string, method *string, paidAt time.Time) (bool, error)
	MarkFailedIfUnpaidFunc  func(ctx context.Context, tx repository.Tx, id, transactionID string) (bool, error)
	SumPaidByPeriodFunc     func(ctx context.Context, tx repository.Tx, period string) (int64, error)
}

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{
		data:    map[string]*model.PaymentRecord{},
		byTxn:   map[string]string{},
		byOrder: map[string]string{},
	}
}

func (r *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.PaymentRecord) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, p)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	r.data[p.ID] = &cp
	if p.TransactionID != nil && *p.TransactionID != "" {
		r.byTxn[*p.TransactionID] = p.ID
	}
	if p.ExternalOrderID != "" {
		r.byOrder[p.ExternalOrderID] = p.ID
	}
	return nil
}

func (r *MockPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.data[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockPaymentRepo) FindByTransactionID(ctx context.Context, tx repository.Tx, transactionID string) (*model.PaymentRecord, error) {
	if r.FindByTransactionIDFunc != nil {
		return r.FindByTransactionIDFunc(ctx, tx, transactionID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byTxn[transactionID]; ok {
		cp := *r.data[id]
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockPaymentRepo) FindByOrderRef(ctx context.Context, tx repository.Tx, externalOrderID string) (*model.PaymentRecord, error) {
	if r.FindByOrderRefFunc != nil {
		return r.FindByOrderRefFunc(ctx, tx, externalOrderID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byOrder[externalOrderID]; ok {
		cp := *r.data[id]
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockPaymentRepo) MarkPaidIfUnpaid(ctx context.Context, tx repository.Tx, id, transactionID string, method *string, paidAt time.Time) (bool, error) {
	if r.MarkPaidIfUnpaidFunc != nil {
		return r.MarkPaidIfUnpaidFunc(ctx, tx, id, transactionID, method, paidAt)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data[id]
	if !ok {
		return false, nil
	}
	if p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.Status = model.PaymentStatusPaid
	p.TransactionID = &transactionID
	r.byTxn[transactionID] = id
	if method != nil {
		p.PaymentMethod = method
	}
	p.PaymentDate = &paidAt
	return true, nil
}

func (r *MockPaymentRepo) MarkFailedIfUnpaid(ctx context.Context, tx repository.Tx, id, transactionID string) (bool, error) {
	if r.MarkFailedIfUnpaidFunc != nil {
		return r.MarkFailedIfUnpaidFunc(ctx, tx, id, transactionID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data[id]
	if !ok {
		return false, nil
	}
	if p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.Status = model.PaymentStatusFailed
	if transactionID != "" {
		p.TransactionID = &transactionID
		r.byTxn[transactionID] = id
	}
	return true, nil
}

func (r *MockPaymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.PaymentRecord
	for _, p := range r.data {
		if p.Status == model.PaymentStatusPending && p.CreatedAt.Before(olderThan) {
			cp := *p
			out = append(out, &cp)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *MockPaymentRepo) SumPaidByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	if r.SumPaidByPeriodFunc != nil {
		return r.SumPaidByPeriodFunc(ctx, tx, period)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, p := range r.data {
		if p.Status == model.PaymentStatusPaid {
			sum += p.Amount
		}
	}
	return sum, nil
}

// --- Mock PremiumListingRepository

type MockPremiumRepo struct {
	mu   sync.Mutex
	data map[string]*model.PremiumListing // by id

	FindByPropertyAndPaymentFunc func(ctx context.Context, tx repository.Tx, propertyID, paymentID string) (*model.PremiumListing, error)
	ActivateIfPendingFunc        func(ctx context.Context, tx repository.Tx, id string, start, end time.Time) (bool, error)
	ExpireOverdueFunc            func(ctx context.Context, tx repository.Tx, now time.Time) ([]*model.PremiumListing, error)
	HasActiveForPropertyFunc     func(ctx context.Context, tx repository.Tx, propertyID string) (bool, error)
	IncrementCounterFunc         func(ctx context.Context, tx repository.Tx, id string, counter repository.PremiumCounter, delta int64) error
}

var _ repository.PremiumListingRepository = (*MockPremiumRepo)(nil)

func NewMockPremiumRepo() *MockPremiumRepo {
	return &MockPremiumRepo{data: map[string]*model.PremiumListing{}}
}

func (r *MockPremiumRepo) Save(ctx context.Context, tx repository.Tx, pl *model.PremiumListing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pl.ID == "" {
		pl.ID = uuid.NewString()
	}
	cp := *pl
	r.data[pl.ID] = &cp
	return nil
}

func (r *MockPremiumRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PremiumListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pl, ok := r.data[id]; ok {
		cp := *pl
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockPremiumRepo) FindByPropertyAndPayment(ctx context.Context, tx repository.Tx, propertyID, paymentID string) (*model.PremiumListing, error) {
	if r.FindByPropertyAndPaymentFunc != nil {
		return r.FindByPropertyAndPaymentFunc(ctx, tx, propertyID, paymentID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pl := range r.data {
		if pl.PropertyID == propertyID && pl.PaymentID == paymentID {
			cp := *pl
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockPremiumRepo) ActivateIfPending(ctx context.Context, tx repository.Tx, id string, start, end time.Time) (bool, error) {
	if r.ActivateIfPendingFunc != nil {
		return r.ActivateIfPendingFunc(ctx, tx, id, start, end)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	pl, ok := r.data[id]
	if !ok || pl.Status != model.PremiumStatusPending {
		return false, nil
	}
	pl.Status = model.PremiumStatusActive
	pl.StartDate = &start
	pl.EndDate = &end
	return true, nil
}

func (r *MockPremiumRepo) ExpireOverdue(ctx context.Context, tx repository.Tx, now time.Time) ([]*model.PremiumListing, error) {
	if r.ExpireOverdueFunc != nil {
		return r.ExpireOverdueFunc(ctx, tx, now)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.PremiumListing
	for _, pl := range r.data {
		if pl.Status == model.PremiumStatusActive && pl.EndDate != nil && pl.EndDate.Before(now) {
			pl.Status = model.PremiumStatusExpired
			cp := *pl
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockPremiumRepo) HasActiveForProperty(ctx context.Context, tx repository.Tx, propertyID string) (bool, error) {
	if r.HasActiveForPropertyFunc != nil {
		return r.HasActiveForPropertyFunc(ctx, tx, propertyID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pl := range r.data {
		if pl.PropertyID == propertyID && pl.Status == model.PremiumStatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *MockPremiumRepo) IncrementCounter(ctx context.Context, tx repository.Tx, id string, counter repository.PremiumCounter, delta int64) error {
	if r.IncrementCounterFunc != nil {
		return r.IncrementCounterFunc(ctx, tx, id, counter, delta)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	pl, ok := r.data[id]
	if !ok {
		return domain.ErrNotFound
	}
	switch counter {
	case repository.CounterViews:
		pl.Views += delta
	case repository.CounterInquiries:
		pl.Inquiries += delta
	case repository.CounterFavorites:
		pl.Favorites += delta
	}
	return nil
}

func (r *MockPremiumRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.PremiumListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.PremiumListing
	for _, pl := range r.data {
		if pl.UserID == userID {
			cp := *pl
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockPremiumRepo) CountActive(ctx context.Context, tx repository.Tx) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, pl := range r.data {
		if pl.Status == model.PremiumStatusActive {
			n++
		}
	}
	return n, nil
}

// --- Mock PropertyRepository

type MockPropertyRepo struct {
	mu   sync.Mutex
	data map[string]*model.Property

	SetPromotedFunc func(ctx context.Context, tx repository.Tx, id string, promoted bool) error
}

var _ repository.PropertyRepository = (*MockPropertyRepo)(nil)

func NewMockPropertyRepo() *MockPropertyRepo {
	return &MockPropertyRepo{data: map[string]*model.Property{}}
}

func (r *MockPropertyRepo) Save(ctx context.Context, tx repository.Tx, p *model.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	r.data[p.ID] = &cp
	return nil
}

func (r *MockPropertyRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.data[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockPropertyRepo) SetPromoted(ctx context.Context, tx repository.Tx, id string, promoted bool) error {
	if r.SetPromotedFunc != nil {
		return r.SetPromotedFunc(ctx, tx, id, promoted)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.IsPromoted = promoted
	return nil
}

func (r *MockPropertyRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Property
	for _, p := range r.data {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MockPropertyRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data), nil
}

// --- Mock PremiumPlanRepository

type MockPlanRepo struct {
	mu   sync.Mutex
	data map[string]*model.PremiumPlan

	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.PremiumPlan, error)
}

var _ repository.PremiumPlanRepository = (*MockPlanRepo)(nil)

func NewMockPlanRepo() *MockPlanRepo {
	return &MockPlanRepo{data: map[string]*model.PremiumPlan{}}
}

func (r *MockPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.PremiumPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	r.data[p.ID] = &cp
	return nil
}

func (r *MockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PremiumPlan, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.data[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.PremiumPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.PremiumPlan
	for _, p := range r.data {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MockPlanRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// --- Mock ActivityLogRepository

type MockActivityRepo struct {
	mu      sync.Mutex
	entries []*model.ActivityLogEntry

	AppendFunc func(ctx context.Context, tx repository.Tx, e *model.ActivityLogEntry) error
}

var _ repository.ActivityLogRepository = (*MockActivityRepo)(nil)

func NewMockActivityRepo() *MockActivityRepo {
	return &MockActivityRepo{}
}

func (r *MockActivityRepo) Append(ctx context.Context, tx repository.Tx, e *model.ActivityLogEntry) error {
	if r.AppendFunc != nil {
		return r.AppendFunc(ctx, tx, e)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *MockActivityRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.ActivityLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*model.ActivityLogEntry, 0, n)
	for i := len(r.entries) - 1; i >= 0 && len(out) < n; i-- {
		cp := *r.entries[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MockActivityRepo) ListByResource(ctx context.Context, tx repository.Tx, resource, resourceID string) ([]*model.ActivityLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ActivityLogEntry
	for _, e := range r.entries {
		if e.Resource == resource && e.ResourceID == resourceID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Entries returns a snapshot for assertions.
func (r *MockActivityRepo) Entries() []*model.ActivityLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.ActivityLogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// --- Mock TransactionManager

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

// WithTx runs the function immediately without a real transaction. Tests
// that need to verify transactional behavior assign WithTxFunc.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// --- Mock EventGuard

type MockEventGuard struct {
	mu       sync.Mutex
	claimed  map[string]bool
	released []string

	FirstDeliveryFunc func(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

var _ repository.EventGuard = (*MockEventGuard)(nil)

func NewMockEventGuard() *MockEventGuard {
	return &MockEventGuard{claimed: map[string]bool{}}
}

func (g *MockEventGuard) FirstDelivery(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if g.FirstDeliveryFunc != nil {
		return g.FirstDeliveryFunc(ctx, key, ttl)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.claimed[key] {
		return false, nil
	}
	g.claimed[key] = true
	return true, nil
}

func (g *MockEventGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.claimed, key)
	g.released = append(g.released, key)
	return nil
}

// --- Mock PaymentGateway

type MockPaymentGateway struct {
	CreateInvoiceFunc func(ctx context.Context, req adapter.InvoiceRequest) (*adapter.Invoice, error)
	FindInvoiceFunc   func(ctx context.Context, externalOrderID string) (*adapter.Invoice, error)
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string { return "mock" }

func (m *MockPaymentGateway) CreateInvoice(ctx context.Context, req adapter.InvoiceRequest) (*adapter.Invoice, error) {
	if m.CreateInvoiceFunc != nil {
		return m.CreateInvoiceFunc(ctx, req)
	}
	return &adapter.Invoice{
		ID:     "txn-" + uuid.NewString(),
		Status: "PENDING",
		PayURL: "https://checkout.example/" + req.ExternalOrderID,
	}, nil
}

func (m *MockPaymentGateway) FindInvoice(ctx context.Context, externalOrderID string) (*adapter.Invoice, error) {
	if m.FindInvoiceFunc != nil {
		return m.FindInvoiceFunc(ctx, externalOrderID)
	}
	return nil, domain.ErrNotFound
}

// --- Mock OpsNotifier

type MockNotifier struct {
	mu    sync.Mutex
	Texts []string
}

var _ adapter.OpsNotifier = (*MockNotifier)(nil)

func (n *MockNotifier) Notify(ctx context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Texts = append(n.Texts, text)
	return nil
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
