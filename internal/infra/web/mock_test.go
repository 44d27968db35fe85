//go:build !integration

package web_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"property-marketplace/internal/domain"
	"property-marketplace/internal/domain/model"
	"property-marketplace/internal/domain/ports/repository"
	"property-marketplace/internal/usecase"
)

// --- Mock ReconcileUseCase

type MockReconcile struct {
	mu     sync.Mutex
	Events []*model.PaymentEvent

	ProcessFunc func(ctx context.Context, evt *model.PaymentEvent) (usecase.ReconcileOutcome, error)
}

var _ usecase.ReconcileUseCase = (*MockReconcile)(nil)

func (m *MockReconcile) Process(ctx context.Context, evt *model.PaymentEvent) (usecase.ReconcileOutcome, error) {
	m.mu.Lock()
	m.Events = append(m.Events, evt)
	m.mu.Unlock()
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, evt)
	}
	return usecase.OutcomePaymentConfirmed, nil
}

// --- Mock SourceLimiter

type MockLimiter struct {
	AllowFunc func(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

func (m *MockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, key, limit, window)
	}
	return true, nil
}

// --- Mock StatsUseCase

type MockStats struct {
	TotalsErr error
}

var _ usecase.StatsUseCase = (*MockStats)(nil)

func (m *MockStats) Totals(ctx context.Context) (int, int, error) {
	if m.TotalsErr != nil {
		return 0, 0, m.TotalsErr
	}
	return 12, 3, nil
}

func (m *MockStats) Revenue(ctx context.Context) (int64, int64, int64, error) {
	return 100, 200, 300, nil
}

// --- Mock ListingUseCase

type MockListing struct {
	mu   sync.Mutex
	data map[string]*model.Property

	CreateFunc func(ctx context.Context, ownerID, title, city string, price int64) (*model.Property, error)
}

var _ usecase.ListingUseCase = (*MockListing)(nil)

func NewMockListing() *MockListing {
	return &MockListing{data: map[string]*model.Property{}}
}

func (m *MockListing) Create(ctx context.Context, ownerID, title, city string, price int64) (*model.Property, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ownerID, title, city, price)
	}
	if ownerID == "" || title == "" {
		return nil, domain.ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &model.Property{ID: "prop-1", OwnerID: ownerID, Title: title, City: city, Price: price}
	m.data[p.ID] = p
	return p, nil
}

func (m *MockListing) FindByID(ctx context.Context, id string) (*model.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.data[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrPropertyNotFound
}

func (m *MockListing) List(ctx context.Context, offset, limit int) ([]*model.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Property
	for _, p := range m.data {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockListing) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data), nil
}

// --- Mock PremiumUseCase

type MockPremium struct {
	mu    sync.Mutex
	Views map[string]int

	InitiateUpgradeFunc func(ctx context.Context, userID, propertyID, planID string) (*model.PaymentRecord, string, error)
	ListByUserFunc      func(ctx context.Context, userID string) ([]*model.PremiumListing, error)
}

var _ usecase.PremiumUseCase = (*MockPremium)(nil)

func NewMockPremium() *MockPremium {
	return &MockPremium{Views: map[string]int{}}
}

func (m *MockPremium) InitiateUpgrade(ctx context.Context, userID, propertyID, planID string) (*model.PaymentRecord, string, error) {
	if m.InitiateUpgradeFunc != nil {
		return m.InitiateUpgradeFunc(ctx, userID, propertyID, planID)
	}
	p := &model.PaymentRecord{
		ID:              "pay-1",
		UserID:          userID,
		PropertyID:      propertyID,
		PlanID:          planID,
		ExternalOrderID: "premium-" + propertyID + "-01TEST",
		Status:          model.PaymentStatusPending,
	}
	return p, "https://checkout.example/" + p.ExternalOrderID, nil
}

func (m *MockPremium) ListByUser(ctx context.Context, userID string) ([]*model.PremiumListing, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockPremium) RecordView(ctx context.Context, premiumID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Views[premiumID]++
	return nil
}

func (m *MockPremium) RecordInquiry(ctx context.Context, premiumID string) error  { return nil }
func (m *MockPremium) RecordFavorite(ctx context.Context, premiumID string) error { return nil }
func (m *MockPremium) ExpireOverdue(ctx context.Context) (int, error)             { return 0, nil }

// --- Mock PlanUseCase

type MockPlanUC struct {
	mu   sync.Mutex
	data map[string]*model.PremiumPlan
}

var _ usecase.PlanUseCase = (*MockPlanUC)(nil)

func NewMockPlanUC() *MockPlanUC {
	return &MockPlanUC{data: map[string]*model.PremiumPlan{}}
}

func (m *MockPlanUC) Create(ctx context.Context, name string, durationDays int, price int64, currency string) (*model.PremiumPlan, error) {
	if name == "" || durationDays <= 0 || price <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &model.PremiumPlan{ID: "plan-1", Name: name, DurationDays: durationDays, Price: price, Currency: currency}
	m.data[p.ID] = p
	return p, nil
}

func (m *MockPlanUC) Update(ctx context.Context, id, name string, durationDays int, price int64, currency string) (*model.PremiumPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.data[id]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	p.Name, p.DurationDays, p.Price, p.Currency = name, durationDays, price, currency
	cp := *p
	return &cp, nil
}

func (m *MockPlanUC) FindByID(ctx context.Context, id string) (*model.PremiumPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.data[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrPlanNotFound
}

func (m *MockPlanUC) List(ctx context.Context) ([]*model.PremiumPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PremiumPlan
	for _, p := range m.data {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockPlanUC) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[id]; !ok {
		return domain.ErrPlanNotFound
	}
	delete(m.data, id)
	return nil
}

// --- Mock ActivityLogRepository

type MockActivity struct {
	mu      sync.Mutex
	entries []*model.ActivityLogEntry
}

var _ repository.ActivityLogRepository = (*MockActivity)(nil)

func (m *MockActivity) Append(ctx context.Context, tx repository.Tx, e *model.ActivityLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *MockActivity) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.ActivityLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.ActivityLogEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *MockActivity) ListByResource(ctx context.Context, tx repository.Tx, resource, resourceID string) ([]*model.ActivityLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ActivityLogEntry
	for _, e := range m.entries {
		if e.Resource == resource && e.ResourceID == resourceID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
