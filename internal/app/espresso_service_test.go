package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"espresso/internal/app"
	"espresso/internal/domain"
	"espresso/internal/metrics"
)

type mockEventRepo struct {
	mu     sync.Mutex
	events []domain.MachineEvent
	addFn  func(ctx context.Context, e domain.MachineEvent) error
	listFn func(ctx context.Context, limit int) ([]domain.MachineEvent, error)
}

func (m *mockEventRepo) AddEvent(ctx context.Context, e domain.MachineEvent) error {
	if m.addFn != nil {
		return m.addFn(ctx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *mockEventRepo) ListRecentEvents(ctx context.Context, limit int) ([]domain.MachineEvent, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return nil, nil
}

type fixture struct {
	svc     *app.EspressoService
	repo    *mockEventRepo
	metrics *metrics.Machine
	logs    *observer.ObservedLogs
}

func newFixture(t *testing.T, s domain.Settings, mains bool) *fixture {
	t.Helper()
	m, err := app.NewMachine(s, mains)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	repo := &mockEventRepo{}
	mx := metrics.New(prometheus.NewRegistry())
	return &fixture{
		svc:     app.NewEspressoService(m, repo, mx, zap.New(core)),
		repo:    repo,
		metrics: mx,
		logs:    logs,
	}
}

func TestNewMachine_StartsFull(t *testing.T) {
	for _, mains := range []bool{false, true} {
		m, err := app.NewMachine(domain.DefaultSettings(), mains)
		require.NoError(t, err)
		beans, _ := m.Beans()
		water, _ := m.Water()
		assert.Equal(t, 50, beans)
		assert.Equal(t, 2.0, water)
		assert.Equal(t, "40 Espressos Left", m.Status())
	}
}

func TestNewMachine_InvalidSettings(t *testing.T) {
	s := domain.DefaultSettings()
	s.LitresPerEspresso = 0
	_, err := app.NewMachine(s, false)
	require.Error(t, err)
}

func TestBrew_Success(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), false)

	made, snap, err := f.svc.Brew(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0.05, made)
	assert.Equal(t, app.Snapshot{
		Status:                 "39 Espressos Left",
		Beans:                  49,
		Water:                  1.95,
		LitresSinceLastDescale: -0.05,
	}, snap)

	require.Len(t, f.repo.events, 1)
	e := f.repo.events[0]
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, domain.EventBrew, e.Kind)
	assert.True(t, e.OK)
	assert.Equal(t, 1, e.Quantity)
	assert.Equal(t, "39 Espressos Left", e.Status)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Brewed))
	assert.Equal(t, 49.0, testutil.ToFloat64(f.metrics.Beans))
	assert.Equal(t, 1.95, testutil.ToFloat64(f.metrics.Water))
	assert.Equal(t, 1, f.logs.FilterMessage("brewed").Len())
}

func TestBrew_Failure(t *testing.T) {
	s := domain.DefaultSettings()
	s.WaterCapacity = 0.04
	s.BeansCapacity = 10
	f := newFixture(t, s, false)

	_, _, err := f.svc.Brew(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrNoWater)

	snap, err := f.svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, snap.Beans)
	assert.Equal(t, domain.StatusAddWater, snap.Status)

	require.Len(t, f.repo.events, 1)
	assert.False(t, f.repo.events[0].OK)
	assert.Contains(t, f.repo.events[0].Error, "not enough water")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Failures.WithLabelValues("brew", "no_water")))
	assert.Equal(t, 1, f.logs.FilterMessage("machine operation failed").Len())
}

func TestBrew_InvalidQuantity(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), false)
	_, _, err := f.svc.Brew(context.Background(), 0)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, "40 Espressos Left", f.svc.Status(context.Background()))
}

func TestBrew_JournalFailureDoesNotFailBrew(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), false)
	f.repo.addFn = func(_ context.Context, _ domain.MachineEvent) error {
		return errors.New("disk full")
	}

	_, snap, err := f.svc.Brew(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 48, snap.Beans)
	assert.Equal(t, 1, f.logs.FilterMessage("journal event").Len())
}

func TestBrew_Serialized(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), false)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := f.svc.Brew(context.Background(), 1); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	snap, err := f.svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, ok, "2 litres make exactly 40 espressos")
	assert.Equal(t, 0.0, snap.Water)
	assert.Len(t, f.repo.events, 60)
}

func TestDescale(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), false)

	snap, err := f.svc.Descale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, snap.Water)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Descales))
	require.Len(t, f.repo.events, 1)
	assert.Equal(t, 1.0, f.repo.events[0].Litres)

	_, err = f.svc.Descale(context.Background())
	require.NoError(t, err)
	_, err = f.svc.Descale(context.Background())
	require.ErrorIs(t, err, domain.ErrNoWater)
	assert.Equal(t, 0.0, f.repo.events[2].Litres)
}

func TestAddBeansAndWater(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), false)
	ctx := context.Background()

	_, err := f.svc.AddBeans(ctx, 1)
	require.ErrorIs(t, err, domain.ErrContainerFull)

	_, _, err = f.svc.Brew(ctx, 4)
	require.NoError(t, err)

	snap, err := f.svc.AddBeans(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 50, snap.Beans)

	snap, err = f.svc.AddWater(ctx, 0.2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, snap.Water)

	kinds := make([]domain.EventKind, 0, len(f.repo.events))
	for _, e := range f.repo.events {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []domain.EventKind{domain.EventAddBeans, domain.EventBrew, domain.EventAddBeans, domain.EventAddWater}, kinds)
}

func TestAddWater_Mains(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), true)
	_, err := f.svc.AddWater(context.Background(), 0)
	require.ErrorIs(t, err, domain.ErrMainsSupply)
}

func TestRecentEvents(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), false)
	f.repo.listFn = func(_ context.Context, limit int) ([]domain.MachineEvent, error) {
		if limit != 5 {
			t.Fatalf("expected limit 5, got %d", limit)
		}
		return []domain.MachineEvent{{ID: "a"}}, nil
	}
	items, err := f.svc.RecentEvents(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
