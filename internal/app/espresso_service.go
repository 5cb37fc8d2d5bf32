package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/xid"
	"go.uber.org/zap"

	"espresso/internal/domain"
	"espresso/internal/metrics"
)

// Snapshot is the machine state reported after an operation.
type Snapshot struct {
	Status                 string  `json:"status"`
	Beans                  int     `json:"beans"`
	Water                  float64 `json:"water"`
	LitresSinceLastDescale float64 `json:"litres_since_last_descale"`
	Mains                  bool    `json:"mains"`
}

// EspressoService runs machine operations one at a time and journals them.
type EspressoService struct {
	mu      sync.Mutex
	machine *domain.EspressoMachine

	events  domain.EventRepository
	metrics *metrics.Machine
	log     *zap.Logger
	now     func() time.Time
}

// NewEspressoService creates an EspressoService that owns m.
func NewEspressoService(m *domain.EspressoMachine, events domain.EventRepository, mx *metrics.Machine, log *zap.Logger) *EspressoService {
	s := &EspressoService{machine: m, events: events, metrics: mx, log: log, now: time.Now}
	s.mu.Lock()
	s.observe()
	s.mu.Unlock()
	return s
}

// Status returns the machine display text.
func (s *EspressoService) Status(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Status()
}

// Snapshot returns the current machine state.
func (s *EspressoService) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Brew makes quantity espressos and returns the litres made together with
// the state afterwards.
func (s *EspressoService) Brew(ctx context.Context, quantity int) (float64, Snapshot, error) {
	s.mu.Lock()
	made, err := s.machine.MakeEspressos(quantity)
	snap, snapErr := s.after("brew", err)
	s.mu.Unlock()

	s.record(ctx, domain.MachineEvent{Kind: domain.EventBrew, Quantity: quantity, Litres: made}, snap, err)
	if err != nil {
		return 0, Snapshot{}, err
	}
	s.metrics.Brewed.Add(float64(quantity))
	s.metrics.LitresBrewed.Add(made)
	s.log.Info("brewed", zap.Int("quantity", quantity), zap.Float64("litres", made), zap.String("status", snap.Status))
	return made, snap, snapErr
}

// Descale runs a descale cycle.
func (s *EspressoService) Descale(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	err := s.machine.Descale()
	snap, snapErr := s.after("descale", err)
	used := s.machine.Settings().LitresUsedPerDescale
	s.mu.Unlock()

	if err != nil {
		used = 0
	}
	s.record(ctx, domain.MachineEvent{Kind: domain.EventDescale, Litres: used}, snap, err)
	if err != nil {
		return Snapshot{}, err
	}
	s.metrics.Descales.Inc()
	s.log.Info("descaled", zap.String("status", snap.Status))
	return snap, snapErr
}

// AddBeans tops up the beans container.
func (s *EspressoService) AddBeans(ctx context.Context, spoons int) (Snapshot, error) {
	s.mu.Lock()
	err := s.machine.AddBeans(spoons)
	snap, snapErr := s.after("add_beans", err)
	s.mu.Unlock()

	s.record(ctx, domain.MachineEvent{Kind: domain.EventAddBeans, Quantity: spoons}, snap, err)
	if err != nil {
		return Snapshot{}, err
	}
	s.log.Info("beans added", zap.Int("spoons", spoons), zap.Int("beans", snap.Beans))
	return snap, snapErr
}

// AddWater tops up the water container.
func (s *EspressoService) AddWater(ctx context.Context, litres float64) (Snapshot, error) {
	s.mu.Lock()
	err := s.machine.AddWater(litres)
	snap, snapErr := s.after("add_water", err)
	s.mu.Unlock()

	s.record(ctx, domain.MachineEvent{Kind: domain.EventAddWater, Litres: litres}, snap, err)
	if err != nil {
		return Snapshot{}, err
	}
	s.log.Info("water added", zap.Float64("litres", litres), zap.Float64("water", snap.Water))
	return snap, snapErr
}

// RecentEvents returns the most recent journalled operations up to limit.
func (s *EspressoService) RecentEvents(ctx context.Context, limit int) ([]domain.MachineEvent, error) {
	return s.events.ListRecentEvents(ctx, limit)
}

// after updates metrics for an operation and snapshots the machine. Callers
// hold s.mu.
func (s *EspressoService) after(op string, err error) (Snapshot, error) {
	if err != nil {
		s.metrics.Failures.WithLabelValues(op, domain.ErrorKind(err)).Inc()
	}
	s.observe()
	return s.snapshot()
}

func (s *EspressoService) snapshot() (Snapshot, error) {
	snap := Snapshot{
		Status:                 s.machine.Status(),
		LitresSinceLastDescale: s.machine.LitresSinceLastDescale(),
		Mains:                  s.machine.Mains(),
	}
	var err error
	if snap.Beans, err = s.machine.Beans(); err != nil {
		return snap, err
	}
	if snap.Water, err = s.machine.Water(); err != nil {
		return snap, err
	}
	return snap, nil
}

func (s *EspressoService) observe() {
	beans, _ := s.machine.Beans()
	water, _ := s.machine.Water()
	s.metrics.Observe(beans, water, s.machine.LitresSinceLastDescale())
}

// record journals an operation. A journal failure is logged but does not fail
// the operation, which has already changed the machine.
func (s *EspressoService) record(ctx context.Context, e domain.MachineEvent, snap Snapshot, opErr error) {
	e.ID = xid.New().String()
	e.CreatedAt = s.now().UTC()
	e.Status = snap.Status
	e.OK = opErr == nil
	if opErr != nil {
		e.Error = opErr.Error()
		s.log.Warn("machine operation failed",
			zap.String("kind", string(e.Kind)),
			zap.String("error_kind", domain.ErrorKind(opErr)),
			zap.Error(opErr))
	}
	if err := s.events.AddEvent(ctx, e); err != nil {
		s.log.Error("journal event", zap.String("id", e.ID), zap.Error(err))
	}
}
