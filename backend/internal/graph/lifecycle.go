package graph

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"sentigraph/backend/internal/constants"
	"sentigraph/backend/pkg/config"
	apperrors "sentigraph/backend/pkg/errors"
	"sentigraph/backend/pkg/logger"
)

// Service bundles the mutator and query engine over one store
type Service struct {
	*Mutator
	*QueryEngine
}

// NewService wires a mutator and a query engine to the same store
func NewService(store Store, recorder Recorder) *Service {
	return &Service{
		Mutator:     NewMutator(store, recorder),
		QueryEngine: NewQueryEngine(store, recorder),
	}
}

// OpenStore builds the store selected by configuration
func OpenStore(cfg *config.Config) (Store, error) {
	if cfg.ResolvedBackend() == config.BackendNeo4j {
		return NewNeo4jStore(cfg.Neo4j)
	}
	return NewMemoryStore(), nil
}

// Manager owns the process-wide store. Start opens it and runs the startup
// checks, Service hands it out, Close tears it down. Failed startup leaves
// the graph unavailable without stopping the process; Service retries the
// checks at most once per StartupRetryInterval.
//
// Startup I/O never runs under mu: Ready and Backend answer immediately
// while a retry is in flight, and concurrent retries share one attempt.
type Manager struct {
	open           func() (Store, error)
	recorder       Recorder
	logger         *zap.Logger
	startupTimeout time.Duration
	startup        singleflight.Group
	ready          atomic.Bool

	mu          sync.Mutex
	store       Store
	service     *Service
	closed      bool
	lastAttempt time.Time
	lastErr     error
	now         func() time.Time
}

// NewManager creates a manager for the backend selected by cfg
func NewManager(cfg *config.Config, recorder Recorder) *Manager {
	return newManager(func() (Store, error) { return OpenStore(cfg) }, recorder)
}

// NewManagerWithStore creates a manager around an already built store
func NewManagerWithStore(store Store, recorder Recorder) *Manager {
	return newManager(func() (Store, error) { return store, nil }, recorder)
}

func newManager(open func() (Store, error), recorder Recorder) *Manager {
	return &Manager{
		open:           open,
		recorder:       recorder,
		logger:         logger.Get(),
		startupTimeout: constants.StartupTimeout,
		now:            time.Now,
	}
}

// Start verifies connectivity and declares the uniqueness constraints.
// The error is informational: callers log it and keep serving.
func (m *Manager) Start(ctx context.Context) error {
	_, err, _ := m.startup.Do("start", func() (any, error) {
		return nil, m.start(ctx)
	})
	return err
}

func (m *Manager) start(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrStoreClosed
	}
	m.lastAttempt = m.now()
	store := m.store
	m.mu.Unlock()

	if store == nil {
		opened, err := m.open()
		if err != nil {
			err = apperrors.NewGraphUnreachable("graph", err)
			m.setErr(err)
			m.logger.Warn("Graph store could not be opened - graph features disabled", zap.Error(err))
			return err
		}

		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			_ = opened.Close(ctx)
			return ErrStoreClosed
		}
		m.store = opened
		m.service = NewService(opened, m.recorder)
		m.mu.Unlock()
		store = opened
	}

	ctx, cancel := context.WithTimeout(ctx, m.startupTimeout)
	defer cancel()

	if err := store.VerifyConnectivity(ctx); err != nil {
		return m.fail(store, err)
	}
	if err := store.InitSchema(ctx); err != nil {
		return m.fail(store, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	m.lastErr = nil
	m.ready.Store(true)
	m.logger.Info("Graph store ready", zap.String("backend", store.Backend()))
	return nil
}

func (m *Manager) setErr(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.ready.Store(false)
	m.mu.Unlock()
}

func (m *Manager) fail(store Store, err error) error {
	if !apperrors.IsUnreachable(err) {
		err = apperrors.NewGraphUnreachable(store.Backend(), err)
	}
	m.setErr(err)
	m.logger.Warn("Graph store unavailable - graph features disabled",
		zap.String("backend", store.Backend()),
		zap.Error(err),
	)
	return err
}

// Service returns the graph service, re-attempting startup if the store is
// unavailable. The error is an ErrGraphUnreachable while the graph stays down.
// A caller whose context ends while a retry is in flight stops waiting; the
// retry itself runs to completion under StartupTimeout.
func (m *Manager) Service(ctx context.Context) (*Service, error) {
	m.mu.Lock()
	switch {
	case m.closed:
		m.mu.Unlock()
		return nil, ErrStoreClosed
	case m.ready.Load():
		svc := m.service
		m.mu.Unlock()
		return svc, nil
	case m.lastErr != nil && !m.lastAttempt.IsZero() && m.now().Sub(m.lastAttempt) < constants.StartupRetryInterval:
		err := m.lastErr
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	ch := m.startup.DoChan("start", func() (any, error) {
		return nil, m.start(detached)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
	case <-ctx.Done():
		return nil, apperrors.NewContextCancelled("graph_startup", ctx.Err())
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.service, nil
}

// Ready reports whether the last startup attempt succeeded
func (m *Manager) Ready() bool {
	return m.ready.Load()
}

// Backend names the configured backend, or "" before the store is opened
func (m *Manager) Backend() string {
	m.mu.Lock()
	store := m.store
	m.mu.Unlock()
	if store == nil {
		return ""
	}
	return store.Backend()
}

// Close releases the store. Safe to call more than once.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.ready.Store(false)
	store := m.store
	m.mu.Unlock()

	if store == nil {
		return nil
	}
	if err := store.Close(ctx); err != nil {
		return err
	}
	m.logger.Info("Graph store closed", zap.String("backend", store.Backend()))
	return nil
}
