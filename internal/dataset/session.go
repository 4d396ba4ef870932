package dataset

import (
	"antigenseq/internal/core"
	"antigenseq/internal/registry"
	"antigenseq/pkg/domain"
	"context"
	"errors"
	"fmt"
)

// Session owns one resolver and the dataset currently registered in it.
type Session struct {
	resolver *core.Resolver
	engine   *domain.RulesEngine
	logger   core.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRulesEngine replaces the default audit rules.
func WithRulesEngine(engine *domain.RulesEngine) SessionOption {
	return func(s *Session) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithSessionLogger sets the session logger.
func WithSessionLogger(l core.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession wraps resolver. A nil resolver gets a fresh registry and
// default options.
func NewSession(resolver *core.Resolver, opts ...SessionOption) *Session {
	if resolver == nil {
		resolver = core.NewResolver(registry.New())
	}
	s := &Session{resolver: resolver, logger: discardLogger{}}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = core.NewDefaultRulesEngine(resolver)
	}
	return s
}

// Resolver returns the session resolver.
func (s *Session) Resolver() *core.Resolver { return s.resolver }

// Load replaces the registered dataset with the records from src. Records are
// checked against a scratch registry first, so a rejected dataset leaves the
// previous session in place.
func (s *Session) Load(ctx context.Context, src domain.RecordSource) (int, error) {
	if src == nil {
		return 0, errors.New("dataset session: nil record source")
	}
	records, err := src.LoadRecords(ctx)
	if err != nil {
		return 0, err
	}
	scratch := registry.New()
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := scratch.Register(rec); err != nil {
			return 0, fmt.Errorf("register %s: %w", rec.ID, err)
		}
	}
	s.resolver.Reset()
	reg := s.resolver.Registry()
	for _, rec := range scratch.ListRecords() {
		if err := reg.Register(rec); err != nil {
			return 0, fmt.Errorf("register %s: %w", rec.ID, err)
		}
	}
	s.logger.Info("dataset loaded", "records", len(records), "generation", reg.Generation())
	return len(records), nil
}

// Restore loads the snapshot held by store.
func (s *Session) Restore(ctx context.Context, store domain.PersistentStore) (int, error) {
	if store == nil {
		return 0, errors.New("dataset session: nil store")
	}
	return s.Load(ctx, store)
}

// Save snapshots the registered records into store.
func (s *Session) Save(ctx context.Context, store domain.PersistentStore) error {
	if store == nil {
		return errors.New("dataset session: nil store")
	}
	records := s.resolver.Registry().ListRecords()
	if err := store.SaveRecords(ctx, records); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.logger.Info("dataset saved", "records", len(records))
	return nil
}

// Audit runs the session rules over the registered records.
func (s *Session) Audit(ctx context.Context) (domain.Result, error) {
	return s.resolver.Audit(ctx, s.engine)
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...any) {}
func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(string, ...any) {}
