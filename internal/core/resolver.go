// Package core resolves antigen gene sequences across record lineages and
// hosts the dataset audit rules built on that resolution.
package core

import (
	"antigenseq/internal/registry"
	"antigenseq/pkg/domain"
	"antigenseq/pkg/substitution"
	"context"
	"errors"
	"fmt"
	"sync"
)

// Operation names reported to metrics and tracers.
const (
	OpSequence = "sequence"
	OpAudit    = "audit"
)

type cacheKey struct {
	id   string
	gene string
}

// Resolver resolves sequences for records held in one registry.
type Resolver struct {
	registry *registry.Registry
	logger   Logger
	metrics  MetricsRecorder
	tracer   Tracer
	clock    Clock
	memoize  bool

	mu       sync.Mutex
	cache    map[cacheKey]string
	cacheGen uint64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver logger.
func WithLogger(l Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(r *Resolver) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(t Tracer) Option {
	return func(r *Resolver) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithClock overrides the clock used for operation durations.
func WithClock(c Clock) Option {
	return func(r *Resolver) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithMemoization toggles caching of resolved sequences per record and gene.
// Enabled by default; the cache is dropped whenever the registry generation
// changes.
func WithMemoization(enabled bool) Option {
	return func(r *Resolver) { r.memoize = enabled }
}

// NewResolver constructs a resolver over reg. A nil reg gets a fresh registry.
func NewResolver(reg *registry.Registry, opts ...Option) *Resolver {
	if reg == nil {
		reg = registry.New()
	}
	r := &Resolver{
		registry: reg,
		logger:   noopLogger{},
		metrics:  noopMetrics{},
		tracer:   noopTracer{},
		clock:    systemClock{},
		memoize:  true,
		cache:    make(map[cacheKey]string),
		cacheGen: reg.Generation(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the registry backing the resolver.
func (r *Resolver) Registry() *registry.Registry { return r.registry }

// Reset clears the registry and any memoized sequences, starting a new session.
func (r *Resolver) Reset() {
	r.registry.Reset()
	r.mu.Lock()
	r.cache = make(map[cacheKey]string)
	r.cacheGen = r.registry.Generation()
	r.mu.Unlock()
}

// NewAntigen registers rec and returns its handle.
func (r *Resolver) NewAntigen(rec domain.Record) (*Antigen, error) {
	if rec.ID == "" {
		return nil, fmt.Errorf("antigen id required")
	}
	if err := r.registry.Register(rec); err != nil {
		return nil, err
	}
	return &Antigen{resolver: r, record: rec.Clone()}, nil
}

// Antigen returns a handle to the registered record id.
func (r *Resolver) Antigen(id string) (*Antigen, error) {
	rec, err := r.registry.Lookup(id)
	if err != nil {
		return nil, err
	}
	return &Antigen{resolver: r, record: rec}, nil
}

// Sequence resolves gene for the record id.
func (r *Resolver) Sequence(ctx context.Context, id, gene string) (seq string, err error) {
	start := r.clock.Now()
	ctx, span := r.tracer.Start(ctx, OpSequence)
	defer func() {
		span.End(err)
		r.metrics.Observe(ctx, OpSequence, err == nil, r.clock.Now().Sub(start))
	}()
	if err = ctx.Err(); err != nil {
		return "", err
	}
	seq, err = r.resolve(id, gene, nil)
	if err != nil {
		var mixed *substitution.MixedPopulationError
		if errors.As(err, &mixed) {
			r.logger.Warn("mixed population substitution", "id", id, "gene", gene, "substitution", mixed.Descriptor)
		} else {
			r.logger.Debug("sequence unresolved", "id", id, "gene", gene, "error", err)
		}
	}
	return seq, err
}

// resolve walks the lineage depth first. path holds the ids already on the
// current descent and is used to detect cycles.
func (r *Resolver) resolve(id, gene string, path []string) (string, error) {
	for _, seen := range path {
		if seen == id {
			cycle := append(append([]string(nil), path...), id)
			return "", domain.CycleError{Path: cycle}
		}
	}
	if seq, ok := r.cached(id, gene); ok {
		return seq, nil
	}
	rec, err := r.registry.Lookup(id)
	if err != nil {
		return "", err
	}
	path = append(path[:len(path):len(path)], id)

	base, ok := rec.OwnSequence(gene)
	if ok {
		r.logger.Debug("using own sequence", "id", id, "gene", gene)
	} else {
		parentID, viaAlt := rec.EffectiveParentID(gene)
		if parentID == "" {
			return "", domain.NoSequenceError{ID: rec.ID, Gene: gene}
		}
		r.logger.Debug("resolving from parent", "id", id, "gene", gene, "parent", parentID, "alteration_parent", viaAlt)
		base, err = r.resolve(parentID, gene, path)
		if err != nil {
			var noSeq domain.NoSequenceError
			if viaAlt && errors.As(err, &noSeq) && noSeq.AltParentOf == "" {
				noSeq.AltParentOf = rec.ID
				return "", noSeq
			}
			return "", err
		}
	}

	seq, err := r.apply(rec, gene, base)
	if err != nil {
		return "", err
	}
	r.store(id, gene, seq)
	return seq, nil
}

// apply layers the record's own substitutions for gene onto base. A
// substitution whose residue after is already present is treated as applied.
func (r *Resolver) apply(rec domain.Record, gene, base string) (string, error) {
	subs := rec.Substitutions(gene)
	if len(subs) == 0 {
		return base, nil
	}
	seq, err := substitution.Mutate(base, subs, substitution.SkipSatisfied())
	if err == nil {
		return seq, nil
	}
	switch substitution.KindOf(err) {
	case substitution.KindMixedPopulation:
		return "", err
	case substitution.KindInconsistent:
		mismatched := substitution.Mismatches(base, subs)
		offending := offendingDescriptor(err)
		if len(mismatched) > 0 {
			offending = mismatched[0]
		}
		return "", domain.ConsistencyError{
			ID:            rec.ID,
			Gene:          gene,
			Substitutions: subs,
			Mismatched:    mismatched,
			Offending:     offending,
			Err:           err,
		}
	default:
		return "", fmt.Errorf("%s %s: %w", rec.ID, gene, err)
	}
}

func offendingDescriptor(err error) string {
	var incons *substitution.InconsistentError
	if errors.As(err, &incons) {
		return incons.Descriptor
	}
	var pos *substitution.PositionError
	if errors.As(err, &pos) {
		return pos.Descriptor
	}
	return ""
}

func (r *Resolver) cached(id, gene string) (string, bool) {
	if !r.memoize {
		return "", false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen := r.registry.Generation(); gen != r.cacheGen {
		r.cache = make(map[cacheKey]string)
		r.cacheGen = gen
		return "", false
	}
	seq, ok := r.cache[cacheKey{id: id, gene: gene}]
	return seq, ok
}

func (r *Resolver) store(id, gene, seq string) {
	if !r.memoize {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.registry.Generation() != r.cacheGen {
		return
	}
	r.cache[cacheKey{id: id, gene: gene}] = seq
}

// hasSequenceSource reports whether id can reach a sequence for gene through
// own data or its effective parents, without applying substitutions.
func (r *Resolver) hasSequenceSource(id, gene string, visited map[string]struct{}) bool {
	if _, seen := visited[id]; seen {
		return false
	}
	visited[id] = struct{}{}
	rec, ok := r.registry.FindRecord(id)
	if !ok {
		return false
	}
	if _, ok := rec.OwnSequence(gene); ok {
		return true
	}
	parentID, _ := rec.EffectiveParentID(gene)
	if parentID == "" {
		return false
	}
	return r.hasSequenceSource(parentID, gene, visited)
}

// GeneNames lists genes named by id or any of its ancestors, in first-seen
// order along a breadth-first walk. Missing ancestors are skipped.
func (r *Resolver) GeneNames(id string) []string {
	var out []string
	genes := make(map[string]struct{})
	visited := map[string]struct{}{id: {}}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		rec, ok := r.registry.FindRecord(cur)
		if !ok {
			continue
		}
		for _, g := range rec.GeneNames() {
			if _, ok := genes[g]; !ok {
				genes[g] = struct{}{}
				out = append(out, g)
			}
		}
		for _, p := range rec.ParentIDs() {
			if _, ok := visited[p]; !ok {
				visited[p] = struct{}{}
				queue = append(queue, p)
			}
		}
	}
	return out
}
