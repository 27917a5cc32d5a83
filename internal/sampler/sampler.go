// Package sampler draws outcomes from categorical distributions by inverting
// the cumulative distribution in a single pass over the weights.
package sampler

import (
	"math"
	"math/rand"
	"sync"

	"gochance/domain/weighted"
	"gochance/internal"
	"gochance/internal/errors"
	"gochance/ports"
)

// DefaultEpsilon is the tolerance allowed between the weight sum and 1.0
const DefaultEpsilon = 1e-6

// roundingSlack absorbs the error of summing the weights and of representing
// epsilon itself, so a table written to sum to 1-ε is accepted.
const roundingSlack = 1e-12

// Sampler draws from weighted outcome sets. It keeps no state about the sets
// it is given; the only state is the random source, guarded by mu so a single
// Sampler can be shared between goroutines.
type Sampler struct {
	mu      sync.Mutex
	src     ports.RNGPort
	seed    int64
	epsilon float64
	logger  *internal.Logger
}

// Option configures a Sampler
type Option func(*Sampler)

// WithEpsilon sets the weight-sum tolerance. Non-positive or non-finite values
// are ignored.
func WithEpsilon(eps float64) Option {
	return func(s *Sampler) {
		if eps > 0 && !math.IsInf(eps, 0) {
			s.epsilon = eps
		}
	}
}

// WithLogger routes fallback diagnostics to logger
func WithLogger(logger *internal.Logger) Option {
	return func(s *Sampler) {
		s.logger = logger
	}
}

// New creates a sampler seeded from process entropy
func New(opts ...Option) *Sampler {
	return NewSeeded(EntropySeed(), opts...)
}

// NewSeeded creates a sampler whose draws are fully determined by seed
func NewSeeded(seed int64, opts ...Option) *Sampler {
	s := NewWithSource(rand.New(rand.NewSource(seed)), opts...)
	s.seed = seed
	return s
}

// NewFromString creates a sampler seeded with SeedFromString(seed)
func NewFromString(seed string, opts ...Option) *Sampler {
	return NewSeeded(SeedFromString(seed), opts...)
}

// NewWithSource creates a sampler drawing from src
func NewWithSource(src ports.RNGPort, opts ...Option) *Sampler {
	s := &Sampler{
		src:     src,
		epsilon: DefaultEpsilon,
		logger:  internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed returns the seed the sampler was built with, 0 for injected sources
func (s *Sampler) Seed() int64 {
	return s.seed
}

// Epsilon returns the weight-sum tolerance in use
func (s *Sampler) Epsilon() float64 {
	return s.epsilon
}

// SampleFlat draws one value from outcomes
func SampleFlat[T any](s *Sampler, outcomes []weighted.Outcome[T]) (T, error) {
	i, err := SampleFlatIndex(s, outcomes)
	if err != nil {
		var zero T
		return zero, err
	}
	return outcomes[i].Value, nil
}

// SampleFlatIndex draws one entry of outcomes and returns its index
func SampleFlatIndex[T any](s *Sampler, outcomes []weighted.Outcome[T]) (int, error) {
	weight := func(i int) float64 { return outcomes[i].Weight }
	if err := s.check(len(outcomes), weight); err != nil {
		return 0, err
	}
	return s.choose(len(outcomes), weight), nil
}

// SampleGrouped selects a group by weight, then one of its members uniformly
func SampleGrouped[T any](s *Sampler, groups []weighted.Group[T]) (T, error) {
	g, m, err := SampleGroupedIndex(s, groups)
	if err != nil {
		var zero T
		return zero, err
	}
	return groups[g].Members[m], nil
}

// SampleGroupedIndex is SampleGrouped returning the group and member indexes.
// Empty groups are rejected before any random number is drawn.
func SampleGroupedIndex[T any](s *Sampler, groups []weighted.Group[T]) (int, int, error) {
	for i, g := range groups {
		if len(g.Members) == 0 {
			return 0, 0, errors.EmptyGroup(i)
		}
	}
	weight := func(i int) float64 { return groups[i].Weight }
	if err := s.check(len(groups), weight); err != nil {
		return 0, 0, err
	}
	g, m := s.chooseMember(len(groups), weight, func(i int) int { return len(groups[i].Members) })
	return g, m, nil
}

// SampleFlatN performs n independent draws, validating outcomes once
func SampleFlatN[T any](s *Sampler, outcomes []weighted.Outcome[T], n int) ([]T, error) {
	if n < 0 {
		return nil, errors.InvalidInput("draw count must not be negative")
	}
	weight := func(i int) float64 { return outcomes[i].Weight }
	if err := s.check(len(outcomes), weight); err != nil {
		return nil, err
	}
	out := make([]T, n)
	for k := range out {
		out[k] = outcomes[s.choose(len(outcomes), weight)].Value
	}
	return out, nil
}

// SampleGroupedN performs n independent grouped draws, validating groups once
func SampleGroupedN[T any](s *Sampler, groups []weighted.Group[T], n int) ([]T, error) {
	if n < 0 {
		return nil, errors.InvalidInput("draw count must not be negative")
	}
	for i, g := range groups {
		if len(g.Members) == 0 {
			return nil, errors.EmptyGroup(i)
		}
	}
	weight := func(i int) float64 { return groups[i].Weight }
	if err := s.check(len(groups), weight); err != nil {
		return nil, err
	}
	size := func(i int) int { return len(groups[i].Members) }
	out := make([]T, n)
	for k := range out {
		g, m := s.chooseMember(len(groups), weight, size)
		out[k] = groups[g].Members[m]
	}
	return out, nil
}

// check verifies the weights form a distribution: finite, non-negative and
// summing to 1 within epsilon.
func (s *Sampler) check(n int, weight func(int) float64) error {
	var sum float64
	reason := ""
	for i := 0; i < n; i++ {
		w := weight(i)
		switch {
		case math.IsNaN(w) || math.IsInf(w, 0):
			reason = "non-finite weight"
		case w < 0:
			reason = "negative weight"
		}
		sum += w
	}
	if reason != "" {
		return &errors.DistributionError{Sum: sum, Epsilon: s.epsilon, Reason: reason}
	}
	if math.Abs(sum-1.0) > s.epsilon+roundingSlack {
		return errors.InvalidDistribution(sum, s.epsilon)
	}
	return nil
}

// choose draws r and returns the entry it selects
func (s *Sampler) choose(n int, weight func(int) float64) int {
	s.mu.Lock()
	r := s.src.Float64()
	s.mu.Unlock()

	i, cumulative, fellBack := walk(n, weight, r)
	if fellBack {
		s.logFallback(r, cumulative, i)
	}
	return i
}

// chooseMember selects a group and then one of its size(g) members. Both
// values come from the source under one lock so that concurrent grouped
// draws consume the sequence in whole pairs.
func (s *Sampler) chooseMember(n int, weight func(int) float64, size func(int) int) (int, int) {
	s.mu.Lock()
	r := s.src.Float64()
	g, cumulative, fellBack := walk(n, weight, r)
	m := s.src.Intn(size(g))
	s.mu.Unlock()

	if fellBack {
		s.logFallback(r, cumulative, g)
	}
	return g, m
}

// walk returns the first positive-weight entry whose running total reaches r.
// Weights summing slightly below 1 can leave r above every total; the last
// positive-weight entry is returned in that case with fellBack set.
func walk(n int, weight func(int) float64, r float64) (idx int, cumulative float64, fellBack bool) {
	last := -1
	for i := 0; i < n; i++ {
		w := weight(i)
		if w == 0 {
			continue
		}
		cumulative += w
		last = i
		if cumulative >= r {
			return i, cumulative, false
		}
	}
	return last, cumulative, true
}

func (s *Sampler) logFallback(r, cumulative float64, idx int) {
	s.logger.Debug("sampler: draw %v exceeded cumulative weight %v, using entry %d", r, cumulative, idx)
}
