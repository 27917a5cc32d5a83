package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gochance/domain/weighted"
	"gochance/internal"
	"gochance/internal/analysis"
	"gochance/internal/errors"
	"gochance/internal/sampler"
	"gochance/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// SimulationService draws repeatedly from a probability table and checks the
// observed frequencies against the declared weights.
type SimulationService struct {
	sampler *sampler.Sampler
	logger  *internal.Logger
}

// SimulationRequest defines one simulation run
type SimulationRequest struct {
	Table   *weighted.Table `validate:"required"`
	Draws   int             `validate:"gt=0"`
	Workers int             `validate:"gte=1,lte=256"`
	Alpha   float64         `validate:"gt=0,lt=1"`
}

// CategoryCount is the tally of one outcome. For grouped tables there is one
// category per group member.
type CategoryCount struct {
	Label    string  `json:"label"`
	Group    int     `json:"group"`
	Expected float64 `json:"expected"`
	Count    int     `json:"count"`
}

// SimulationResult contains the complete output of a simulation run
type SimulationResult struct {
	RunID      string              `json:"run_id"`
	Table      string              `json:"table"`
	Kind       weighted.TableKind  `json:"kind"`
	Seed       int64               `json:"seed"`
	Draws      int                 `json:"draws"`
	Workers    int                 `json:"workers"`
	Categories []CategoryCount     `json:"categories"`
	Fit        *analysis.FitReport `json:"fit"`
	Alpha      float64             `json:"alpha"`
	Passed     bool                `json:"passed"`
	RuntimeMs  int64               `json:"runtime_ms"`
}

// NewSimulationService creates a simulation service drawing from s
func NewSimulationService(s *sampler.Sampler, logger *internal.Logger) *SimulationService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SimulationService{sampler: s, logger: logger}
}

// Run splits the draws across req.Workers goroutines sharing one sampler.
// Cancelling ctx stops the workers between draws.
func (s *SimulationService) Run(ctx context.Context, req SimulationRequest) (*SimulationResult, error) {
	if err := validation.Struct(req); err != nil {
		return nil, errors.Wrap(err, "invalid simulation request")
	}
	startTime := time.Now()

	kind, err := req.Table.Kind()
	if err != nil {
		return nil, errors.WithCode(errors.CodeValidationError, err)
	}

	categories, drawOne := s.plan(req.Table, kind)

	counts := make([]int, len(categories))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for w, quota := range splitDraws(req.Draws, req.Workers) {
		g.Go(func() error {
			local := make([]int, len(categories))
			for i := 0; i < quota; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				idx, err := drawOne()
				if err != nil {
					return errors.Wrapf(err, "worker %d", w)
				}
				local[idx]++
			}
			mu.Lock()
			for i, c := range local {
				counts[i] += c
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	expected := make([]float64, len(categories))
	for i := range categories {
		categories[i].Count = counts[i]
		expected[i] = categories[i].Expected
	}

	fit, err := analysis.Fit(expected, counts)
	if err != nil {
		return nil, errors.Wrap(err, "goodness of fit failed")
	}

	result := &SimulationResult{
		RunID:      newRunID(),
		Table:      req.Table.Name,
		Kind:       kind,
		Seed:       s.sampler.Seed(),
		Draws:      req.Draws,
		Workers:    req.Workers,
		Categories: categories,
		Fit:        fit,
		Alpha:      req.Alpha,
		Passed:     fit.Passes(req.Alpha),
		RuntimeMs:  time.Since(startTime).Milliseconds(),
	}

	s.logger.Info("simulation %s: table %q, %d draws on %d workers, chi2=%.3f p=%.4f passed=%v (%dms)",
		result.RunID, result.Table, result.Draws, result.Workers, fit.ChiSquare, fit.PValue, result.Passed, result.RuntimeMs)
	return result, nil
}

// plan lays out one category per reachable outcome and returns a function
// drawing one category index.
func (s *SimulationService) plan(table *weighted.Table, kind weighted.TableKind) ([]CategoryCount, func() (int, error)) {
	if kind == weighted.KindFlat {
		outcomes := table.Flat()
		categories := make([]CategoryCount, len(outcomes))
		for i, o := range outcomes {
			categories[i] = CategoryCount{Label: o.Value, Group: i, Expected: o.Weight}
		}
		return categories, func() (int, error) {
			return sampler.SampleFlatIndex(s.sampler, outcomes)
		}
	}

	groups := table.Grouped()
	offsets := make([]int, len(groups))
	var categories []CategoryCount
	for gi, grp := range groups {
		offsets[gi] = len(categories)
		for _, member := range grp.Members {
			categories = append(categories, CategoryCount{
				Label:    member,
				Group:    gi,
				Expected: grp.Weight / float64(len(grp.Members)),
			})
		}
	}
	return categories, func() (int, error) {
		gi, mi, err := sampler.SampleGroupedIndex(s.sampler, groups)
		if err != nil {
			return 0, err
		}
		return offsets[gi] + mi, nil
	}
}

func splitDraws(draws, workers int) []int {
	if workers > draws {
		workers = draws
	}
	quotas := make([]int, workers)
	for i := range quotas {
		quotas[i] = draws / workers
		if i < draws%workers {
			quotas[i]++
		}
	}
	return quotas
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return fmt.Sprintf("sim-%s", id)
}
