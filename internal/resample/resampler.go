package resample

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fairbench/berq/internal/dataset"
	"github.com/fairbench/berq/internal/errors"
	"github.com/fairbench/berq/internal/metrics"
)

// DefaultEpsilon is the floor substituted for a zero denominator BER so a
// perfectly classified subgroup does not divide the run by zero.
const DefaultEpsilon = 1e-6

// Options controls a disparity resampling run
type Options struct {
	Resamples  int     // number of balanced resampling iterations (R)
	Confidence float64 // CI level in (0,1), e.g. 0.95
	Epsilon    float64 // zero-denominator floor (default 1e-6)
	Seed       int64   // run seed; per-iteration seeds are derived from it
	Workers    int     // parallel iterations (default GOMAXPROCS)

	// Bias verdict thresholds; zero values fall back to the four-fifths
	// rule defaults (0.8 / 1.25)
	BiasLowThreshold  float64
	BiasHighThreshold float64
}

// Validate fails fast on configuration that cannot produce a valid run
func (o Options) Validate() error {
	if o.Resamples <= 0 {
		return errors.InvalidConfigurationf("resample count must be positive, got %d", o.Resamples)
	}
	if o.Confidence <= 0 || o.Confidence >= 1 {
		return errors.InvalidConfigurationf("confidence must be in (0,1), got %g", o.Confidence)
	}
	if o.Epsilon < 0 {
		return errors.InvalidConfigurationf("epsilon must be non-negative, got %g", o.Epsilon)
	}
	if o.Workers < 0 {
		return errors.InvalidConfigurationf("worker count must be non-negative, got %d", o.Workers)
	}
	return nil
}

func (o Options) epsilon() float64 {
	if o.Epsilon == 0 {
		return DefaultEpsilon
	}
	return o.Epsilon
}

func (o Options) biasThresholds() (low, high float64) {
	low, high = o.BiasLowThreshold, o.BiasHighThreshold
	if low == 0 {
		low = metrics.DefaultBiasLowThreshold
	}
	if high == 0 {
		high = metrics.DefaultBiasHighThreshold
	}
	return low, high
}

func (o Options) workers() int {
	if o.Workers == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// Report is the aggregated output of a disparity resampling run
type Report struct {
	RunID            string            `json:"run_id"`
	NumeratorGroup   string            `json:"numerator_group"`
	DenominatorGroup string            `json:"denominator_group"`
	PointEstimate    float64           `json:"point_estimate"`
	LowerCI          float64           `json:"lower_ci"`
	UpperCI          float64           `json:"upper_ci"`
	Confidence       float64           `json:"confidence"`
	Resamples        int               `json:"n_resamples"`
	Seed             int64             `json:"seed"`
	ZeroFloorCount   int               `json:"zero_floor_count"`
	NumeratorBER     float64           `json:"numerator_ber_median"`
	DenominatorBER   float64           `json:"denominator_ber_median"`
	NumeratorSize    int               `json:"numerator_balanced_size"`
	DenominatorSize  int               `json:"denominator_balanced_size"`
	Bias             metrics.BiasLevel `json:"bias"`
	CreatedAt        time.Time         `json:"created_at"`
	DurationMS       int64             `json:"duration_ms"`
}

// Run estimates the BER ratio between two subgroups with an empirical
// confidence interval. The numerator sample goes on top of the ratio, so a
// point estimate above 1 means the numerator subgroup has worse balanced
// error.
//
// Every iteration is independent; they run on a bounded worker pool and
// write into per-index slots, so the aggregate is identical regardless of
// scheduling. A data-insufficient subgroup aborts the whole run.
func Run(ctx context.Context, numerator, denominator dataset.SubgroupSample, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if numerator.Group == denominator.Group {
		return nil, errors.InvalidConfigurationf(
			"need two distinct subgroups, got %q twice", numerator.Group)
	}

	// Class composition does not change across iterations, so a degenerate
	// subgroup is detected up front. This keeps the failure message
	// deterministic under parallel execution.
	for _, sample := range []dataset.SubgroupSample{numerator, denominator} {
		if err := metrics.ValidateSample(sample); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, errors.SeverityCritical,
				"subgroup "+sample.Group+" cannot be resampled (iteration 0)")
		}
	}

	start := time.Now()
	eps := opts.epsilon()
	r := opts.Resamples

	ratios := make([]float64, r)
	numBERs := make([]float64, r)
	denBERs := make([]float64, r)
	floored := make([]bool, r)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())

	for i := 0; i < r; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			rngNum := rand.New(rand.NewSource(DeriveSeed(opts.Seed, i, numerator.Group)))
			rngDen := rand.New(rand.NewSource(DeriveSeed(opts.Seed, i, denominator.Group)))

			numResult, err := metrics.EstimateBER(numerator, rngNum)
			if err != nil {
				return wrapIteration(err, numerator.Group, i)
			}
			denResult, err := metrics.EstimateBER(denominator, rngDen)
			if err != nil {
				return wrapIteration(err, denominator.Group, i)
			}

			den := denResult.BER
			if den == 0 {
				den = eps
				floored[i] = true
			}

			ratios[i] = numResult.BER / den
			numBERs[i] = numResult.BER
			denBERs[i] = denResult.BER
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	zeroFloors := 0
	for _, f := range floored {
		if f {
			zeroFloors++
		}
	}

	sorted := append([]float64(nil), ratios...)
	sort.Float64s(sorted)

	alpha := (1 - opts.Confidence) / 2
	point := percentile(sorted, 0.5)
	biasLow, biasHigh := opts.biasThresholds()

	report := &Report{
		RunID:            uuid.NewString(),
		NumeratorGroup:   numerator.Group,
		DenominatorGroup: denominator.Group,
		PointEstimate:    point,
		LowerCI:          percentile(sorted, alpha),
		UpperCI:          percentile(sorted, 1-alpha),
		Confidence:       opts.Confidence,
		Resamples:        r,
		Seed:             opts.Seed,
		ZeroFloorCount:   zeroFloors,
		NumeratorBER:     medianOf(numBERs),
		DenominatorBER:   medianOf(denBERs),
		NumeratorSize:    balancedSize(numerator),
		DenominatorSize:  balancedSize(denominator),
		Bias:             metrics.ClassifyBias(point, biasLow, biasHigh),
		CreatedAt:        time.Now().UTC(),
		DurationMS:       time.Since(start).Milliseconds(),
	}
	return report, nil
}

func wrapIteration(err error, group string, iteration int) error {
	wrapped := errors.Wrap(err, errors.GetType(err), errors.SeverityCritical,
		"resampling failed for subgroup "+group)
	return wrapped.WithContext("subgroup", group).WithContext("iteration", iteration)
}

// percentile returns the nearest-rank percentile of an ascending-sorted
// series: the element at rank ceil(p*n), clamped to the series bounds.
// The median is percentile 0.5 through the same convention, so the point
// estimate and the CI bounds always come from the observed ratios.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	idx := int(math.Ceil(p*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

func medianOf(series []float64) float64 {
	sorted := append([]float64(nil), series...)
	sort.Float64s(sorted)
	return percentile(sorted, 0.5)
}

func balancedSize(sample dataset.SubgroupSample) int {
	pos := sample.Positives()
	neg := sample.Negatives()
	if neg < pos {
		return neg
	}
	return pos
}
