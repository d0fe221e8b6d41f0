package executor

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/andrej220/hamprobe/internal/lg"
)

const (
	MaxPrecision     = 6
	DefaultPrecision = 2
)

// SimulatedExecutor stands in for an SSH session: the connect step is a
// no-op and the reading is a uniform draw over [0, 100].
type SimulatedExecutor struct {
	Sample    Sampler
	Precision int
}

var _ Executor = (*SimulatedExecutor)(nil)

func NewSimulatedExecutor(sample Sampler, precision int) *SimulatedExecutor {
	if sample == nil {
		sample = RandomSampler(0)
	}
	if precision < 0 || precision > MaxPrecision {
		precision = DefaultPrecision
	}
	return &SimulatedExecutor{Sample: sample, Precision: precision}
}

func (e *SimulatedExecutor) Probe(ctx context.Context, server string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	lg.FromContext(ctx).Debug("simulated ssh session", lg.String("server", server))

	scale := math.Pow10(e.Precision)
	cpu := math.Round(e.Sample()*100*scale) / scale
	return math.Min(math.Max(cpu, 0), 100), nil
}

// RandomSampler returns a uniform sampler. A zero seed uses the runtime's
// randomly seeded source; any other seed gives a reproducible sequence.
func RandomSampler(seed uint64) Sampler {
	if seed == 0 {
		return rand.Float64
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return r.Float64
}
