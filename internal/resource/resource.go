package resource

import (
	"github.com/armada-cluster/armada/internal/task"
	"github.com/shopspring/decimal"
)

// Scalar resource quantities carry at most 3 digits of fractional
// precision system-wide. Sums are rounded back to that precision so that
// repeated arithmetic cannot accumulate float noise.
const fractionalDigits = 3

// Pool is a multiset of resource entries, usually everything offered by
// or requested from a single agent.
type Pool []task.Resource

// Scalar sums every SCALAR entry with the given name.
func (p Pool) Scalar(name string) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range p {
		if r.Name != name || r.Type != task.ResourceScalar || r.Scalar == nil {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(r.Scalar.Value))
	}

	return sum.Round(fractionalDigits)
}

// Gpus returns the summed "gpus" quantity. ok is false when the pool has
// no gpus entry at all.
func (p Pool) Gpus() (gpus float64, ok bool) {
	for _, r := range p {
		if r.Name == "gpus" && r.Type == task.ResourceScalar && r.Scalar != nil {
			ok = true
		}
	}
	if !ok {
		return 0, false
	}

	f, _ := p.Scalar("gpus").Float64()
	return f, true
}

// Cpus returns the summed "cpus" quantity.
func (p Pool) Cpus() float64 {
	f, _ := p.Scalar("cpus").Float64()
	return f
}

// Mem returns the summed "mem" quantity, in MiB.
func (p Pool) Mem() float64 {
	f, _ := p.Scalar("mem").Float64()
	return f
}
