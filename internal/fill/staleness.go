package fill

import (
	"fmt"
	"time"
)

// Detector flags fills whose underlying data is older than a threshold.
// Staleness is a warning attached to the fill, it never blocks one.
type Detector struct {
	Threshold time.Duration
}

// Check returns a warning message when the sampled data is older than the
// threshold at the evaluation time. A zero or negative threshold disables
// the check.
func (d Detector) Check(dataTime, asOf time.Time) (string, bool) {
	if d.Threshold <= 0 {
		return "", false
	}
	age := asOf.Sub(dataTime)
	if age <= d.Threshold {
		return "", false
	}
	return fmt.Sprintf("filled at stale price: market data is %s old, threshold %s", age, d.Threshold), true
}
