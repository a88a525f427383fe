package batch

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/artglb/internal/asset"
)

// Outcome is the result of one request. Exactly one of Result and Err is set.
type Outcome struct {
	Request asset.Request
	Result  *asset.Result
	Err     error
}

// Report summarizes a batch run.
type Report struct {
	Outcomes  []Outcome
	Succeeded int
	Failed    int
}

func newReport(outcomes []Outcome) *Report {
	r := &Report{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Err != nil {
			r.Failed++
		} else {
			r.Succeeded++
		}
	}
	return r
}

// Failures returns the failed outcomes in request order.
func (r *Report) Failures() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Err combines every failure as "source: cause". It is nil when all
// requests succeeded.
func (r *Report) Err() error {
	var err error
	for _, o := range r.Failures() {
		err = multierr.Append(err, fmt.Errorf("%s: %w", o.Request.Source, o.Err))
	}
	return err
}
