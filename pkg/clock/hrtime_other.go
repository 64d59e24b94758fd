//go:build !unix

package clock

import "github.com/cockroachdb/errors"

type hrtimeClock struct{}

func newHRTimeClock() (*hrtimeClock, error) {
	return nil, errors.New("CLOCK_MONOTONIC is only available on unix")
}

func (*hrtimeClock) Now() float64 {
	return 0
}

func (*hrtimeClock) Source() Source {
	return SourceHRTime
}
