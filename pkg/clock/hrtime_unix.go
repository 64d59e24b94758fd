//go:build unix

package clock

import (
	"golang.org/x/sys/unix"
)

type hrtimeClock struct {
	refSec int64
}

func newHRTimeClock() (*hrtimeClock, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return nil, err
	}

	return &hrtimeClock{refSec: int64(ts.Sec)}, nil //nolint:unconvert // Sec is int32 on some platforms
}

func (c *hrtimeClock) Now() float64 {
	var ts unix.Timespec

	// The probe in newHRTimeClock already succeeded, so a later failure
	// would mean the kernel dropped CLOCK_MONOTONIC mid-process.
	_ = unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts)

	//nolint:unconvert // Sec and Nsec are int32 on some platforms
	return float64(int64(ts.Sec)-c.refSec)*1000 + float64(int64(ts.Nsec))/1e6
}

func (*hrtimeClock) Source() Source {
	return SourceHRTime
}
