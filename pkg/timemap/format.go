package timemap

import (
	"fmt"
	"io"
	"math"
	"strconv"
)

// FormatLine renders s as
//
//	[index] name, calls, elapsed (average), self (selfAverage)
//
// with times rounded half up to two decimals.
func FormatLine(s Stats) string {
	return fmt.Sprintf("[%d] %s, %d, %s (%s), %s (%s)",
		s.Index,
		s.Name,
		s.Calls,
		Round2(s.Elapsed),
		Round2(s.Average),
		Round2(s.Self),
		Round2(s.SelfAverage),
	)
}

// Round2 formats v with two decimals, rounding halves up. Halves are judged
// on the float64 value, so 1.005, stored just below itself, renders as "1.00".
func Round2(v float64) string {
	return strconv.FormatFloat(math.Floor(v*100+0.5)/100, 'f', 2, 64)
}

// LineReporter writes one FormatLine per profile to w.
func LineReporter(w io.Writer) Reporter {
	return func(list []Stats) {
		for _, s := range list {
			fmt.Fprintln(w, FormatLine(s))
		}
	}
}
