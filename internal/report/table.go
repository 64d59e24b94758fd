package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/smykla-skalski/timemap/internal/color"
	"github.com/smykla-skalski/timemap/pkg/clock"
	"github.com/smykla-skalski/timemap/pkg/timemap"
)

const (
	durationDisplayUnits = 2

	// numeric columns start after "#" and "Name".
	firstNumericColumn = 2

	// Each column has 1 border char + 2 padding chars, plus the closing border.
	colOverhead = 3
	minNameW    = 8
)

var tableHeaders = []string{"#", "Name", "Calls", "Elapsed", "Average", "Self", "Self avg"}

// TableRenderer writes an aligned table followed by a summary line.
type TableRenderer struct {
	theme color.Theme
	width int
}

// NewTableRenderer creates a TableRenderer. A width of 0 disables name truncation.
func NewTableRenderer(theme color.Theme, width int) *TableRenderer {
	return &TableRenderer{theme: theme, width: width}
}

// Render implements Renderer.
func (r *TableRenderer) Render(w io.Writer, snap *Snapshot) error {
	if len(snap.Profiles) == 0 {
		_, err := io.WriteString(w, r.theme.Muted.Render("no profiles")+"\n")

		return errors.Wrap(err, "writing empty table")
	}

	rows := r.rows(snap.Profiles)
	alignNumbers(rows)

	var buf bytes.Buffer

	t := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
		tablewriter.WithConfig(tablewriter.NewConfigBuilder().
			WithTrimSpace(tw.Off).
			Build()),
	)

	headers := make([]string, len(tableHeaders))
	for i, h := range tableHeaders {
		headers[i] = r.theme.Header.Render(h)
	}

	t.Header(headers)

	for _, row := range rows {
		if err := t.Append(row); err != nil {
			return errors.Wrap(err, "appending table row")
		}
	}

	if err := t.Render(); err != nil {
		return errors.Wrap(err, "rendering table")
	}

	out := dimBorders(strings.TrimRight(buf.String(), "\n"), r.theme)

	_, err := fmt.Fprintf(w, "%s\n%s\n", out, r.summary(snap.Profiles))

	return errors.Wrap(err, "writing table")
}

func (r *TableRenderer) rows(list []timemap.Stats) [][]string {
	hottest := hottestIndex(list)
	nameW := r.nameWidth()

	rows := make([][]string, 0, len(list))

	for i, s := range list {
		name := s.Name
		if nameW > 0 {
			name = ansi.Truncate(name, nameW, "…")
		}

		self := timemap.Round2(s.Self)
		if i == hottest {
			self = r.theme.Hot.Render(self)
		} else {
			self = r.theme.Value.Render(self)
		}

		rows = append(rows, []string{
			r.theme.Index.Render(strconv.Itoa(s.Index)),
			r.theme.Name.Render(name),
			humanize.Comma(s.Calls),
			r.theme.Value.Render(timemap.Round2(s.Elapsed)),
			timemap.Round2(s.Average),
			self,
			timemap.Round2(s.SelfAverage),
		})
	}

	return rows
}

// nameWidth returns the maximum name column width for the terminal, or 0
// when names should not be truncated.
func (r *TableRenderer) nameWidth() int {
	if r.width <= 0 {
		return 0
	}

	// Fixed budget for the index and the five numeric columns.
	const otherColumnsW = 4 + 5*12

	avail := r.width - len(tableHeaders)*colOverhead - 1 - otherColumnsW
	if avail < minNameW {
		return minNameW
	}

	return avail
}

func (r *TableRenderer) summary(list []timemap.Stats) string {
	var (
		calls int64
		self  float64
	)

	for _, s := range list {
		calls += s.Calls
		self += s.Self
	}

	return r.theme.Muted.Render(fmt.Sprintf(
		"%s profile(s), %s call(s), %s exclusive",
		humanize.Comma(int64(len(list))),
		humanize.Comma(calls),
		FormatDuration(self),
	))
}

// FormatDuration renders milliseconds as a short human readable duration.
func FormatDuration(ms float64) string {
	d := clock.ToDuration(ms)
	if d <= 0 {
		return "0 seconds"
	}

	return durafmt.Parse(d).LimitFirstN(durationDisplayUnits).String()
}

// hottestIndex returns the position of the profile with the most self time,
// or -1 when nothing has run.
func hottestIndex(list []timemap.Stats) int {
	hottest := -1
	best := 0.0

	for i, s := range list {
		if s.Self > best {
			best = s.Self
			hottest = i
		}
	}

	return hottest
}

// alignNumbers left-pads numeric cells so they line up on the right.
func alignNumbers(rows [][]string) {
	widths := make(map[int]int)

	for _, row := range rows {
		for col := firstNumericColumn; col < len(row); col++ {
			widths[col] = max(widths[col], visibleWidth(row[col]))
		}
	}

	for _, row := range rows {
		for col := firstNumericColumn; col < len(row); col++ {
			row[col] = padLeft(row[col], widths[col])
		}
	}
}

func visibleWidth(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

// padLeft left-pads s with spaces so its display width reaches w.
// ANSI escape codes are excluded from width calculation.
func padLeft(s string, w int) string {
	visible := visibleWidth(s)
	if visible >= w {
		return s
	}

	return strings.Repeat(" ", w-visible) + s
}

// dimBorders applies the muted theme style to all box-drawing border
// characters in the rendered table output.
func dimBorders(s string, theme color.Theme) string {
	for _, ch := range []string{
		"╭", "╮", "╰", "╯", "│", "─", "┬", "┴", "├", "┤", "┼",
	} {
		s = strings.ReplaceAll(s, ch, theme.Muted.Render(ch))
	}

	return s
}
