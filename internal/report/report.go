// Package report prints the outcome of a build as an aligned table.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/Bitlatte/labsite/internal/loader"
)

var header = []string{"Page", "Loader", "Status", "Time", "Error"}

// Summary counts loader outcomes across pages.
type Summary struct {
	Pages   int
	OK      int
	Skipped int
	Failed  int
}

// Summarize counts the outcomes in reports.
func Summarize(reports []loader.Report) Summary {
	s := Summary{Pages: len(reports)}
	for _, r := range reports {
		for _, res := range r.Results {
			switch res.Status {
			case loader.StatusOK:
				s.OK++
			case loader.StatusSkipped:
				s.Skipped++
			case loader.StatusFailed:
				s.Failed++
			}
		}
	}
	return s
}

// Rows turns reports into table rows. Skipped loaders are left out.
func Rows(reports []loader.Report) [][]string {
	var rows [][]string
	for _, r := range reports {
		for _, res := range r.Results {
			if res.Status == loader.StatusSkipped {
				continue
			}
			errText := ""
			if res.Err != nil {
				errText = res.Err.Error()
			}
			rows = append(rows, []string{
				r.Page,
				res.Loader,
				string(res.Status),
				res.Duration.Round(time.Microsecond).String(),
				errText,
			})
		}
	}
	return rows
}

// Table formats rows under the header, padding cells by display width so
// names in any script line up.
func Table(rows [][]string) []string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	line := func(cells []string) string {
		var sb strings.Builder
		sb.WriteString("|")
		for i, w := range widths {
			content := ""
			if i < len(cells) {
				content = cells[i]
			}
			sb.WriteString(" ")
			sb.WriteString(content)
			if pad := w - runewidth.StringWidth(content); pad > 0 {
				sb.WriteString(strings.Repeat(" ", pad))
			}
			sb.WriteString(" |")
		}
		return sb.String()
	}

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}

	out := []string{line(header), line(sep)}
	for _, row := range rows {
		out = append(out, line(row))
	}
	return out
}

// Write prints the table and a summary line to w.
func Write(w io.Writer, reports []loader.Report) error {
	for _, l := range Table(Rows(reports)) {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}

	s := Summarize(reports)
	_, err := fmt.Fprintf(w, "%d pages: %d loaded, %d skipped, %d failed\n", s.Pages, s.OK, s.Skipped, s.Failed)
	return err
}
