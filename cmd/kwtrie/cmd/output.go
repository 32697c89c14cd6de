package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/corey/kwtrie/internal/adapters/textsource"
	"github.com/corey/kwtrie/internal/app"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// outputOpts controls how scan results are rendered.
type outputOpts struct {
	json      bool
	countOnly bool
	color     bool
	summary   bool // leading ⚡ line (interactive use)
}

// scanReport is the --json document.
type scanReport struct {
	Results []app.Result `json:"results"`
	Total   int          `json:"total"`
	Elapsed string       `json:"elapsed"`
}

// paint wraps s in an ANSI color when enabled.
func paint(on bool, color, s string) string {
	if !on {
		return s
	}
	return color + s + colorReset
}

// formatResults renders scan results. Offsets are inclusive and 0-based.
//
//	⚡ 6 matches │ 1 input │ 12µs
//	notes.txt:1-3:she
//	notes.txt:2-3:he
//
// With countOnly each input prints as name:count. Stdin matches carry no
// name prefix. Results carrying line numbers print them before the offsets.
func formatResults(results []app.Result, elapsed time.Duration, opts outputOpts) (string, error) {
	elapsedStr := elapsed.Round(time.Microsecond).String()

	if opts.json {
		for i := range results {
			if opts.countOnly {
				results[i].Matches = nil
			}
		}
		data, err := json.MarshalIndent(scanReport{
			Results: results,
			Total:   app.Total(results),
			Elapsed: elapsedStr,
		}, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	}

	var sb strings.Builder
	if opts.summary {
		sb.WriteString(paint(opts.color, colorBold, fmt.Sprintf("⚡ %d %s │ %d %s │ %s",
			app.Total(results), plural(app.Total(results), "match", "matches"),
			len(results), plural(len(results), "input", "inputs"), elapsedStr)))
		sb.WriteString("\n")
	}

	for _, r := range results {
		if opts.countOnly {
			fmt.Fprintf(&sb, "%s:%d\n", paint(opts.color, colorCyan, r.Name), r.Count)
			continue
		}
		prefix := ""
		if r.Name != textsource.Stdin {
			prefix = paint(opts.color, colorCyan, r.Name) + ":"
		}
		for i, m := range r.Matches {
			line := ""
			if i < len(r.Lines) {
				line = paint(opts.color, colorGreen, fmt.Sprintf("%d", r.Lines[i])) + ":"
			}
			fmt.Fprintf(&sb, "%s%s%s:%s\n",
				prefix, line,
				paint(opts.color, colorGray, fmt.Sprintf("%d-%d", m.Start, m.End)),
				paint(opts.color, colorMagenta, m.Keyword))
		}
	}
	return sb.String(), nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
