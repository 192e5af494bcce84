package export

import (
	"strings"

	"github.com/mesh-intelligence/timelog/pkg/types"
)

// Emit renders the header line and rows as delimited text. Header cells are
// only qualified; row cells go through ProcessValue. Every line, the last
// included, ends with the configured terminator. When limit is positive,
// lines are added only while the output stays within limit bytes; the first
// line is always kept.
func Emit(headers []string, rows [][]string, opts types.ExportOptions, limit int) string {
	var b strings.Builder
	delim := string(opts.Delimiter)
	term := opts.LineTerminator.Sequence()
	lines := 0

	write := func(cells []string) bool {
		line := strings.Join(cells, delim) + term
		if limit > 0 && lines > 0 && b.Len()+len(line) > limit {
			return false
		}
		b.WriteString(line)
		lines++
		return true
	}

	if !opts.ExcludeHeaders {
		cells := make([]string, len(headers))
		for i, h := range headers {
			cells[i] = Qualify(h, opts)
		}
		write(cells)
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = ProcessValue(v, opts)
		}
		if !write(cells) {
			break
		}
	}
	return b.String()
}
