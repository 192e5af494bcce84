package export

import (
	"strings"

	"github.com/mesh-intelligence/timelog/pkg/types"
)

// NullLiteral replaces empty values under EmptyValuesNullLiteral.
const NullLiteral = "NULL"

var (
	mergeNewlines      = strings.NewReplacer("\r\n", "", "\n", "", "\r", "")
	mergeNewlinesSpace = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
)

// ProcessValue runs one raw cell through the value pipeline: empty value
// policy, newline policy, boolean relabeling, then qualifier escaping. Each
// step sees the output of the previous one.
func ProcessValue(value string, opts types.ExportOptions) string {
	value = applyEmptyValue(value, opts.EmptyValues)
	value = applyNewlines(value, opts.Newlines)
	value = applyBoolean(value, opts.Booleans)
	return Qualify(value, opts)
}

func applyEmptyValue(value string, policy types.EmptyValuePolicy) string {
	if value == "" && policy == types.EmptyValuesNullLiteral {
		return NullLiteral
	}
	return value
}

// applyNewlines treats \r\n, \n and \r each as one line break.
func applyNewlines(value string, policy types.NewlinePolicy) string {
	switch policy {
	case types.NewlinesMerge:
		return mergeNewlines.Replace(value)
	case types.NewlinesMergeAndSpace:
		return mergeNewlinesSpace.Replace(value)
	default:
		return value
	}
}

// applyBoolean relabels any cell that is exactly "0" or "1", whatever column
// it came from.
func applyBoolean(value string, policy types.BooleanPolicy) string {
	yes, no, ok := policy.Labels()
	if !ok {
		return value
	}
	switch value {
	case "1":
		return yes
	case "0":
		return no
	default:
		return value
	}
}

// Qualify wraps value in the qualifier when it contains the delimiter or a
// line break, doubling any qualifier characters inside it. Values that need
// no wrapping are returned unchanged, which makes Qualify a no-op on its own
// output for such values.
func Qualify(value string, opts types.ExportOptions) string {
	if opts.Qualifier == types.NoQualifier {
		return value
	}
	if !strings.ContainsRune(value, opts.Delimiter) && !strings.ContainsAny(value, "\r\n") {
		return value
	}
	q := string(opts.Qualifier)
	return q + strings.ReplaceAll(value, q, q+q) + q
}
