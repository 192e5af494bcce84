package types

import (
	"fmt"
	"unicode/utf8"
)

// LineTerminator selects the byte sequence ending every exported line.
type LineTerminator string

const (
	LineTerminatorWindows    LineTerminator = "windows"
	LineTerminatorUnix       LineTerminator = "unix"
	LineTerminatorClassicMac LineTerminator = "mac"
)

// Sequence returns the characters written after each line.
func (l LineTerminator) Sequence() string {
	switch l {
	case LineTerminatorWindows:
		return "\r\n"
	case LineTerminatorClassicMac:
		return "\r"
	default:
		return "\n"
	}
}

// EmptyValuePolicy decides what an empty cell is written as.
type EmptyValuePolicy string

const (
	EmptyValuesBlank       EmptyValuePolicy = "blank"
	EmptyValuesNullLiteral EmptyValuePolicy = "null"
)

// NewlinePolicy decides what happens to line breaks inside a cell.
type NewlinePolicy string

const (
	NewlinesPreserve      NewlinePolicy = "preserve"
	NewlinesMerge         NewlinePolicy = "merge"
	NewlinesMergeAndSpace NewlinePolicy = "merge_space"
)

// BooleanPolicy decides how cells holding exactly "0" or "1" are written.
type BooleanPolicy string

const (
	BooleansRaw01          BooleanPolicy = "raw"
	BooleansTrueFalseLower BooleanPolicy = "true_false"
	BooleansTrueFalseTitle BooleanPolicy = "True_False"
	BooleansYesNoLower     BooleanPolicy = "yes_no"
	BooleansYesNoTitle     BooleanPolicy = "Yes_No"
)

// Labels returns the (true, false) pair for the policy. ok is false for
// BooleansRaw01, which leaves values untouched.
func (b BooleanPolicy) Labels() (yes, no string, ok bool) {
	switch b {
	case BooleansTrueFalseLower:
		return "true", "false", true
	case BooleansTrueFalseTitle:
		return "True", "False", true
	case BooleansYesNoLower:
		return "yes", "no", true
	case BooleansYesNoTitle:
		return "Yes", "No", true
	default:
		return "", "", false
	}
}

// NoQualifier disables quoting.
const NoQualifier rune = 0

var validLineTerminators = map[LineTerminator]bool{
	LineTerminatorWindows:    true,
	LineTerminatorUnix:       true,
	LineTerminatorClassicMac: true,
}

var validEmptyValues = map[EmptyValuePolicy]bool{
	EmptyValuesBlank:       true,
	EmptyValuesNullLiteral: true,
}

var validNewlines = map[NewlinePolicy]bool{
	NewlinesPreserve:      true,
	NewlinesMerge:         true,
	NewlinesMergeAndSpace: true,
}

var validBooleans = map[BooleanPolicy]bool{
	BooleansRaw01:          true,
	BooleansTrueFalseLower: true,
	BooleansTrueFalseTitle: true,
	BooleansYesNoLower:     true,
	BooleansYesNoTitle:     true,
}

// ExportOptions configures how fetched values are turned into text.
type ExportOptions struct {
	Delimiter         rune             // Field separator.
	Qualifier         rune             // Quote character; NoQualifier disables quoting.
	LineTerminator    LineTerminator   // Line ending written after every line.
	EmptyValues       EmptyValuePolicy // Blank or the literal NULL.
	Newlines          NewlinePolicy    // Treatment of line breaks inside values.
	Booleans          BooleanPolicy    // Relabeling of lone "0"/"1" values.
	IncludeAttributes bool             // Append pivoted task attributes.
	ExcludeHeaders    bool             // Omit the header line.
	PreviewLimit      int              // Max bytes of preview output, 0 for no limit.
	Encoding          string           // Output character encoding, applied when writing.
}

// DefaultExportOptions returns comma separated, double-quote qualified,
// Unix terminated output with values left as stored.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Delimiter:      ',',
		Qualifier:      '"',
		LineTerminator: LineTerminatorUnix,
		EmptyValues:    EmptyValuesBlank,
		Newlines:       NewlinesPreserve,
		Booleans:       BooleansRaw01,
		PreviewLimit:   4096,
		Encoding:       "utf-8",
	}
}

// Validate rejects option sets that cannot produce parseable output.
func (o ExportOptions) Validate() error {
	if o.Delimiter == 0 || o.Delimiter == '\n' || o.Delimiter == '\r' || !utf8.ValidRune(o.Delimiter) {
		return ErrInvalidDelimiter
	}
	if o.Qualifier != NoQualifier {
		if o.Qualifier == o.Delimiter {
			return ErrDelimiterIsQualifier
		}
		if o.Qualifier == '\n' || o.Qualifier == '\r' || !utf8.ValidRune(o.Qualifier) {
			return fmt.Errorf("%w: qualifier %q", ErrInvalidOption, o.Qualifier)
		}
	}
	if !validLineTerminators[o.LineTerminator] {
		return fmt.Errorf("%w: line terminator %q", ErrInvalidOption, o.LineTerminator)
	}
	if !validEmptyValues[o.EmptyValues] {
		return fmt.Errorf("%w: empty value policy %q", ErrInvalidOption, o.EmptyValues)
	}
	if !validNewlines[o.Newlines] {
		return fmt.Errorf("%w: newline policy %q", ErrInvalidOption, o.Newlines)
	}
	if !validBooleans[o.Booleans] {
		return fmt.Errorf("%w: boolean policy %q", ErrInvalidOption, o.Booleans)
	}
	if o.PreviewLimit < 0 {
		return fmt.Errorf("%w: preview limit %d", ErrInvalidOption, o.PreviewLimit)
	}
	return nil
}

// namedDelimiters maps the words accepted on the command line and in
// config.yaml to delimiter runes.
var namedDelimiters = map[string]rune{
	"comma":     ',',
	"semicolon": ';',
	"tab":       '\t',
	"\\t":       '\t',
	"pipe":      '|',
	"space":     ' ',
}

// ParseDelimiter accepts a single character or one of comma, semicolon,
// tab, pipe, space.
func ParseDelimiter(s string) (rune, error) {
	if r, ok := namedDelimiters[s]; ok {
		return r, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// ParseQualifier accepts a single character, "double", "single", or
// "none" (also the empty string) for no qualifier.
func ParseQualifier(s string) (rune, error) {
	switch s {
	case "", "none":
		return NoQualifier, nil
	case "double":
		return '"', nil
	case "single":
		return '\'', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: qualifier %q", ErrInvalidOption, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
