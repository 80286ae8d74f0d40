// Package entry decodes the text body of a pass(1) entry into a structured
// record: the password line, flat key/value fields, and multiline fields
// delimited by author-chosen fence markers.
//
// The format has no formal grammar and real-world entries vary, so parsing
// is deliberately lenient: malformed lines become warnings, never failures.
package entry

import (
	"fmt"
	"strings"
)

// Field is one key/value pair of an entry body. Values of multiline fields
// contain embedded newlines; flat field values never do.
type Field struct {
	Key   string
	Value string
}

// Entry is the decoded representation of one password-store item.
// Password is always set from the first line, even when that line is empty.
// Fields keeps insertion order; duplicate keys are kept, not merged.
type Entry struct {
	Password string
	Fields   []Field
}

// WarningKind classifies a format deviation found while parsing.
type WarningKind int

const (
	// UnrecognizedLine marks a non-blank line that is neither a field
	// nor a multiline opener. The line is skipped.
	UnrecognizedLine WarningKind = iota
	// UnterminatedMultiline marks a fenced block whose closing marker
	// never appeared; the rest of the input became the value.
	UnterminatedMultiline
)

// Warning is a non-fatal format deviation. Line is 1-based.
type Warning struct {
	Kind WarningKind
	Line int
}

func (w Warning) String() string {
	switch w.Kind {
	case UnterminatedMultiline:
		return fmt.Sprintf("line %d: multiline field has no closing fence marker", w.Line)
	default:
		return fmt.Sprintf("line %d: unrecognized line skipped", w.Line)
	}
}

// scan states for the fence-matching loop.
type scanState int

const (
	stateScanning scanState = iota
	stateAwaitMarker
	stateInMultiline
)

// Parse decodes raw entry text. It is total: any input yields an Entry,
// possibly with warnings. The first line is unconditionally the password.
func Parse(raw string) (Entry, []Warning) {
	var e Entry
	var warnings []Warning

	lines := strings.Split(raw, "\n")
	e.Password = lines[0]

	state := stateScanning
	var (
		key    string   // key of the multiline field being collected
		marker string   // fence marker captured after the opener
		body   []string // lines collected between the fences
	)

	for i := 1; i < len(lines); i++ {
		line := lines[i]

		switch state {
		case stateScanning:
			if strings.TrimSpace(line) == "" {
				continue
			}
			colon := strings.Index(line, ":")
			if colon <= 0 {
				warnings = append(warnings, Warning{Kind: UnrecognizedLine, Line: i + 1})
				continue
			}
			rest := line[colon+1:]
			if strings.TrimSpace(rest) == "" {
				key = line[:colon]
				state = stateAwaitMarker
				continue
			}
			// Flat field: at most one leading space after the colon is trimmed.
			e.Fields = append(e.Fields, Field{
				Key:   line[:colon],
				Value: strings.TrimPrefix(rest, " "),
			})

		case stateAwaitMarker:
			// The line after the opener is the fence marker, verbatim.
			marker = line
			body = body[:0]
			state = stateInMultiline

		case stateInMultiline:
			if line == marker {
				e.Fields = append(e.Fields, Field{Key: key, Value: strings.Join(body, "\n")})
				state = stateScanning
				continue
			}
			body = append(body, line)
		}
	}

	// Recover from input that ended mid-block.
	switch state {
	case stateAwaitMarker:
		e.Fields = append(e.Fields, Field{Key: key})
		warnings = append(warnings, Warning{Kind: UnterminatedMultiline, Line: len(lines)})
	case stateInMultiline:
		e.Fields = append(e.Fields, Field{Key: key, Value: strings.Join(body, "\n")})
		warnings = append(warnings, Warning{Kind: UnterminatedMultiline, Line: len(lines)})
	}

	return e, warnings
}

// Raw reconstructs an entry body from a fence marker and fields. It is the
// inverse of Parse for well-formed input and exists for tests and for
// building fixtures.
func Raw(password string, marker string, fields []Field) string {
	var b strings.Builder
	b.WriteString(password)
	for _, f := range fields {
		b.WriteString("\n")
		if strings.Contains(f.Value, "\n") {
			b.WriteString(f.Key + ":\n" + marker + "\n" + f.Value + "\n" + marker)
		} else {
			b.WriteString(f.Key + ": " + f.Value)
		}
	}
	return b.String()
}
