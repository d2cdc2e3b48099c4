package parse

import (
	"regexp"

	"github.com/kaptinlin/jsonrepair"
)

// Rewrite is one named, pure text transformation of candidate JSON.
type Rewrite struct {
	Name  string
	Apply func(string) string
}

var (
	objectThenObject = regexp.MustCompile(`\}(\s*)\{`)
	objectThenArray  = regexp.MustCompile(`\}(\s*)\[`)
	arrayThenObject  = regexp.MustCompile(`\](\s*)\{`)

	// Only gaps containing a line break count: after extraction no string
	// holds a raw break, so such a gap always sits between tokens.
	stringThenString = regexp.MustCompile(`"(\s*\n\s*)"`)
	closerThenString = regexp.MustCompile(`([}\]])(\s*\n\s*)"`)

	trailingComma = regexp.MustCompile(`,(\s*[}\]])`)

	bareKey = regexp.MustCompile(`(^|[^"\w])(\w+):`)
)

// InsertAggregateCommas adds the comma missing between an object and a
// following object or array, and between an array and a following object,
// when only whitespace separates them.
func InsertAggregateCommas(s string) string {
	s = objectThenObject.ReplaceAllString(s, "},$1{")
	s = objectThenArray.ReplaceAllString(s, "},$1[")
	s = arrayThenObject.ReplaceAllString(s, "],$1{")
	return s
}

// InsertStringCommas adds the comma missing between two quoted strings, or
// between a closing brace or bracket and a quoted string, that sit on
// different lines.
func InsertStringCommas(s string) string {
	s = stringThenString.ReplaceAllString(s, `",$1"`)
	s = closerThenString.ReplaceAllString(s, `$1,$2"`)
	return s
}

// RemoveTrailingCommas drops a comma that directly precedes '}' or ']'.
func RemoveTrailingCommas(s string) string {
	return trailingComma.ReplaceAllString(s, "$1")
}

// QuoteBareKeys wraps every unquoted word token immediately followed by ':'
// in double quotes. It cannot tell keys from colons inside string values
// ("at 12:30" becomes "at "12":30"), so it runs last.
func QuoteBareKeys(s string) string {
	return bareKey.ReplaceAllString(s, `$1"$2":`)
}

// DefaultRewrites is the second-chance repair order. Each step only adds or
// removes characters the earlier steps never touch.
var DefaultRewrites = []Rewrite{
	{Name: "insert_aggregate_commas", Apply: InsertAggregateCommas},
	{Name: "insert_string_commas", Apply: InsertStringCommas},
	{Name: "remove_trailing_commas", Apply: RemoveTrailingCommas},
	{Name: "quote_bare_keys", Apply: QuoteBareKeys},
}

// RepairJSON applies DefaultRewrites to candidate, in order.
func RepairJSON(candidate string) string {
	return applyRewrites(candidate, DefaultRewrites)
}

func applyRewrites(s string, rewrites []Rewrite) string {
	for _, rewrite := range rewrites {
		s = rewrite.Apply(s)
	}
	return s
}

// Repairer is the second-chance strategy run once after the first parse of a
// candidate fails.
type Repairer interface {
	// Name identifies the strategy in logs and configuration.
	Name() string
	// Repair returns a rewritten candidate. An error means the strategy gave
	// up; the caller then falls back.
	Repair(candidate string) (string, error)
}

// HeuristicRepairer applies a fixed list of rewrites. The zero value uses
// DefaultRewrites.
type HeuristicRepairer struct {
	Rewrites []Rewrite
}

// Name implements Repairer.
func (HeuristicRepairer) Name() string { return "heuristic" }

// Repair implements Repairer. It never fails.
func (r HeuristicRepairer) Repair(candidate string) (string, error) {
	rewrites := r.Rewrites
	if rewrites == nil {
		rewrites = DefaultRewrites
	}
	return applyRewrites(candidate, rewrites), nil
}

// LibraryRepairer delegates to github.com/kaptinlin/jsonrepair, which also
// handles single quotes, comments, Python constants and truncated output.
type LibraryRepairer struct{}

// Name implements Repairer.
func (LibraryRepairer) Name() string { return "library" }

// Repair implements Repairer.
func (LibraryRepairer) Repair(candidate string) (string, error) {
	return jsonrepair.JSONRepair(candidate)
}

// RepairerByName returns the built-in strategy called name: "heuristic" (also
// the default for "") or "library".
func RepairerByName(name string) (Repairer, bool) {
	switch name {
	case "", "heuristic":
		return HeuristicRepairer{}, true
	case "library":
		return LibraryRepairer{}, true
	default:
		return nil, false
	}
}
