package selection

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// FilterFunc builds a record predicate for a query.
type FilterFunc[T any] func(query string) func(T) bool

// Match names a built-in matching strategy.
type Match string

const (
	MatchContains Match = "contains"
	MatchPrefix   Match = "prefix"
	MatchFuzzy    Match = "fuzzy"
)

// IsValid reports whether m names a known strategy.
func (m Match) IsValid() bool {
	switch m {
	case MatchContains, MatchPrefix, MatchFuzzy:
		return true
	}
	return false
}

// ContainsFold matches records where any field contains the query,
// ignoring case. An empty query matches everything.
func ContainsFold[T any](fields func(T) []string) FilterFunc[T] {
	return func(query string) func(T) bool {
		q := strings.ToLower(strings.TrimSpace(query))
		return func(rec T) bool {
			if q == "" {
				return true
			}
			for _, f := range fields(rec) {
				if strings.Contains(strings.ToLower(f), q) {
					return true
				}
			}
			return false
		}
	}
}

// PrefixFold matches records where any field starts with the query,
// ignoring case.
func PrefixFold[T any](fields func(T) []string) FilterFunc[T] {
	return func(query string) func(T) bool {
		q := strings.ToLower(strings.TrimSpace(query))
		return func(rec T) bool {
			if q == "" {
				return true
			}
			for _, f := range fields(rec) {
				if strings.HasPrefix(strings.ToLower(f), q) {
					return true
				}
			}
			return false
		}
	}
}

// Fuzzy matches records where the query characters appear in order in any
// field, in the style of editor file pickers.
func Fuzzy[T any](fields func(T) []string) FilterFunc[T] {
	return func(query string) func(T) bool {
		q := strings.TrimSpace(query)
		return func(rec T) bool {
			if q == "" {
				return true
			}
			return len(fuzzy.Find(q, fields(rec))) > 0
		}
	}
}

// ByMatch returns the filter for a named strategy, falling back to
// ContainsFold for unknown names.
func ByMatch[T any](m Match, fields func(T) []string) FilterFunc[T] {
	switch m {
	case MatchPrefix:
		return PrefixFold(fields)
	case MatchFuzzy:
		return Fuzzy(fields)
	default:
		return ContainsFold(fields)
	}
}
