// Package classify sorts free-text answers to the project-link step into
// semantic categories. Every predicate is pure.
package classify

import (
	"strings"
	"unicode/utf8"
)

// Category is the semantic class of a project-link answer
type Category int

const (
	Invalid Category = iota
	Decline
	NdaMarker
	ValidURL
	BareDomain // looks like a link but has no scheme
	NdaNote
)

func (c Category) String() string {
	switch c {
	case Decline:
		return "decline"
	case NdaMarker:
		return "nda_marker"
	case ValidURL:
		return "valid_url"
	case BareDomain:
		return "bare_domain"
	case NdaNote:
		return "nda_note"
	default:
		return "invalid"
	}
}

// Accepted reports whether the category completes the link step
func (c Category) Accepted() bool {
	switch c {
	case Decline, NdaMarker, ValidURL, NdaNote:
		return true
	}
	return false
}

// MinNdaNoteLen is the minimum length of a written NDA justification
const MinNdaNoteLen = 8

var declinePhrases = map[string]struct{}{
	"нехочу":   {},
	"нет":      {},
	"declined": {},
	"skip":     {},
	"no":       {},
}

var ndaMarkers = map[string]struct{}{
	"nda":      {},
	"нда":      {},
	"подnda":   {},
	"поднда":   {},
	"undernda": {},
}

var domainSuffixes = []string{".com", ".net", ".org", ".io", ".ai", ".ru", ".dev", ".app", ".me", ".co"}

// compact lower-cases and strips all whitespace
func compact(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), "")
}

// IsDecline matches the fixed refusal phrases, ignoring case and spaces
func IsDecline(text string) bool {
	_, ok := declinePhrases[compact(text)]
	return ok
}

// IsNdaMarker matches "nda" and close variants, ignoring case, spaces and trailing punctuation
func IsNdaMarker(text string) bool {
	t := strings.TrimRight(compact(text), ".!?:")
	_, ok := ndaMarkers[t]
	return ok
}

// IsValidURL requires an explicit http or https scheme
func IsValidURL(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "http://") || strings.HasPrefix(t, "https://")
}

// IsBareDomain detects inputs such as "github.com" or "site.ru/path" without a scheme
func IsBareDomain(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" || IsValidURL(t) {
		return false
	}
	if strings.ContainsAny(t, " \t\n") || !strings.Contains(t, ".") {
		return false
	}
	for _, suf := range domainSuffixes {
		if strings.HasSuffix(t, suf) || strings.Contains(t, suf+"/") {
			return true
		}
	}
	return false
}

// IsNdaNote accepts a short human description: at least 8 characters and 2 words
func IsNdaNote(text string) bool {
	t := strings.TrimSpace(text)
	if utf8.RuneCountInString(t) < MinNdaNoteLen {
		return false
	}
	return len(strings.Fields(t)) >= 2
}

// Classify applies the predicates in fixed precedence. A URL wins over an NDA note.
func Classify(text string) Category {
	switch {
	case IsDecline(text):
		return Decline
	case IsValidURL(text):
		return ValidURL
	case IsNdaMarker(text):
		return NdaMarker
	case IsBareDomain(text):
		return BareDomain
	case IsNdaNote(text):
		return NdaNote
	default:
		return Invalid
	}
}
