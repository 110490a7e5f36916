package stripper

import (
	"regexp"

	"github.com/aleister1102/urlstripper/internal/rules"
)

var standaloneURLRegex = regexp.MustCompile(`(?i)^https?://`)

// LooksLikeURL reports whether s starts with http:// or https://.
func LooksLikeURL(s string) bool {
	return standaloneURLRegex.MatchString(s)
}

// Value is a closed set of shapes a stored value can take: Text, Sequence,
// Map or Opaque.
type Value interface {
	isValue()
}

// Text is a string value.
type Text string

// Sequence is an ordered list of values.
type Sequence []Value

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value Value
}

// Map is a keyed collection that keeps its insertion order.
type Map []Entry

// Opaque wraps anything that is neither text nor a container. It is passed
// through untouched.
type Opaque struct {
	V any
}

func (Text) isValue()     {}
func (Sequence) isValue() {}
func (Map) isValue()      {}
func (Opaque) isValue()   {}

// Get returns the value stored under key.
func (m Map) Get(key string) (Value, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// SanitizeMixed walks v and rewrites every string in it: a standalone
// http(s) URL goes through StripURL, any other text through SanitizeText.
// Sequences and maps are updated in place and keep their keys and order.
// Input must be acyclic.
func (s *Stripper) SanitizeMixed(v Value) Value {
	rs := s.loadRules()
	if rs.Empty() {
		return v
	}
	return s.walk(rs, v)
}

func (s *Stripper) walk(rs rules.RuleSet, v Value) Value {
	switch tv := v.(type) {
	case Text:
		return Text(s.sanitizeString(rs, string(tv)))
	case Sequence:
		for i, item := range tv {
			tv[i] = s.walk(rs, item)
		}
		return tv
	case Map:
		for i := range tv {
			tv[i].Value = s.walk(rs, tv[i].Value)
		}
		return tv
	default:
		return v
	}
}

func (s *Stripper) sanitizeString(rs rules.RuleSet, str string) string {
	if LooksLikeURL(str) {
		return s.strip(rs, str).Output
	}
	return s.sanitizeText(rs, str)
}
