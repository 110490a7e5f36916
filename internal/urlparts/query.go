package urlparts

import "strings"

// Param is one name=value pair of a query string. Raw fields hold the bytes
// as they appeared, Key and Value the decoded form used for matching.
type Param struct {
	RawKey   string
	RawValue string
	Key      string
	Value    string
}

// Query is an ordered list of parameters. Order is significant and survives
// filtering.
type Query struct {
	params []Param
}

// ParseQuery splits a raw query on "&". Segments whose decoded name is empty
// are skipped.
func ParseQuery(raw string) Query {
	var q Query
	if raw == "" {
		return q
	}
	for _, segment := range strings.Split(raw, "&") {
		if segment == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(segment, "=")
		key := Unescape(rawKey)
		if key == "" {
			continue
		}
		q.params = append(q.params, Param{
			RawKey:   rawKey,
			RawValue: rawValue,
			Key:      key,
			Value:    Unescape(rawValue),
		})
	}
	return q
}

// Params returns a copy of the parameters in order.
func (q Query) Params() []Param {
	out := make([]Param, len(q.params))
	copy(out, q.params)
	return out
}

// Len returns the number of parameters.
func (q Query) Len() int {
	return len(q.params)
}

// Filter drops every parameter for which remove returns true and returns the
// dropped ones. Survivors keep their relative order.
func (q *Query) Filter(remove func(Param) bool) []Param {
	var removed []Param
	kept := make([]Param, 0, len(q.params))
	for _, p := range q.params {
		if remove(p) {
			removed = append(removed, p)
			continue
		}
		kept = append(kept, p)
	}
	q.params = kept
	return removed
}

// Encode serializes the parameters with RFC 3986 escaping. Every pair is
// written as name=value, even when the value is empty.
func (q Query) Encode() string {
	if len(q.params) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range q.params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(Escape(p.Key))
		b.WriteByte('=')
		b.WriteString(Escape(p.Value))
	}
	return b.String()
}
