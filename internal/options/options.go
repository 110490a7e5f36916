package options

import "context"

// Option keys and their defaults.
const (
	QueryRulesKey    = "remove_patterns"
	FragmentRulesKey = "fragment_patterns"

	DefaultQueryRules    = "utm_*,gclid,fbclid"
	DefaultFragmentRules = ""
)

// Provider exposes stored option strings. Implementations never fail: when a
// value cannot be read, def is returned.
type Provider interface {
	GetString(key, def string) string
}

// Writer is implemented by providers that can persist option strings.
type Writer interface {
	SetString(ctx context.Context, key, value string) error
}

// ReadWriter is a Provider that can also persist values.
type ReadWriter interface {
	Provider
	Writer
}

// Static is an immutable in-memory provider.
type Static map[string]string

// NewStatic builds a Static provider holding the two rule strings.
func NewStatic(queryRules, fragmentRules string) Static {
	return Static{
		QueryRulesKey:    queryRules,
		FragmentRulesKey: fragmentRules,
	}
}

// GetString returns the stored value, or def when the key is absent. A key
// present with an empty value yields the empty string.
func (s Static) GetString(key, def string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return def
}

// Func adapts a function to the Provider interface.
type Func func(key, def string) string

// GetString calls f.
func (f Func) GetString(key, def string) string {
	return f(key, def)
}
