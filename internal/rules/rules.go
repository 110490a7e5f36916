package rules

import (
	"regexp"
	"strings"
)

// QueryRuleKind distinguishes the two query rule flavours.
type QueryRuleKind int

const (
	// WildcardKey matches a parameter name literally or by a trailing "*" prefix.
	WildcardKey QueryRuleKind = iota
	// ExactKeyValue matches a parameter only when both name and decoded value are equal.
	ExactKeyValue
)

// String returns string representation of QueryRuleKind
func (k QueryRuleKind) String() string {
	switch k {
	case WildcardKey:
		return "wildcard_key"
	case ExactKeyValue:
		return "exact_key_value"
	default:
		return "unknown"
	}
}

// keyPatternRegex is the only shape accepted for a key rule: letters, digits,
// underscore and hyphen with an optional single trailing wildcard.
var keyPatternRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+\*?$`)

// QueryRule removes query parameters.
type QueryRule struct {
	Kind  QueryRuleKind
	Key   string
	Value string

	matcher *regexp.Regexp
}

// Matches reports whether the rule removes the parameter key=value.
// For WildcardKey rules the value is ignored.
func (r QueryRule) Matches(key, value string) bool {
	switch r.Kind {
	case WildcardKey:
		return r.matcher != nil && r.matcher.MatchString(key)
	case ExactKeyValue:
		return r.Key == key && r.Value == value
	default:
		return false
	}
}

// FragmentRule clears a URL fragment.
type FragmentRule struct {
	Pattern string

	matcher *regexp.Regexp
}

// Matches reports whether the fragment should be cleared. "*" matches any
// non-empty fragment.
func (r FragmentRule) Matches(fragment string) bool {
	if fragment == "" {
		return false
	}
	if r.Pattern == "*" {
		return true
	}
	return r.matcher != nil && r.matcher.MatchString(fragment)
}

// RuleSet is the parsed form of both configuration strings.
type RuleSet struct {
	Query    []QueryRule
	Fragment []FragmentRule
}

// Empty reports whether the set would leave every URL untouched.
func (rs RuleSet) Empty() bool {
	return len(rs.Query) == 0 && len(rs.Fragment) == 0
}

// WildcardRules returns the key rules in configuration order.
func (rs RuleSet) WildcardRules() []QueryRule {
	return rs.byKind(WildcardKey)
}

// KeyValueRules returns the key=value rules in configuration order.
func (rs RuleSet) KeyValueRules() []QueryRule {
	return rs.byKind(ExactKeyValue)
}

func (rs RuleSet) byKind(kind QueryRuleKind) []QueryRule {
	var out []QueryRule
	for _, r := range rs.Query {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Parse builds a RuleSet from the raw query and fragment configuration strings.
func Parse(rawQuery, rawFragment string) RuleSet {
	return RuleSet{
		Query:    ParseQueryRules(rawQuery),
		Fragment: ParseFragmentRules(rawFragment),
	}
}

// ParseQueryRules parses a comma-separated rule string such as
// "utm_*,gclid,ref,foo=bar". Tokens that are neither key=value pairs nor
// valid key patterns are dropped.
func ParseQueryRules(raw string) []QueryRule {
	var out []QueryRule
	for _, token := range Tokenize(raw) {
		if key, value, ok := strings.Cut(token, "="); ok {
			out = append(out, QueryRule{Kind: ExactKeyValue, Key: key, Value: value})
			continue
		}
		if !keyPatternRegex.MatchString(token) {
			continue
		}
		out = append(out, QueryRule{
			Kind:    WildcardKey,
			Key:     token,
			matcher: compileGlob(token),
		})
	}
	return out
}

// ParseFragmentRules parses a comma-separated fragment rule string. Every
// non-empty token becomes a rule.
func ParseFragmentRules(raw string) []FragmentRule {
	tokens := Tokenize(raw)
	out := make([]FragmentRule, 0, len(tokens))
	for _, token := range tokens {
		rule := FragmentRule{Pattern: token}
		if token != "*" {
			rule.matcher = compileGlob(token)
		}
		out = append(out, rule)
	}
	return out
}

// Tokenize splits on commas, trims each part, drops empty parts and removes
// exact duplicates keeping the first occurrence.
func Tokenize(raw string) []string {
	parts := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

// compileGlob turns a pattern into an anchored, case-insensitive regexp where
// "*" matches any run of characters.
func compileGlob(pattern string) *regexp.Regexp {
	quoted := strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, `.*`)
	re, err := regexp.Compile(`(?i)^` + quoted + `$`)
	if err != nil {
		return nil
	}
	return re
}
