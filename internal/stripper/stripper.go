package stripper

import (
	"github.com/aleister1102/urlstripper/internal/options"
	"github.com/aleister1102/urlstripper/internal/rules"
	"github.com/aleister1102/urlstripper/internal/urlparts"
	"github.com/rs/zerolog"
)

// Result describes what happened to a single URL.
type Result struct {
	Input           string
	Output          string
	Removed         []string
	FragmentCleared bool
	Changed         bool
	Unparseable     bool
}

// Observer is notified once for every URL the rewriter looks at. It is not
// called when both rule sets are empty.
type Observer interface {
	ObserveURL(result Result)
}

// Option configures a Stripper.
type Option func(*Stripper)

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Stripper) {
		s.logger = logger.With().Str("component", "Stripper").Logger()
	}
}

// WithObserver registers an observer for per-URL outcomes.
func WithObserver(observer Observer) Option {
	return func(s *Stripper) {
		s.observer = observer
	}
}

// Stripper removes tracking parameters and fragments from URLs, from href
// attributes inside text and from nested values. Rules are read from the
// provider at the start of every top-level call, so configuration changes
// apply on the next call. A Stripper holds no mutable state and is safe for
// concurrent use.
type Stripper struct {
	provider options.Provider
	logger   zerolog.Logger
	observer Observer
}

// New creates a Stripper reading its rules from provider.
func New(provider options.Provider, opts ...Option) *Stripper {
	s := &Stripper{
		provider: provider,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rules returns the rule set the next call would use.
func (s *Stripper) Rules() rules.RuleSet {
	return s.loadRules()
}

func (s *Stripper) loadRules() rules.RuleSet {
	if s.provider == nil {
		return rules.Parse(options.DefaultQueryRules, options.DefaultFragmentRules)
	}
	return rules.Parse(
		s.provider.GetString(options.QueryRulesKey, options.DefaultQueryRules),
		s.provider.GetString(options.FragmentRulesKey, options.DefaultFragmentRules),
	)
}

// StripURL returns rawURL with matching query parameters and fragment
// removed. Input that cannot be decomposed is returned unchanged, as is any
// URL the rules leave untouched.
func (s *Stripper) StripURL(rawURL string) string {
	return s.strip(s.loadRules(), rawURL).Output
}

// StripURLResult is StripURL with the details of what was removed.
func (s *Stripper) StripURLResult(rawURL string) Result {
	return s.strip(s.loadRules(), rawURL)
}

func (s *Stripper) strip(rs rules.RuleSet, rawURL string) Result {
	res := Result{Input: rawURL, Output: rawURL}
	if rs.Empty() {
		return res
	}
	defer s.observe(&res)

	u, err := urlparts.Parse(urlparts.DecodeEntities(rawURL))
	if err != nil {
		res.Unparseable = true
		s.logger.Debug().Err(err).Str("url", rawURL).Msg("Leaving unparseable URL untouched")
		return res
	}

	if u.HasQuery && u.RawQuery != "" && len(rs.Query) > 0 {
		query := urlparts.ParseQuery(u.RawQuery)
		removed := filterQuery(&query, rs)
		if len(removed) > 0 {
			u.SetQuery(query)
			res.Removed = removed
		}
	}

	if u.HasFragment && matchFragment(rs.Fragment, u.Fragment) {
		u.ClearFragment()
		res.FragmentCleared = true
	}

	// Returning the raw input keeps StripURL idempotent; decoded entities
	// only appear in URLs that were rewritten.
	if len(res.Removed) == 0 && !res.FragmentCleared {
		return res
	}

	res.Output = u.String()
	res.Changed = res.Output != rawURL
	s.logger.Debug().
		Str("url", rawURL).
		Str("cleaned", res.Output).
		Strs("removed_params", res.Removed).
		Bool("fragment_cleared", res.FragmentCleared).
		Msg("URL rewritten")
	return res
}

func (s *Stripper) observe(res *Result) {
	if s.observer != nil {
		s.observer.ObserveURL(*res)
	}
}
