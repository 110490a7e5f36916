package stripper

import (
	"github.com/aleister1102/urlstripper/internal/rules"
	"github.com/aleister1102/urlstripper/internal/urlparts"
)

// filterQuery removes parameters matched by rs and returns their names in
// query order. Key rules are consulted first; key=value rules only when no
// key rule matched.
func filterQuery(query *urlparts.Query, rs rules.RuleSet) []string {
	wildcards := rs.WildcardRules()
	keyValues := rs.KeyValueRules()

	dropped := query.Filter(func(p urlparts.Param) bool {
		for _, r := range wildcards {
			if r.Matches(p.Key, p.Value) {
				return true
			}
		}
		for _, r := range keyValues {
			if r.Matches(p.Key, p.Value) {
				return true
			}
		}
		return false
	})

	if len(dropped) == 0 {
		return nil
	}
	names := make([]string, len(dropped))
	for i, p := range dropped {
		names[i] = p.Key
	}
	return names
}

// matchFragment reports whether any rule clears the fragment. Evaluation
// stops at the first match.
func matchFragment(fragmentRules []rules.FragmentRule, fragment string) bool {
	if fragment == "" {
		return false
	}
	for _, r := range fragmentRules {
		if r.Matches(fragment) {
			return true
		}
	}
	return false
}
