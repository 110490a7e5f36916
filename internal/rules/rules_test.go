package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{name: "empty", raw: "", expected: []string{}},
		{name: "only separators", raw: " , ,, ", expected: []string{}},
		{name: "trims parts", raw: " utm_* , gclid ", expected: []string{"utm_*", "gclid"}},
		{name: "dedupes", raw: "gclid,ref,gclid", expected: []string{"gclid", "ref"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.raw))
		})
	}
}

func TestParseQueryRules(t *testing.T) {
	parsed := ParseQueryRules("utm_*,gclid,ref,foo=bar,a=b=c,bad.key,has space,*,=x")

	require.Len(t, parsed, 6)

	assert.Equal(t, WildcardKey, parsed[0].Kind)
	assert.Equal(t, "utm_*", parsed[0].Key)
	assert.Equal(t, WildcardKey, parsed[1].Kind)
	assert.Equal(t, "gclid", parsed[1].Key)
	assert.Equal(t, "ref", parsed[2].Key)

	assert.Equal(t, ExactKeyValue, parsed[3].Kind)
	assert.Equal(t, "foo", parsed[3].Key)
	assert.Equal(t, "bar", parsed[3].Value)

	// Split happens on the first "=" only.
	assert.Equal(t, "a", parsed[4].Key)
	assert.Equal(t, "b=c", parsed[4].Value)

	assert.Equal(t, ExactKeyValue, parsed[5].Kind)
	assert.Equal(t, "", parsed[5].Key)
	assert.Equal(t, "x", parsed[5].Value)
}

func TestParseQueryRules_DropsMalformed(t *testing.T) {
	for _, raw := range []string{"bad.key", "utm_*x", "a*b", "**", "*", "ключ"} {
		t.Run(raw, func(t *testing.T) {
			assert.Empty(t, ParseQueryRules(raw))
		})
	}
}

func TestQueryRule_Matches(t *testing.T) {
	parsed := ParseQueryRules("utm_*,gclid,foo=bar")
	require.Len(t, parsed, 3)
	wildcard, exact, kv := parsed[0], parsed[1], parsed[2]

	assert.True(t, wildcard.Matches("utm_source", ""))
	assert.True(t, wildcard.Matches("UTM_Medium", "x"))
	assert.True(t, wildcard.Matches("utm_", ""))
	assert.False(t, wildcard.Matches("xutm_source", ""))
	assert.False(t, wildcard.Matches("utm", ""))

	assert.True(t, exact.Matches("gclid", "abc"))
	assert.True(t, exact.Matches("GCLID", "abc"))
	assert.False(t, exact.Matches("gclid2", "abc"))

	assert.True(t, kv.Matches("foo", "bar"))
	assert.False(t, kv.Matches("foo", "baz"))
	assert.False(t, kv.Matches("foo", "BAR"))
	assert.False(t, kv.Matches("Foo", "bar"))
}

func TestParseFragmentRules(t *testing.T) {
	parsed := ParseFragmentRules(" *, :~:text=* ,section-1,*")
	require.Len(t, parsed, 3)

	assert.Equal(t, "*", parsed[0].Pattern)
	assert.True(t, parsed[0].Matches("anything"))
	assert.False(t, parsed[0].Matches(""))

	assert.True(t, parsed[1].Matches(":~:text=hello"))
	assert.True(t, parsed[1].Matches(":~:TEXT=hello"))
	assert.False(t, parsed[1].Matches("other"))

	assert.True(t, parsed[2].Matches("Section-1"))
	assert.False(t, parsed[2].Matches("section-10"))
}

func TestFragmentRule_QuotesMetaCharacters(t *testing.T) {
	parsed := ParseFragmentRules("a.b(c)*")
	require.Len(t, parsed, 1)

	assert.True(t, parsed[0].Matches("a.b(c)"))
	assert.True(t, parsed[0].Matches("a.b(c)tail"))
	assert.False(t, parsed[0].Matches("axb(c)"))
}

func TestRuleSet(t *testing.T) {
	rs := Parse("utm_*,foo=bar,gclid", "")
	assert.False(t, rs.Empty())
	assert.Len(t, rs.WildcardRules(), 2)
	assert.Len(t, rs.KeyValueRules(), 1)

	assert.True(t, Parse("", "").Empty())
	assert.True(t, Parse("not.valid", " , ").Empty())
	assert.False(t, Parse("", "*").Empty())
}
