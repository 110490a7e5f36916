package stripper

import (
	"testing"

	"github.com/aleister1102/urlstripper/internal/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeURL(t *testing.T) {
	assert.True(t, LooksLikeURL("https://example.com"))
	assert.True(t, LooksLikeURL("HTTP://example.com/?a=1"))
	assert.False(t, LooksLikeURL("ftp://example.com"))
	assert.False(t, LooksLikeURL(" https://example.com"))
	assert.False(t, LooksLikeURL("/relative?utm_source=x"))
	assert.False(t, LooksLikeURL(""))
}

func TestSanitizeMixed(t *testing.T) {
	s := newTestStripper("")

	input := Map{
		{Key: "url", Value: Text("https://example.com/?utm_source=x&id=1")},
		{Key: "body", Value: Text(`See <a href="https://example.com/?gclid=1">this</a>`)},
		{Key: "plain", Value: Text("visit https://example.com/?utm_source=x today")},
		{Key: "relative", Value: Text("/page?utm_source=x")},
		{Key: "count", Value: Opaque{V: 42}},
		{Key: "links", Value: Sequence{
			Text("https://a.test/?ref=1"),
			Sequence{Text("https://b.test/?foo=bar&k=v")},
			Opaque{V: true},
		}},
	}

	out := s.SanitizeMixed(input)
	m, ok := out.(Map)
	require.True(t, ok)
	require.Len(t, m, 6)

	expectedKeys := []string{"url", "body", "plain", "relative", "count", "links"}
	for i, e := range m {
		assert.Equal(t, expectedKeys[i], e.Key)
	}

	get := func(key string) Value {
		v, found := m.Get(key)
		require.True(t, found, key)
		return v
	}
	assert.Equal(t, Text("https://example.com/?id=1"), get("url"))
	assert.Equal(t, Text(`See <a href="https://example.com/">this</a>`), get("body"))
	assert.Equal(t, Text("visit https://example.com/?utm_source=x today"), get("plain"))
	// Not http(s): goes through the text scanner, which finds no href.
	assert.Equal(t, Text("/page?utm_source=x"), get("relative"))
	assert.Equal(t, Opaque{V: 42}, get("count"))

	links, ok := get("links").(Sequence)
	require.True(t, ok)
	assert.Equal(t, Text("https://a.test/"), links[0])
	assert.Equal(t, Sequence{Text("https://b.test/?k=v")}, links[1])
	assert.Equal(t, Opaque{V: true}, links[2])
}

func TestSanitizeMixed_ScalarAndEmptyRules(t *testing.T) {
	s := newTestStripper("")
	assert.Equal(t, Text("https://example.com/"), s.SanitizeMixed(Text("https://example.com/?utm_source=1")))
	assert.Equal(t, Opaque{V: 3.5}, s.SanitizeMixed(Opaque{V: 3.5}))
	assert.Nil(t, s.SanitizeMixed(nil))

	noop := New(options.NewStatic("", ""))
	in := Sequence{Text("https://example.com/?utm_source=1")}
	assert.Equal(t, Sequence{Text("https://example.com/?utm_source=1")}, noop.SanitizeMixed(in))
}

func BenchmarkSanitizeMixed(b *testing.B) {
	s := newTestStripper("*")
	for i := 0; i < b.N; i++ {
		v := Map{
			{Key: "a", Value: Text("https://example.com/?utm_source=x&id=1#frag")},
			{Key: "b", Value: Sequence{Text(`<a href="/p?gclid=1">x</a>`), Opaque{V: 1}}},
		}
		_ = s.SanitizeMixed(v)
	}
}
