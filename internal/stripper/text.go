package stripper

import (
	"regexp"
	"strings"

	"github.com/aleister1102/urlstripper/internal/rules"
)

// quoteForm is one way an attribute value can be delimited. Slashed forms
// come from text that was escaped for storage (\" and \').
type quoteForm struct {
	quote   string
	slashed bool
}

// Order matters: at a given "href=" the slashed forms must be tried before
// the plain ones, otherwise \"...\" would never match as a unit.
var quoteForms = []quoteForm{
	{quote: `\"`, slashed: true},
	{quote: `\'`, slashed: true},
	{quote: `"`},
	{quote: `'`},
}

// hrefAttrRegex captures the "href =" prefix in group 1 and the value in
// group 2+i for quoteForms[i]. Each alternative closes on its own delimiter,
// so no backreference is needed.
var hrefAttrRegex = buildHrefRegex()

func buildHrefRegex() *regexp.Regexp {
	alternatives := make([]string, len(quoteForms))
	for i, form := range quoteForms {
		q := regexp.QuoteMeta(form.quote)
		alternatives[i] = q + `(.*?)` + q
	}
	return regexp.MustCompile(`(?i)(href\s*=\s*)(?:` + strings.Join(alternatives, "|") + `)`)
}

// SanitizeText rewrites the URL of every href attribute found in text and
// leaves everything else, including bare URLs in prose, untouched.
func (s *Stripper) SanitizeText(text string) string {
	if text == "" {
		return text
	}
	return s.sanitizeText(s.loadRules(), text)
}

func (s *Stripper) sanitizeText(rs rules.RuleSet, text string) string {
	if rs.Empty() {
		return text
	}

	matches := hrefAttrRegex.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	changed := false
	for _, m := range matches {
		formIdx, start, end := matchedForm(m)
		if formIdx < 0 {
			continue
		}
		form := quoteForms[formIdx]
		raw := text[start:end]

		cleaned := s.rewriteAttrValue(rs, raw, form.slashed)
		if cleaned == raw {
			continue
		}
		b.WriteString(text[last:start])
		b.WriteString(cleaned)
		last = end
		changed = true
	}
	if !changed {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

// matchedForm returns the index of the quote form that matched together with
// the bounds of the captured value.
func matchedForm(m []int) (int, int, int) {
	for i := range quoteForms {
		g := 2 + i
		if m[2*g] >= 0 {
			return i, m[2*g], m[2*g+1]
		}
	}
	return -1, 0, 0
}

func (s *Stripper) rewriteAttrValue(rs rules.RuleSet, raw string, slashed bool) string {
	if !slashed {
		return s.strip(rs, raw).Output
	}
	res := s.strip(rs, Unslash(raw))
	if res.Output == res.Input {
		return raw
	}
	return Slash(res.Output)
}

// Slash escapes single quotes, double quotes, backslashes and NUL bytes with
// a backslash.
func Slash(s string) string {
	if !strings.ContainsAny(s, "'\"\\\x00") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'', '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Unslash reverses Slash: a backslash is dropped and the character after it
// kept, "\0" becomes a NUL byte and a trailing lone backslash disappears.
func Unslash(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			break
		}
		if s[i] == '0' {
			b.WriteByte(0)
		} else {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
