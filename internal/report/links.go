package report

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/urlstripper/internal/common"
	"github.com/aleister1102/urlstripper/internal/stripper"
	"github.com/rs/zerolog"
)

// LinkSelector pairs an element with the attribute holding its link.
type LinkSelector struct {
	Tag       string
	Attribute string
}

// defaultLinkSelectors lists the href-carrying elements, the same attribute
// SanitizeText rewrites.
func defaultLinkSelectors() []LinkSelector {
	return []LinkSelector{
		{"a", "href"},
		{"area", "href"},
		{"link", "href"},
	}
}

// LinkFinding is the audit result for one link.
type LinkFinding struct {
	Tag             string   `json:"tag"`
	Attribute       string   `json:"attribute"`
	Text            string   `json:"text,omitempty"`
	Href            string   `json:"href"`
	Cleaned         string   `json:"cleaned"`
	RemovedParams   []string `json:"removed_params,omitempty"`
	FragmentCleared bool     `json:"fragment_cleared,omitempty"`
	Changed         bool     `json:"changed"`
}

// LinkSummary aggregates a set of findings.
type LinkSummary struct {
	Total            int `json:"total"`
	Changed          int `json:"changed"`
	ParamsRemoved    int `json:"params_removed"`
	FragmentsCleared int `json:"fragments_cleared"`
}

// LinkAuditor lists the links of an HTML document and what the stripper
// would do to each of them. The document itself is not modified.
type LinkAuditor struct {
	stripper  *stripper.Stripper
	logger    zerolog.Logger
	selectors []LinkSelector
}

// NewLinkAuditor creates a new link auditor
func NewLinkAuditor(s *stripper.Stripper, logger zerolog.Logger) *LinkAuditor {
	return &LinkAuditor{
		stripper:  s,
		logger:    logger.With().Str("component", "LinkAuditor").Logger(),
		selectors: defaultLinkSelectors(),
	}
}

// Audit parses htmlContent and returns one finding per link in document
// order. Only links the stripper changes are returned when changedOnly is set.
func (la *LinkAuditor) Audit(htmlContent []byte, changedOnly bool) ([]LinkFinding, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlContent))
	if err != nil {
		return nil, common.WrapError(err, "failed to parse HTML")
	}

	findings := make([]LinkFinding, 0, 16)
	doc.Find(la.selectorQuery()).Each(func(_ int, sel *goquery.Selection) {
		tag := goquery.NodeName(sel)
		attr := la.attributeFor(tag)
		href, exists := sel.Attr(attr)
		if !exists {
			return
		}

		res := la.stripper.StripURLResult(href)
		if changedOnly && !res.Changed {
			return
		}
		findings = append(findings, LinkFinding{
			Tag:             tag,
			Attribute:       attr,
			Text:            strings.Join(strings.Fields(sel.Text()), " "),
			Href:            href,
			Cleaned:         res.Output,
			RemovedParams:   res.Removed,
			FragmentCleared: res.FragmentCleared,
			Changed:         res.Changed,
		})
	})

	la.logger.Debug().Int("links", len(findings)).Msg("Link audit complete")
	return findings, nil
}

func (la *LinkAuditor) selectorQuery() string {
	parts := make([]string, len(la.selectors))
	for i, s := range la.selectors {
		parts[i] = s.Tag + "[" + s.Attribute + "]"
	}
	return strings.Join(parts, ", ")
}

func (la *LinkAuditor) attributeFor(tag string) string {
	for _, s := range la.selectors {
		if s.Tag == tag {
			return s.Attribute
		}
	}
	return "href"
}

// Summarize counts the findings.
func Summarize(findings []LinkFinding) LinkSummary {
	summary := LinkSummary{Total: len(findings)}
	for _, f := range findings {
		if f.Changed {
			summary.Changed++
		}
		summary.ParamsRemoved += len(f.RemovedParams)
		if f.FragmentCleared {
			summary.FragmentsCleared++
		}
	}
	return summary
}
