package gfip

import (
	"strings"

	"cigfip/internal/domain"
)

// layoutRule matches a layout when every keyword is present in the folded text.
type layoutRule struct {
	layout   domain.Layout
	keywords []string
}

// layoutRules is evaluated top to bottom; the first match wins. The modern
// consolidated report comes first because it is the dominant layout and its
// header phrase is unambiguous. An eSocial extract without the report title
// still belongs to the consolidated layout.
var layoutRules = []layoutRule{
	{layout: domain.LayoutConsultaValores, keywords: []string{"CONSULTA VALORES"}},
	{layout: domain.LayoutConsultaValores, keywords: []string{"ESOCIAL"}},
	{layout: domain.LayoutSEFIP, keywords: []string{"SEFIP", "DATA DE ENVIO"}},
	{layout: domain.LayoutSEFIP, keywords: []string{"COMPET", "FPAS", "CATEG"}},
}

// tableHeaderRules identify the column header line that opens the table for
// each layout. Anything before it is header text, not table rows.
var tableHeaderRules = map[domain.Layout][][]string{
	domain.LayoutConsultaValores: {
		{"FONTE", "COMPET"},
		{"COMPET", "REMUNERA"},
	},
	domain.LayoutSEFIP: {
		{"COMPET", "FPAS", "CATEG"},
		{"COMPET", "DATA DE ENVIO"},
		{"COMPET", "REMUNERA"},
	},
}

// DetectLayout classifies the full document text.
func DetectLayout(text string) domain.Layout {
	folded := fold(text)
	for _, rule := range layoutRules {
		if containsAll(folded, rule.keywords) {
			return rule.layout
		}
	}
	return domain.LayoutUnknown
}

// findTableHeader returns the index of the first table header line for
// layout, or -1 when the document has none.
func findTableHeader(lines []string, layout domain.Layout) int {
	rules := tableHeaderRules[layout]
	for i, line := range lines {
		folded := fold(line)
		if strings.TrimSpace(folded) == "" {
			continue
		}
		for _, keywords := range rules {
			if containsAll(folded, keywords) {
				return i
			}
		}
	}
	return -1
}

// isTableHeader reports whether line repeats a table header, as happens at
// the top of every page.
func isTableHeader(line string, layout domain.Layout) bool {
	folded := fold(line)
	for _, keywords := range tableHeaderRules[layout] {
		if containsAll(folded, keywords) {
			return true
		}
	}
	return false
}
