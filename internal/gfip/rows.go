package gfip

import (
	"regexp"
	"strings"

	"cigfip/internal/domain"
)

// row is one logical table row after healing wrapped lines and split
// currency tokens.
type row struct {
	source domain.Source
	tokens []string
	line   int // 1-based line where the row started
}

var (
	competencyTokenPattern = regexp.MustCompile(`^\d{2}[/-]\d{4}$`)
	dataTokenPattern       = regexp.MustCompile(`^(R\$)?-?[\d.,/\-]+$`)
	numericTokenPattern    = regexp.MustCompile(`^-?[\d.,]+$`)

	footerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^p[áa]gina\s*:?\s*\d+(\s*(de|/)\s*\d+)?$`),
		regexp.MustCompile(`^\d+\s*/\s*\d+$`),
		regexp.MustCompile(`(?i)^(emitido|impresso|gerado)\s+em\b`),
	}
)

// sourceTags maps the folded first token of a line to its channel.
var sourceTags = map[string]domain.Source{
	"GFIP":     domain.SourceGFIP,
	"ESOCIAL":  domain.SourceESocial,
	"E-SOCIAL": domain.SourceESocial,
}

func sourceOf(line string) (domain.Source, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	src, ok := sourceTags[fold(fields[0])]
	return src, ok
}

func isFooter(line string) bool {
	for _, p := range footerPatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// isContinuation reports whether a line without a source tag belongs to the
// row above it: a single bare word, or a line made only of data tokens.
func isContinuation(fields []string) bool {
	if len(fields) == 1 {
		return true
	}
	for _, f := range fields {
		if !isDataToken(f) {
			return false
		}
	}
	return true
}

func isDataToken(tok string) bool {
	if tok == currencySymbol || dataTokenPattern.MatchString(tok) {
		return true
	}
	switch fold(tok) {
	case "SIM", "NAO":
		return true
	}
	return false
}

// mergeCurrencyTokens joins a bare "R$" with the numeral that follows it.
func mergeCurrencyTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		if tokens[i] == currencySymbol && i+1 < len(tokens) && numericTokenPattern.MatchString(tokens[i+1]) {
			out = append(out, currencySymbol+" "+tokens[i+1])
			i++
			continue
		}
		out = append(out, tokens[i])
	}
	return out
}

func hasCompetencyToken(tokens []string) bool {
	for _, t := range tokens {
		if competencyTokenPattern.MatchString(t) {
			return true
		}
	}
	return false
}

// reconstructRows turns the table region of a document into logical rows.
// start is the index of the first line after the table header. Buffers that
// never acquire a competency token are dropped and reported.
func reconstructRows(lines []string, start int, layout domain.Layout) ([]row, []domain.Issue) {
	var (
		rows   []row
		issues []domain.Issue
		buf    *row
	)

	flush := func() {
		if buf == nil {
			return
		}
		buf.tokens = mergeCurrencyTokens(buf.tokens)
		if hasCompetencyToken(buf.tokens) {
			rows = append(rows, *buf)
		} else {
			issues = append(issues, domain.Issue{
				Kind:    domain.IssueRowUnmapped,
				Line:    buf.line,
				Literal: strings.Join(buf.tokens, " "),
				Detail:  "row has no competency token",
			})
		}
		buf = nil
	}

	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || isFooter(line) || isTableHeader(line, layout) {
			continue
		}
		fields := strings.Fields(line)

		if src, ok := sourceOf(line); ok {
			flush()
			buf = &row{source: src, tokens: fields, line: i + 1}
			continue
		}
		if buf != nil && isContinuation(fields) {
			buf.tokens = append(buf.tokens, fields...)
			continue
		}
		// Anything else ends the open row and is not table content.
		flush()
	}
	flush()

	return rows, issues
}
