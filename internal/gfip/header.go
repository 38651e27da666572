package gfip

import (
	"regexp"
	"strings"

	"cigfip/internal/domain"
)

// headerLabels matches every known identity label. Alternatives are ordered
// so that the longer label wins at the same position ("Nome da Mãe" before
// "Nome").
var headerLabels = regexp.MustCompile(`(?i)\b(?:` +
	`(?P<mother>nome\s+da\s+m[ãa]e|m[ãa]e\b)|` +
	`(?P<birth>data\s+de\s+nascimento|data\s+nascimento|data\s+nasc\.?|dt\.?\s*nasc(?:imento|to)?\.?|nascto\.?|nascimento)|` +
	`(?P<name>nome\b)|` +
	`(?P<nit>nit\b|nis\b|pis\b)|` +
	`(?P<cpf>cpf\b))`)

var (
	idRunPattern = regexp.MustCompile(`\d[\d.\-/]*`)
	dateInText   = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{4}`)
	labelGroups  = headerLabels.SubexpNames()
)

const headerTrimCutset = " \t:;-"

// labelHit is one label occurrence and the raw value that follows it.
type labelHit struct {
	field string
	value string
	last  bool
}

// ExtractHeader scans the lines preceding the table for identity fields.
// Every field is optional and the first occurrence wins.
func ExtractHeader(lines []string) domain.Header {
	var h domain.Header

	for i, line := range lines {
		if _, isRow := sourceOf(line); isRow {
			continue
		}
		for _, hit := range labelHits(line) {
			value := hit.value
			if value == "" && hit.last && i+1 < len(lines) && !headerLabels.MatchString(lines[i+1]) {
				value = strings.Trim(lines[i+1], headerTrimCutset)
			}
			applyHeaderField(&h, hit.field, value)
		}
	}
	return h
}

func labelHits(line string) []labelHit {
	matches := headerLabels.FindAllStringSubmatchIndex(line, -1)
	hits := make([]labelHit, 0, len(matches))

	for n, m := range matches {
		field := ""
		for g := 1; g < len(labelGroups); g++ {
			if m[2*g] >= 0 {
				field = labelGroups[g]
				break
			}
		}
		end := len(line)
		if n+1 < len(matches) {
			end = matches[n+1][0]
		}
		value := strings.Trim(line[m[1]:end], headerTrimCutset)
		hits = append(hits, labelHit{field: field, value: value, last: n == len(matches)-1})
	}
	return hits
}

func applyHeaderField(h *domain.Header, field, value string) {
	if value == "" {
		return
	}
	switch field {
	case "nit":
		if h.NIT == "" {
			h.NIT = digitsOnly(idRunPattern.FindString(value))
		}
	case "cpf":
		if h.CPF == "" {
			h.CPF = digitsOnly(idRunPattern.FindString(value))
		}
	case "name":
		if h.Name == "" {
			h.Name = collapseSpaces(value)
		}
	case "mother":
		if h.MotherName == "" {
			h.MotherName = collapseSpaces(value)
		}
	case "birth":
		if h.BirthDate == "" {
			if d, err := ParseDate(dateInText.FindString(value)); err == nil {
				h.BirthDate = d.ISO
			}
		}
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
