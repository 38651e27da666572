package gfip

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cigfip/internal/domain"
)

// Field names used in FieldError and issues.
const (
	FieldCompetency     = "competencia"
	FieldSubmissionDate = "data_envio"
	FieldRemuneration   = "remuneracao"
	FieldWithheld       = "valor_retido"
	FieldTaxpayerDoc    = "documento_tomador"
	FieldBirthDate      = "data_nascimento"
)

const currencySymbol = "R$"

var (
	plainNumberPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	competencyPattern  = regexp.MustCompile(`^(\d{1,2})[/-](\d{4})$`)
	datePattern        = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
)

// FieldError describes a literal that could not be normalized. The field is
// left unset and the literal preserved; it never aborts a parse.
type FieldError struct {
	Field   string
	Literal string
	Reason  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Field, e.Literal, e.Reason)
}

// ParseCurrency normalizes a Brazilian currency literal such as "R$ 1.234,56".
// A blank or dash-only literal is absent rather than an error.
func ParseCurrency(literal string) (domain.Money, error) {
	m := domain.Money{Literal: literal}

	s := strings.TrimSpace(literal)
	if s == "" || s == "-" {
		return m, nil
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, currencySymbol))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	if !plainNumberPattern.MatchString(s) {
		return m, &FieldError{Field: FieldRemuneration, Literal: literal, Reason: "not a currency amount"}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return m, &FieldError{Field: FieldRemuneration, Literal: literal, Reason: err.Error()}
	}
	m.Amount = decimal.NewNullDecimal(d)
	return m, nil
}

// ParseCompetency normalizes "MM/YYYY" or "MM-YYYY" to the first day of that month.
func ParseCompetency(literal string) (domain.Competency, error) {
	c := domain.Competency{Literal: literal}

	match := competencyPattern.FindStringSubmatch(strings.TrimSpace(literal))
	if match == nil {
		return c, &FieldError{Field: FieldCompetency, Literal: literal, Reason: "expected MM/YYYY"}
	}
	month, _ := strconv.Atoi(match[1])
	year, _ := strconv.Atoi(match[2])
	if month < 1 || month > 12 {
		return c, &FieldError{Field: FieldCompetency, Literal: literal, Reason: "month out of range"}
	}
	if year == 0 {
		return c, &FieldError{Field: FieldCompetency, Literal: literal, Reason: "year out of range"}
	}

	c.Year = year
	c.Month = month
	c.ISO = fmt.Sprintf("%04d-%02d-01", year, month)
	return c, nil
}

// ParseDate normalizes "DD/MM/YYYY" or "DD-MM-YYYY" to an ISO date.
func ParseDate(literal string) (domain.Date, error) {
	d := domain.Date{Literal: literal}

	s := strings.TrimSpace(literal)
	if s == "" || s == "-" {
		return d, nil
	}
	match := datePattern.FindStringSubmatch(s)
	if match == nil {
		return d, &FieldError{Field: FieldSubmissionDate, Literal: literal, Reason: "expected DD/MM/YYYY"}
	}
	day, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	year, _ := strconv.Atoi(match[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return d, &FieldError{Field: FieldSubmissionDate, Literal: literal, Reason: "not a calendar date"}
	}
	d.ISO = t.Format("2006-01-02")
	return d, nil
}

// ClassifyTaxpayerDocument strips non-digits and classifies the document by
// length. The order matters: truncated company ids are far more common in the
// source text than malformed personal ids, so 9-13 digits resolve to a
// company root rather than unknown.
func ClassifyTaxpayerDocument(literal string) (string, domain.DocumentKind) {
	digits := digitsOnly(literal)
	n := len(digits)

	switch {
	case strings.TrimSpace(literal) == "":
		return "", domain.DocumentUnknown
	case n == 14:
		return digits, domain.DocumentCNPJ
	case n == 12:
		return digits, domain.DocumentCEI
	case n == 11:
		return digits, domain.DocumentCPF
	case n <= 8:
		return padRoot(digits), domain.DocumentCNPJRoot
	case n <= 13:
		return padRoot(digits[:8]), domain.DocumentCNPJRoot
	default:
		return digits, domain.DocumentUnknown
	}
}

func padRoot(digits string) string {
	if len(digits) >= 8 {
		return digits
	}
	return strings.Repeat("0", 8-len(digits)) + digits
}

// ParseLateFlag reports whether the late-filing literal means "Sim".
func ParseLateFlag(literal string) bool {
	s := fold(strings.TrimSpace(literal))
	return strings.HasPrefix(s, "S")
}
