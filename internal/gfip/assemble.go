package gfip

import (
	"errors"
	"strings"

	"cigfip/internal/domain"
)

// assembleRecords maps reconstructed rows to records. Rows whose token count
// matches no known variant are dropped with a row_unmapped issue; field
// failures are recorded but never drop the row.
func assembleRecords(rows []row, layout domain.Layout, header domain.Header) ([]domain.Record, []domain.Issue) {
	records := make([]domain.Record, 0, len(rows))
	var issues []domain.Issue

	for _, r := range rows {
		cols, ok := selectColumns(layout, r.source, len(r.tokens))
		if !ok {
			issues = append(issues, domain.Issue{
				Kind:    domain.IssueRowUnmapped,
				Line:    r.line,
				Literal: strings.Join(r.tokens, " "),
				Detail:  "token count matches no column variant",
			})
			continue
		}
		rec, fieldIssues := assembleRecord(r, cols)
		if rec.NIT == "" {
			rec.NIT = header.NIT
		}
		records = append(records, rec)
		issues = append(issues, fieldIssues...)
	}
	return records, issues
}

func assembleRecord(r row, cols columnLayout) (domain.Record, []domain.Issue) {
	rec := domain.Record{Source: r.source, Line: r.line}
	var issues []domain.Issue
	ignored := ignoredColumns[r.source]

	report := func(field string, err error) {
		var fe *FieldError
		if !errors.As(err, &fe) {
			return
		}
		issues = append(issues, domain.Issue{
			Kind:    domain.IssueFieldUnnormalizable,
			Line:    r.line,
			Field:   field,
			Literal: fe.Literal,
			Detail:  fe.Reason,
		})
	}

	for i, col := range cols {
		tok := r.tokens[i]
		skip := ignored[col]

		switch col {
		case colSource:
		case colDocumentNumber:
			rec.DocumentNumber = tok
		case colNIT:
			rec.NIT = digitsOnly(tok)
		case colCompetency:
			rec.CompetencyLiteral = tok
			c, err := ParseCompetency(tok)
			if err != nil {
				report(FieldCompetency, err)
				continue
			}
			rec.CompetencyDate, rec.Year, rec.Month = c.ISO, c.Year, c.Month
		case colTaxpayer:
			doc, kind := ClassifyTaxpayerDocument(tok)
			rec.TaxpayerDocument, rec.TaxpayerDocumentKind = doc, kind
			if kind == domain.DocumentUnknown {
				report(FieldTaxpayerDoc, &FieldError{Field: FieldTaxpayerDoc, Literal: tok, Reason: "unrecognized document length"})
			}
		case colFPAS:
			if !skip {
				rec.FPAS = tok
			}
		case colCategory:
			rec.CategoryCode = tok
		case colGFIPCode:
			if !skip {
				rec.GFIPCode = tok
			}
		case colSubmissionDate:
			rec.SubmissionLiteral = tok
			d, err := ParseDate(tok)
			if err != nil {
				report(FieldSubmissionDate, err)
				continue
			}
			rec.SubmissionDate = d.ISO
		case colRemunerationType:
			rec.RemunerationType = tok
		case colRemuneration:
			rec.RemunerationLiteral = tok
			m, err := ParseCurrency(tok)
			if err != nil {
				report(FieldRemuneration, err)
				continue
			}
			rec.Remuneration = m.Amount
		case colWithheld:
			rec.WithheldLiteral = tok
			if skip {
				continue
			}
			m, err := ParseCurrency(tok)
			if err != nil {
				report(FieldWithheld, err)
				continue
			}
			rec.Withheld = m.Amount
		case colLate:
			rec.LateLiteral = tok
			rec.Late = ParseLateFlag(tok)
		}
	}
	return rec, issues
}
