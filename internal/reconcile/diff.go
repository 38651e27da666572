package reconcile

import (
	"github.com/shopspring/decimal"

	"cigfip/internal/domain"
)

// Rectification is a competency whose remuneration changed.
type Rectification struct {
	Record     domain.Record       `json:"registro"`
	OldValue   decimal.NullDecimal `json:"valor_antigo"`
	NewValue   decimal.NullDecimal `json:"valor_novo"`
	OldLiteral string              `json:"literal_antigo"`
	NewLiteral string              `json:"literal_novo"`
}

// DiffResult classifies every keyed record of the new set against the prior
// one. Records without a parsed competency land in Excluded.
type DiffResult struct {
	Complements    []domain.Record `json:"complementos"`
	Rectifications []Rectification `json:"retificacoes"`
	Unchanged      []domain.Record `json:"inalterados"`
	Excluded       []domain.Issue  `json:"excluidos"`
}

// Diff keys records by (year, month, taxpayer document). When the prior set
// holds the same key twice the first occurrence is used.
func Diff(prior, next []domain.Record) DiffResult {
	res := DiffResult{
		Complements:    []domain.Record{},
		Rectifications: []Rectification{},
		Unchanged:      []domain.Record{},
		Excluded:       []domain.Issue{},
	}

	index := make(map[domain.RecordKey]*domain.Record, len(prior))
	for i := range prior {
		r := &prior[i]
		if !r.HasCompetency() {
			continue
		}
		if _, seen := index[r.Key()]; !seen {
			index[r.Key()] = r
		}
	}

	for i := range next {
		r := next[i]
		if !r.HasCompetency() {
			res.Excluded = append(res.Excluded, domain.Issue{
				Kind:    domain.IssueReconciliationKeyExcluded,
				Line:    r.Line,
				Field:   "competencia",
				Literal: r.CompetencyLiteral,
			})
			continue
		}

		old, ok := index[r.Key()]
		switch {
		case !ok:
			res.Complements = append(res.Complements, r)
		case sameAmount(old.Remuneration, r.Remuneration):
			res.Unchanged = append(res.Unchanged, r)
		default:
			res.Rectifications = append(res.Rectifications, Rectification{
				Record:     r,
				OldValue:   old.Remuneration,
				NewValue:   r.Remuneration,
				OldLiteral: old.RemunerationLiteral,
				NewLiteral: r.RemunerationLiteral,
			})
		}
	}
	return res
}

// sameAmount compares at cent precision. Two absent amounts are equal; an
// amount that appears or disappears is a change.
func sameAmount(a, b decimal.NullDecimal) bool {
	if !a.Valid || !b.Valid {
		return a.Valid == b.Valid
	}
	return a.Decimal.Round(2).Equal(b.Decimal.Round(2))
}
