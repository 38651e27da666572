package gfip

import "cigfip/internal/domain"

// column names one position of a table row.
type column int

const (
	colSource column = iota
	colDocumentNumber
	colNIT
	colCompetency
	colTaxpayer
	colFPAS
	colCategory
	colGFIPCode
	colSubmissionDate
	colRemunerationType
	colRemuneration
	colWithheld
	colLate
)

// columnLayout is the ordered list of columns of one token-count variant.
type columnLayout []column

// columnStrategies lists, per layout and channel, every known column
// variant. A row is mapped only when its token count equals a variant's
// length exactly.
var columnStrategies = map[domain.Layout]map[domain.Source][]columnLayout{
	domain.LayoutConsultaValores: {
		domain.SourceGFIP: {
			{colSource, colDocumentNumber, colNIT, colCompetency, colTaxpayer, colFPAS, colCategory, colGFIPCode, colSubmissionDate, colRemuneration, colWithheld, colLate},
			{colSource, colDocumentNumber, colNIT, colCompetency, colTaxpayer, colFPAS, colCategory, colGFIPCode, colSubmissionDate, colRemunerationType, colRemuneration, colWithheld, colLate},
		},
		// The two eSocial variants have no discriminator besides token count.
		domain.SourceESocial: {
			{colSource, colDocumentNumber, colNIT, colCompetency, colTaxpayer, colCategory, colSubmissionDate, colRemuneration, colWithheld, colLate},
			{colSource, colDocumentNumber, colNIT, colCompetency, colTaxpayer, colCategory, colSubmissionDate, colRemunerationType, colRemuneration, colWithheld, colLate},
		},
	},
	domain.LayoutSEFIP: {
		domain.SourceGFIP: {
			{colSource, colNIT, colCompetency, colTaxpayer, colCategory, colGFIPCode, colSubmissionDate, colRemuneration, colWithheld, colLate},
		},
	},
}

// ignoredColumns are fields a channel never carries. Their literal may still
// occupy a position in the row but the normalized value stays unset.
var ignoredColumns = map[domain.Source]map[column]bool{
	domain.SourceESocial: {
		colFPAS:     true,
		colGFIPCode: true,
		colWithheld: true,
	},
}

// selectColumns returns the variant whose length matches n exactly.
func selectColumns(layout domain.Layout, source domain.Source, n int) (columnLayout, bool) {
	for _, cols := range columnStrategies[layout][source] {
		if len(cols) == n {
			return cols, true
		}
	}
	return nil, false
}
