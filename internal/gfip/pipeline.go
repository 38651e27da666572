package gfip

import (
	"cigfip/internal/domain"
)

// Result is the outcome of parsing one document. A failed parse is still a
// Result: the failure is carried in Stage and Error.
type Result struct {
	Layout  domain.Layout    `json:"layout"`
	Header  domain.Header    `json:"cabecalho"`
	Records []domain.Record  `json:"linhas"`
	Total   int              `json:"total_linhas"`
	Issues  []domain.Issue   `json:"ocorrencias"`
	Stage   domain.Stage     `json:"estagio"`
	Error   domain.IssueKind `json:"erro,omitempty"`
}

// Failed reports whether the document could not be parsed at all.
func (r *Result) Failed() bool {
	return r.Stage == domain.StageFailed
}

// RecordSet returns the parsed layout, header and records.
func (r *Result) RecordSet() domain.RecordSet {
	return domain.RecordSet{Layout: r.Layout, Header: r.Header, Records: r.Records}
}

// Parse runs layout detection, row reconstruction, record assembly and
// header extraction over page-concatenated text. It is a pure function of
// text and safe to call concurrently.
func Parse(text string) *Result {
	res := &Result{
		Records: []domain.Record{},
		Issues:  []domain.Issue{},
		Stage:   domain.StageStart,
	}

	res.Layout = DetectLayout(text)
	if res.Layout == domain.LayoutUnknown {
		res.Stage = domain.StageFailed
		res.Error = domain.IssueLayoutUnidentified
		res.Issues = append(res.Issues, domain.Issue{
			Kind:   domain.IssueLayoutUnidentified,
			Detail: "no known table keywords found",
		})
		return res
	}
	res.Stage = domain.StageLayoutDetected

	lines := splitLines(text)
	start, headerLines := 0, headerBlock(lines)
	if idx := findTableHeader(lines, res.Layout); idx >= 0 {
		start, headerLines = idx+1, lines[:idx]
	}
	res.Header = ExtractHeader(headerLines)

	rows, rowIssues := reconstructRows(lines, start, res.Layout)
	res.Issues = append(res.Issues, rowIssues...)
	res.Stage = domain.StageRowsReconstructed

	records, recordIssues := assembleRecords(rows, res.Layout, res.Header)
	res.Records = records
	res.Issues = append(res.Issues, recordIssues...)
	res.Stage = domain.StageRecordsAssembled

	for _, rec := range res.Records {
		if !rec.HasCompetency() {
			res.Issues = append(res.Issues, domain.Issue{
				Kind:    domain.IssueReconciliationKeyExcluded,
				Line:    rec.Line,
				Field:   FieldCompetency,
				Literal: rec.CompetencyLiteral,
			})
		}
	}

	res.Total = len(res.Records)
	res.Stage = domain.StageDone
	return res
}

// headerBlock returns the lines before the first source-tagged row, used when
// the document has no column header line.
func headerBlock(lines []string) []string {
	for i, line := range lines {
		if _, ok := sourceOf(line); ok {
			return lines[:i]
		}
	}
	return lines
}
