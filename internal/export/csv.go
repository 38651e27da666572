// Package export renders a person's record set as CSV or XLSX.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"cigfip/internal/domain"
)

// BOM is the UTF-8 byte order mark Excel on Windows needs to read accents.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns is the record header row shared by CSV and the XLSX records sheet.
var columns = []string{
	"Fonte",
	"Competência",
	"Documento Tomador",
	"Tipo Documento",
	"Nome Tomador",
	"FPAS",
	"Categoria",
	"Código GFIP",
	"Data de Envio",
	"Tipo Remuneração",
	"Remuneração",
	"Valor Retido",
	"Extemporâneo",
	"Número Documento",
	"Linha",
}

// WriteCSV writes the records of set, preceded by the BOM and a header row.
// Amounts use a dot decimal separator with two places; literals that did
// not parse are emitted as they appeared in the source.
func WriteCSV(w io.Writer, set *domain.RecordSet) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for i := range set.Records {
		if err := cw.Write(recordToRow(&set.Records[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func recordToRow(r *domain.Record) []string {
	row := make([]string, len(columns))
	row[0] = string(r.Source)
	row[1] = r.CompetencyDate
	if row[1] == "" {
		row[1] = r.CompetencyLiteral
	}
	row[2] = r.TaxpayerDocument
	row[3] = string(r.TaxpayerDocumentKind)
	row[4] = r.TaxpayerName
	row[5] = r.FPAS
	row[6] = r.CategoryCode
	row[7] = r.GFIPCode
	row[8] = r.SubmissionDate
	if row[8] == "" {
		row[8] = r.SubmissionLiteral
	}
	row[9] = r.RemunerationType
	row[10] = formatMoney(r.Remuneration, r.RemunerationLiteral)
	row[11] = formatMoney(r.Withheld, r.WithheldLiteral)
	row[12] = formatBool(r.Late)
	row[13] = r.DocumentNumber
	row[14] = strconv.Itoa(r.Line)
	return row
}

func formatMoney(v decimal.NullDecimal, literal string) string {
	if v.Valid {
		return v.Decimal.StringFixed(2)
	}
	if literal == "-" {
		return ""
	}
	return literal
}

func formatBool(v bool) string {
	if v {
		return "Sim"
	}
	return "Não"
}
