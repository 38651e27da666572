package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cigfip/internal/domain"
)

const (
	headerSheet  = "Cabecalho"
	recordsSheet = "Competencias"
)

// WriteXLSX writes a workbook with the person's identity on one sheet and
// the records on another. Amounts are numeric cells with two decimals.
func WriteXLSX(w io.Writer, set *domain.RecordSet) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), headerSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if err := writeHeaderSheet(f, set); err != nil {
		return err
	}
	if _, err := f.NewSheet(recordsSheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", recordsSheet, err)
	}
	if err := writeRecordsSheet(f, set.Records); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeHeaderSheet(f *excelize.File, set *domain.RecordSet) error {
	title := cases.Title(language.BrazilianPortuguese)
	h := set.Header
	pairs := [][2]string{
		{"NIT", h.NIT},
		{"Nome", title.String(h.Name)},
		{"Nome da Mãe", title.String(h.MotherName)},
		{"Data de Nascimento", h.BirthDate},
		{"CPF", h.CPF},
		{"Profissão", h.Profession},
		{"Estado", h.Region},
		{"Layout", string(set.Layout)},
		{"Total de Linhas", fmt.Sprint(len(set.Records))},
	}
	for i, p := range pairs {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(headerSheet, cell, &[]any{p[0], p[1]}); err != nil {
			return fmt.Errorf("writing header row %d: %w", i+1, err)
		}
	}
	return f.SetColWidth(headerSheet, "A", "B", 28)
}

func writeRecordsSheet(f *excelize.File, records []domain.Record) error {
	head := make([]any, len(columns))
	for i, c := range columns {
		head[i] = c
	}
	if err := f.SetSheetRow(recordsSheet, "A1", &head); err != nil {
		return fmt.Errorf("writing records header: %w", err)
	}

	moneyFmt := "0.00"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return fmt.Errorf("creating money style: %w", err)
	}

	for i := range records {
		r := &records[i]
		text := recordToRow(r)
		row := make([]any, len(text))
		for j, v := range text {
			row[j] = v
		}
		// Parsed amounts become numbers so spreadsheets can sum them.
		if r.Remuneration.Valid {
			row[10] = r.Remuneration.Decimal.InexactFloat64()
		}
		if r.Withheld.Valid {
			row[11] = r.Withheld.Decimal.InexactFloat64()
		}
		row[14] = r.Line

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(recordsSheet, cell, &row); err != nil {
			return fmt.Errorf("writing record row %d: %w", i+2, err)
		}
	}

	if len(records) > 0 {
		last := len(records) + 1
		if err := f.SetCellStyle(recordsSheet, "K2", fmt.Sprintf("L%d", last), style); err != nil {
			return fmt.Errorf("styling amounts: %w", err)
		}
	}
	return f.SetPanes(recordsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
