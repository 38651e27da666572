package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cigfip/internal/domain"
)

func sampleSet() *domain.RecordSet {
	return &domain.RecordSet{
		Layout: domain.LayoutConsultaValores,
		Header: domain.Header{NIT: "12345678901", Name: "MARIA DA SILVA", MotherName: "ANA DA SILVA", BirthDate: "1980-03-15"},
		Records: []domain.Record{
			{
				Source:               domain.SourceGFIP,
				CompetencyLiteral:    "01/2023",
				CompetencyDate:       "2023-01-01",
				Year:                 2023,
				Month:                1,
				TaxpayerDocument:     "12345678000190",
				TaxpayerDocumentKind: domain.DocumentCNPJ,
				TaxpayerName:         "ACME LTDA",
				RemunerationLiteral:  "1.234,56",
				Remuneration:         decimal.NewNullDecimal(decimal.RequireFromString("1234.56")),
				WithheldLiteral:      "-",
				Line:                 7,
			},
			{
				Source:               domain.SourceESocial,
				CompetencyLiteral:    "13/2023",
				TaxpayerDocument:     "98765432",
				TaxpayerDocumentKind: domain.DocumentCNPJRoot,
				RemunerationLiteral:  "abc",
				Late:                 true,
				Line:                 8,
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleSet()))

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, BOM))

	rows, err := csv.NewReader(bytes.NewReader(out[len(BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, columns, rows[0])
	assert.Equal(t, "GFIP", rows[1][0])
	assert.Equal(t, "2023-01-01", rows[1][1])
	assert.Equal(t, "ACME LTDA", rows[1][4])
	assert.Equal(t, "1234.56", rows[1][10])
	assert.Equal(t, "", rows[1][11])
	assert.Equal(t, "Não", rows[1][12])
	assert.Equal(t, "7", rows[1][14])

	// Unparsed values fall back to their literals.
	assert.Equal(t, "13/2023", rows[2][1])
	assert.Equal(t, "abc", rows[2][10])
	assert.Equal(t, "Sim", rows[2][12])
}

func TestWriteCSV_NoRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, &domain.RecordSet{}))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleSet()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{headerSheet, recordsSheet}, f.GetSheetList())

	name, err := f.GetCellValue(headerSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Maria Da Silva", name)

	rows, err := f.GetRows(recordsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Fonte", rows[0][0])
	assert.Equal(t, "12345678000190", rows[1][2])

	amount, err := f.GetCellValue(recordsSheet, "K2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1234.56", amount)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, domain.ExportCSV, f)

	f, err = ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, domain.ExportXLSX, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidExportFormat)
}

func TestWrite_InvalidFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "pdf", sampleSet())
	assert.ErrorIs(t, err, domain.ErrInvalidExportFormat)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv; charset=utf-8", ContentType(domain.ExportCSV))
	assert.Contains(t, ContentType(domain.ExportXLSX), "spreadsheetml")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"123.456.789-01", "123_456_789-01"},
		{"  a  b ", "a_b"},
		{"___", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), tt.in)
	}
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "ci_gfip_12345678901_2024-05-02.csv", BuildFilename("12345678901", domain.ExportCSV, now))
	assert.Equal(t, "ci_gfip_2024-05-02.xlsx", BuildFilename("", domain.ExportXLSX, now))
}
