package gfip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHeader_SameLineLabels(t *testing.T) {
	h := ExtractHeader([]string{
		"NIT: 123.45678.90-1   Nome: MARIA DA SILVA SOUZA   CPF: 123.456.789-09",
		"Nome da Mãe: ANA DA SILVA   Data de Nascimento: 15/03/1980",
	})

	assert.Equal(t, "12345678901", h.NIT)
	assert.Equal(t, "MARIA DA SILVA SOUZA", h.Name)
	assert.Equal(t, "12345678909", h.CPF)
	assert.Equal(t, "ANA DA SILVA", h.MotherName)
	assert.Equal(t, "1980-03-15", h.BirthDate)
}

func TestExtractHeader_BirthDateLabelSpellings(t *testing.T) {
	for _, line := range []string{
		"Data de Nascimento: 01/12/1975",
		"Data Nascimento 01/12/1975",
		"Data Nasc.: 01/12/1975",
		"Dt. Nascimento: 01/12/1975",
		"Dt Nascto: 01/12/1975",
		"Nascto: 01-12-1975",
		"NASCIMENTO: 01/12/1975",
	} {
		t.Run(line, func(t *testing.T) {
			h := ExtractHeader([]string{line})
			assert.Equal(t, "1975-12-01", h.BirthDate)
		})
	}
}

func TestExtractHeader_MotherShortLabel(t *testing.T) {
	h := ExtractHeader([]string{"Nome: JOÃO SANTOS", "Mãe: TERESA SANTOS"})
	assert.Equal(t, "JOÃO SANTOS", h.Name)
	assert.Equal(t, "TERESA SANTOS", h.MotherName)
}

func TestExtractHeader_ValueOnNextLine(t *testing.T) {
	h := ExtractHeader([]string{"Nome:", "CARLOS ALBERTO", "NIT:", "111.22222.33-4"})
	assert.Equal(t, "CARLOS ALBERTO", h.Name)
	assert.Equal(t, "11122222334", h.NIT)
}

func TestExtractHeader_FieldsIndependent(t *testing.T) {
	h := ExtractHeader([]string{"CPF: 123.456.789-09", "Data de Nascimento: 99/99/1980"})
	assert.Equal(t, "12345678909", h.CPF)
	assert.Empty(t, h.BirthDate)
	assert.Empty(t, h.NIT)
	assert.Empty(t, h.Name)
}

func TestExtractHeader_FirstHitWins(t *testing.T) {
	h := ExtractHeader([]string{"NIT: 111", "NIT: 222"})
	assert.Equal(t, "111", h.NIT)
}

func TestExtractHeader_SkipsRowLines(t *testing.T) {
	h := ExtractHeader([]string{"GFIP NIT 999 Nome FULANO"})
	assert.Empty(t, h.NIT)
	assert.Empty(t, h.Name)
}
