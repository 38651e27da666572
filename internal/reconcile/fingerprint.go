// Package reconcile compares a freshly parsed record set with the one stored
// for the same person.
package reconcile

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"cigfip/internal/domain"
)

type canonicalHeader struct {
	NIT        string `json:"nit"`
	Name       string `json:"nome"`
	MotherName string `json:"nome_mae"`
	BirthDate  string `json:"data_nascimento"`
	CPF        string `json:"cpf"`
}

type canonicalRecord struct {
	Year         int      `json:"ano"`
	Month        int      `json:"mes"`
	Document     string   `json:"documento"`
	Category     string   `json:"categoria"`
	Remuneration *float64 `json:"remuneracao"`
	Late         bool     `json:"extemporaneo"`
}

type canonicalSet struct {
	Header  canonicalHeader   `json:"cabecalho"`
	Records []canonicalRecord `json:"linhas"`
}

// Fingerprint returns the SHA-256 hex digest of the canonical projection of
// header identity and records. Record order does not affect the result, nor
// do caller-supplied header fields or formatting of the literals.
func Fingerprint(header domain.Header, records []domain.Record) string {
	set := canonicalSet{
		Header: canonicalHeader{
			NIT:        strings.TrimSpace(header.NIT),
			Name:       canonicalName(header.Name),
			MotherName: canonicalName(header.MotherName),
			BirthDate:  strings.TrimSpace(header.BirthDate),
			CPF:        strings.TrimSpace(header.CPF),
		},
		Records: make([]canonicalRecord, 0, len(records)),
	}

	for i := range records {
		r := &records[i]
		cr := canonicalRecord{
			Year:     r.Year,
			Month:    r.Month,
			Document: r.TaxpayerDocument,
			Category: r.CategoryCode,
			Late:     r.Late,
		}
		if r.Remuneration.Valid {
			v := r.Remuneration.Decimal.Round(2).InexactFloat64()
			cr.Remuneration = &v
		}
		set.Records = append(set.Records, cr)
	}
	sort.Slice(set.Records, func(i, j int) bool {
		return lessCanonical(set.Records[i], set.Records[j])
	})

	// Struct fields marshal in declaration order, so the encoding is stable.
	// Only strings, ints, bools and finite floats are encoded; Marshal cannot fail.
	payload, _ := json.Marshal(set)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func canonicalName(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

func lessCanonical(a, b canonicalRecord) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if a.Month != b.Month {
		return a.Month < b.Month
	}
	if a.Document != b.Document {
		return a.Document < b.Document
	}
	if a.Category != b.Category {
		return a.Category < b.Category
	}
	switch {
	case a.Remuneration == nil && b.Remuneration != nil:
		return true
	case a.Remuneration != nil && b.Remuneration == nil:
		return false
	case a.Remuneration != nil && *a.Remuneration != *b.Remuneration:
		return *a.Remuneration < *b.Remuneration
	}
	return !a.Late && b.Late
}
