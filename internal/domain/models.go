package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Money is a normalized currency field. Amount is invalid when the literal
// was absent or could not be parsed.
type Money struct {
	Amount  decimal.NullDecimal `json:"valor"`
	Literal string              `json:"literal"`
}

// Date is a normalized calendar date. ISO is empty when the literal did not parse.
type Date struct {
	ISO     string `json:"iso,omitempty"`
	Literal string `json:"literal"`
}

// Competency is the calendar month a filing entry refers to.
type Competency struct {
	ISO     string `json:"iso,omitempty"` // first day of the month, YYYY-MM-01
	Year    int    `json:"ano,omitempty"`
	Month   int    `json:"mes,omitempty"`
	Literal string `json:"literal"`
}

// Valid reports whether the competency literal was parsed.
func (c Competency) Valid() bool {
	return c.ISO != ""
}

// Header holds person-level identity facts extracted from one document.
// Profession and Region are supplied by the caller, never parsed.
type Header struct {
	NIT        string `json:"nit"`
	Name       string `json:"nome"`
	MotherName string `json:"nome_mae"`
	BirthDate  string `json:"data_nascimento"`
	CPF        string `json:"cpf"`
	Profession string `json:"profissao,omitempty"`
	Region     string `json:"estado,omitempty"`
}

// Record is one competency-period filing line.
type Record struct {
	Source               Source              `json:"fonte"`
	DocumentNumber       string              `json:"numero_documento"`
	NIT                  string              `json:"nit"`
	CompetencyLiteral    string              `json:"competencia_literal"`
	CompetencyDate       string              `json:"competencia_date,omitempty"`
	Year                 int                 `json:"ano,omitempty"`
	Month                int                 `json:"mes,omitempty"`
	TaxpayerDocument     string              `json:"documento_tomador"`
	TaxpayerDocumentKind DocumentKind        `json:"documento_tomador_tipo"`
	TaxpayerName         string              `json:"nome_tomador,omitempty"`
	FPAS                 string              `json:"fpas"`
	CategoryCode         string              `json:"categoria_codigo"`
	GFIPCode             string              `json:"codigo_gfip"`
	SubmissionLiteral    string              `json:"data_envio_literal"`
	SubmissionDate       string              `json:"data_envio_date,omitempty"`
	RemunerationType     string              `json:"tipo_remuneracao"`
	RemunerationLiteral  string              `json:"remuneracao_literal"`
	Remuneration         decimal.NullDecimal `json:"remuneracao"`
	WithheldLiteral      string              `json:"valor_retido_literal"`
	Withheld             decimal.NullDecimal `json:"valor_retido"`
	LateLiteral          string              `json:"extemporaneo_literal"`
	Late                 bool                `json:"extemporaneo"`
	Line                 int                 `json:"linha"`
}

// HasCompetency reports whether the record's competency parsed, which is
// required for it to take part in reconciliation keys.
func (r *Record) HasCompetency() bool {
	return r.Year != 0 && r.Month != 0
}

// Key returns the reconciliation key (year, month, taxpayer document).
func (r *Record) Key() RecordKey {
	return RecordKey{Year: r.Year, Month: r.Month, Document: r.TaxpayerDocument}
}

// RecordKey identifies a competency entry for a given counterpart.
type RecordKey struct {
	Year     int
	Month    int
	Document string
}

func (k RecordKey) String() string {
	return fmt.Sprintf("%04d-%02d/%s", k.Year, k.Month, k.Document)
}

// RecordSet is the complete output of one parse: layout, header and records.
type RecordSet struct {
	Layout  Layout   `json:"layout"`
	Header  Header   `json:"cabecalho"`
	Records []Record `json:"linhas"`
}

// Issue is a parse failure retained as data.
type Issue struct {
	Kind    IssueKind `json:"tipo"`
	Line    int       `json:"linha,omitempty"`
	Field   string    `json:"campo,omitempty"`
	Literal string    `json:"literal,omitempty"`
	Detail  string    `json:"detalhe,omitempty"`
}

// Submission is a persisted record set for one person.
type Submission struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	NIT            string          `db:"nit" json:"nit"`
	Fingerprint    string          `db:"fingerprint" json:"fingerprint"`
	Layout         Layout          `db:"layout" json:"layout"`
	Header         json.RawMessage `db:"header" json:"cabecalho"`
	Records        json.RawMessage `db:"records" json:"linhas"`
	RecordCount    int             `db:"record_count" json:"total_linhas"`
	Complements    int             `db:"complements" json:"complementos"`
	Rectifications int             `db:"rectifications" json:"retificacoes"`
	Unchanged      int             `db:"unchanged" json:"inalterados"`
	PriorID        *uuid.UUID      `db:"prior_id" json:"anterior_id"`
	SourceName     string          `db:"source_name" json:"nome_arquivo"`
	ArchiveKey     string          `db:"archive_key" json:"-"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// RecordSet decodes the stored header and records.
func (s *Submission) RecordSet() (RecordSet, error) {
	set := RecordSet{Layout: s.Layout}
	if len(s.Header) > 0 {
		if err := json.Unmarshal(s.Header, &set.Header); err != nil {
			return RecordSet{}, fmt.Errorf("decoding submission header: %w", err)
		}
	}
	if len(s.Records) > 0 {
		if err := json.Unmarshal(s.Records, &set.Records); err != nil {
			return RecordSet{}, fmt.Errorf("decoding submission records: %w", err)
		}
	}
	return set, nil
}

// NewSubmission encodes a record set into a Submission ready to be stored.
func NewSubmission(set *RecordSet, fingerprint string) (*Submission, error) {
	header, err := json.Marshal(set.Header)
	if err != nil {
		return nil, fmt.Errorf("encoding submission header: %w", err)
	}
	records := set.Records
	if records == nil {
		records = []Record{}
	}
	rows, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding submission records: %w", err)
	}
	return &Submission{
		ID:          uuid.New(),
		NIT:         set.Header.NIT,
		Fingerprint: fingerprint,
		Layout:      set.Layout,
		Header:      header,
		Records:     rows,
		RecordCount: len(set.Records),
	}, nil
}

// ValidNIT reports whether nit is the 11-digit form used as a person's key.
func ValidNIT(nit string) bool {
	if len(nit) != 11 {
		return false
	}
	for _, c := range nit {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
