package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
	FileTypeTXT FileType = "txt"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
	FileTypeTXT: "text/plain",
}

// AllowedContentTypes maps detected MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf":           FileTypePDF,
	"image/jpeg":                FileTypeJPG,
	"image/png":                 FileTypePNG,
	"text/plain; charset=utf-8": FileTypeTXT,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"txt":  FileTypeTXT,
}

// Layout identifies one of the known CI GFIP report layouts.
type Layout string

const (
	// LayoutSEFIP is the legacy SEFIP extract ("modelo 1").
	LayoutSEFIP Layout = "modelo_1"
	// LayoutConsultaValores is the "CONSULTA VALORES CI GFIP" report shared by GFIP and eSocial rows ("modelo 2").
	LayoutConsultaValores Layout = "modelo_2"
	LayoutUnknown         Layout = "desconhecido"
)

// Source is the filing channel that produced a record.
type Source string

const (
	SourceGFIP    Source = "GFIP"
	SourceESocial Source = "eSocial"
)

// DocumentKind classifies a taxpayer document by digit length.
type DocumentKind string

const (
	DocumentCNPJ     DocumentKind = "CNPJ_COMPLETO"
	DocumentCNPJRoot DocumentKind = "CNPJ_RAIZ"
	DocumentCPF      DocumentKind = "CPF"
	DocumentCEI      DocumentKind = "CEI"
	DocumentUnknown  DocumentKind = "DESCONHECIDO"
)

// IssueKind names a non-fatal (or, for layouts, fatal) parse failure.
type IssueKind string

const (
	IssueLayoutUnidentified        IssueKind = "layout_unidentified"
	IssueRowUnmapped               IssueKind = "row_unmapped"
	IssueFieldUnnormalizable       IssueKind = "field_unnormalizable"
	IssueReconciliationKeyExcluded IssueKind = "reconciliation_key_excluded"
)

// Stage is the last state a document reached in the parse pipeline.
type Stage string

const (
	StageStart             Stage = "start"
	StageLayoutDetected    Stage = "layout_detected"
	StageRowsReconstructed Stage = "rows_reconstructed"
	StageRecordsAssembled  Stage = "records_assembled"
	StageDone              Stage = "done"
	StageFailed            Stage = "failed"
)

// ExportFormat is a supported export file format.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)
