package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cigfip/internal/config"
	"cigfip/internal/domain"
	"cigfip/internal/gfip"
	"cigfip/internal/port"
	"cigfip/internal/reconcile"
	"cigfip/internal/service"
	"cigfip/mocks"
)

const nit = "98765432100"

const sefipText = `Relatório SEFIP - Consulta de Contribuições
Nome: JOSÉ PEREIRA
NIT: 987.65432.10-0
Nome da Mãe: LUCIA PEREIRA
Dt. Nascto: 01/12/1975
Fonte NIT Competência Tomador Categoria Código Data de Envio Remuneração Valor Retido Extemporâneo
GFIP 98765432100 06/2022 11222333000181 01 115 07/07/2022 2.345,67 258,02 Sim
`

func testConfig() *config.Config {
	return &config.Config{
		Upload:   config.UploadConfig{MaxFileSizeMB: 1, MaxPages: 10},
		Batch:    config.BatchConfig{Concurrency: 2, MaxTexts: 3},
		Registry: config.RegistryConfig{Enabled: true, MaxLookups: 5},
	}
}

type fixture struct {
	repo      *mocks.MockSubmissionRepo
	store     *mocks.MockSubmissionStore
	extractor *mocks.MockTextExtractor
	registry  *mocks.MockCompanyRegistry
	storage   *mocks.MockObjectStorage
	svc       service.FilingService
}

func newFixture(cfg *config.Config) *fixture {
	store := new(mocks.MockSubmissionStore)
	f := &fixture{
		repo:      &mocks.MockSubmissionRepo{Store: store},
		store:     store,
		extractor: new(mocks.MockTextExtractor),
		registry:  new(mocks.MockCompanyRegistry),
		storage:   new(mocks.MockObjectStorage),
	}
	f.svc = service.NewFilingService(f.repo, f.extractor, f.registry, f.storage, cfg)
	return f
}

// storedSubmission builds what the repository would hold for text, after
// applying edit to its records.
func storedSubmission(t *testing.T, text string, edit func([]domain.Record)) *domain.Submission {
	t.Helper()
	set := gfip.Parse(text).RecordSet()
	if edit != nil {
		edit(set.Records)
	}
	sub, err := domain.NewSubmission(&set, reconcile.Fingerprint(set.Header, set.Records))
	require.NoError(t, err)
	return sub
}

func (f *fixture) expectLock() {
	f.repo.On("RunLocked", mock.Anything, nit).Return(nil)
}

func TestFilingService_Parse(t *testing.T) {
	f := newFixture(testConfig())

	res, err := f.svc.Parse(context.Background(), service.ParseInput{Text: sefipText, Profession: " pedreiro ", Region: "SP"})

	require.NoError(t, err)
	assert.Equal(t, domain.LayoutSEFIP, res.Layout)
	assert.Equal(t, "pedreiro", res.Header.Profession)
	assert.Equal(t, "SP", res.Header.Region)
	assert.Len(t, res.Records, 1)
}

func TestFilingService_Parse_EmptyText(t *testing.T) {
	f := newFixture(testConfig())

	_, err := f.svc.Parse(context.Background(), service.ParseInput{Text: "  \n "})

	assert.ErrorIs(t, err, domain.ErrEmptyText)
}

func TestFilingService_ParseBatch_PreservesOrder(t *testing.T) {
	f := newFixture(testConfig())

	results, err := f.svc.ParseBatch(context.Background(), []string{sefipText, "nada aqui", sefipText})

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, domain.LayoutSEFIP, results[0].Layout)
	assert.Equal(t, domain.LayoutUnknown, results[1].Layout)
	assert.Equal(t, domain.LayoutSEFIP, results[2].Layout)
}

func TestFilingService_ParseBatch_Limits(t *testing.T) {
	f := newFixture(testConfig())

	_, err := f.svc.ParseBatch(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyText)

	_, err = f.svc.ParseBatch(context.Background(), []string{"a", "b", "c", "d"})
	assert.ErrorIs(t, err, domain.ErrBatchTooLarge)
}

func TestFilingService_ParseBatch_CanceledContext(t *testing.T) {
	f := newFixture(testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.ParseBatch(ctx, []string{sefipText})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestFilingService_Process_FirstSubmission(t *testing.T) {
	f := newFixture(testConfig())
	f.expectLock()
	f.store.On("GetLatest", mock.Anything, nit).Return(nil, domain.ErrNotFound)
	f.store.On("FindByFingerprint", mock.Anything, nit, mock.Anything).Return(nil, domain.ErrNotFound)
	f.store.On("Create", mock.Anything, mock.AnythingOfType("*domain.Submission")).Return(nil)
	f.registry.On("LookupName", mock.Anything, "11222333000181").Return("ACME CONSTRUCOES LTDA", nil)

	out, err := f.svc.Process(context.Background(), &service.ProcessInput{Text: sefipText, SourceName: "ci.txt"})

	require.NoError(t, err)
	assert.False(t, out.Reconciliation.Duplicate)
	assert.Len(t, out.Reconciliation.Diff.Complements, 1)
	assert.Empty(t, out.Reconciliation.PriorFingerprint)

	sub := out.Submission
	require.NotNil(t, sub)
	assert.Equal(t, nit, sub.NIT)
	assert.Equal(t, out.Reconciliation.Fingerprint, sub.Fingerprint)
	assert.Equal(t, 1, sub.RecordCount)
	assert.Equal(t, 1, sub.Complements)
	assert.Nil(t, sub.PriorID)
	assert.Equal(t, "ci.txt", sub.SourceName)
	assert.Empty(t, sub.ArchiveKey)

	assert.Equal(t, "ACME CONSTRUCOES LTDA", out.Parse.Records[0].TaxpayerName)
	set, err := sub.RecordSet()
	require.NoError(t, err)
	assert.Equal(t, "ACME CONSTRUCOES LTDA", set.Records[0].TaxpayerName)
	f.store.AssertExpectations(t)
}

func TestFilingService_Process_EnrichmentFailureIsIgnored(t *testing.T) {
	f := newFixture(testConfig())
	f.expectLock()
	f.store.On("GetLatest", mock.Anything, nit).Return(nil, domain.ErrNotFound)
	f.store.On("FindByFingerprint", mock.Anything, nit, mock.Anything).Return(nil, domain.ErrNotFound)
	f.store.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.registry.On("LookupName", mock.Anything, mock.Anything).Return("", errors.New("registry down"))

	out, err := f.svc.Process(context.Background(), &service.ProcessInput{Text: sefipText})

	require.NoError(t, err)
	assert.Empty(t, out.Parse.Records[0].TaxpayerName)
}

func TestFilingService_Process_RegistryDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Registry.Enabled = false
	f := newFixture(cfg)
	f.expectLock()
	f.store.On("GetLatest", mock.Anything, nit).Return(nil, domain.ErrNotFound)
	f.store.On("FindByFingerprint", mock.Anything, nit, mock.Anything).Return(nil, domain.ErrNotFound)
	f.store.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Process(context.Background(), &service.ProcessInput{Text: sefipText})

	require.NoError(t, err)
	f.registry.AssertNotCalled(t, "LookupName", mock.Anything, mock.Anything)
}

func TestFilingService_Process_DuplicateOfLatest(t *testing.T) {
	cfg := testConfig()
	cfg.Registry.Enabled = false
	f := newFixture(cfg)
	prior := storedSubmission(t, sefipText, nil)
	f.expectLock()
	f.store.On("GetLatest", mock.Anything, nit).Return(prior, nil)

	out, err := f.svc.Process(context.Background(), &service.ProcessInput{Text: sefipText})

	require.NoError(t, err)
	assert.True(t, out.Reconciliation.Duplicate)
	assert.Equal(t, prior.Fingerprint, out.Reconciliation.Fingerprint)
	assert.Len(t, out.Reconciliation.Diff.Unchanged, 1)
	assert.Same(t, prior, out.Submission)
	f.store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFilingService_Process_Rectification(t *testing.T) {
	cfg := testConfig()
	cfg.Registry.Enabled = false
	f := newFixture(cfg)
	prior := storedSubmission(t, sefipText, func(recs []domain.Record) {
		recs[0].Remuneration = decimal.NewNullDecimal(decimal.RequireFromString("2000.00"))
		recs[0].RemunerationLiteral = "2.000,00"
	})
	f.expectLock()
	f.store.On("GetLatest", mock.Anything, nit).Return(prior, nil)
	f.store.On("FindByFingerprint", mock.Anything, nit, mock.Anything).Return(nil, domain.ErrNotFound)
	f.store.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := f.svc.Process(context.Background(), &service.ProcessInput{Text: sefipText})

	require.NoError(t, err)
	assert.False(t, out.Reconciliation.Duplicate)
	assert.Equal(t, prior.Fingerprint, out.Reconciliation.PriorFingerprint)
	require.Len(t, out.Reconciliation.Diff.Rectifications, 1)
	rect := out.Reconciliation.Diff.Rectifications[0]
	assert.True(t, decimal.RequireFromString("2000").Equal(rect.OldValue.Decimal))
	assert.True(t, decimal.RequireFromString("2345.67").Equal(rect.NewValue.Decimal))

	require.NotNil(t, out.Submission.PriorID)
	assert.Equal(t, prior.ID, *out.Submission.PriorID)
	assert.Equal(t, 1, out.Submission.Rectifications)
}

func TestFilingService_Process_MatchesOlderSubmission(t *testing.T) {
	cfg := testConfig()
	cfg.Registry.Enabled = false
	f := newFixture(cfg)
	latest := storedSubmission(t, sefipText, func(recs []domain.Record) {
		recs[0].Late = false
	})
	older := storedSubmission(t, sefipText, nil)
	f.expectLock()
	f.store.On("GetLatest", mock.Anything, nit).Return(latest, nil)
	f.store.On("FindByFingerprint", mock.Anything, nit, older.Fingerprint).Return(older, nil)

	out, err := f.svc.Process(context.Background(), &service.ProcessInput{Text: sefipText})

	require.NoError(t, err)
	assert.True(t, out.Reconciliation.Duplicate)
	assert.Same(t, older, out.Submission)
	f.store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFilingService_Process_UnknownLayout(t *testing.T) {
	f := newFixture(testConfig())

	_, err := f.svc.Process(context.Background(), &service.ProcessInput{Text: "Extrato bancário\nSaldo 10,00"})

	assert.ErrorIs(t, err, domain.ErrLayoutUnidentified)
	f.repo.AssertNotCalled(t, "RunLocked", mock.Anything, mock.Anything)
}

func TestFilingService_Process_MissingNIT(t *testing.T) {
	f := newFixture(testConfig())
	text := strings.Replace(sefipText, "NIT: 987.65432.10-0\n", "", 1)
	text = strings.Replace(text, "GFIP 98765432100 ", "GFIP ", 1)

	_, err := f.svc.Process(context.Background(), &service.ProcessInput{Text: text})

	assert.Error(t, err)
	f.repo.AssertNotCalled(t, "RunLocked", mock.Anything, mock.Anything)
}

func TestFilingService_Process_LockFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Registry.Enabled = false
	f := newFixture(cfg)
	f.repo.On("RunLocked", mock.Anything, nit).Return(errors.New("connection refused"))

	_, err := f.svc.Process(context.Background(), &service.ProcessInput{Text: sefipText})

	assert.ErrorContains(t, err, "connection refused")
}

func TestFilingService_Process_ArchivesSource(t *testing.T) {
	cfg := testConfig()
	cfg.Registry.Enabled = false
	cfg.S3 = config.S3Config{Bucket: "archive", ArchivePrefix: "gfip", PresignExpiry: 60}
	f := newFixture(cfg)
	f.expectLock()
	f.store.On("GetLatest", mock.Anything, nit).Return(nil, domain.ErrNotFound)
	f.store.On("FindByFingerprint", mock.Anything, nit, mock.Anything).Return(nil, domain.ErrNotFound)
	f.store.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "archive" &&
			strings.HasPrefix(in.Key, "gfip/"+nit+"/") &&
			strings.HasSuffix(in.Key, ".pdf") &&
			in.Metadata["nit"] == nit
	})).Return(&port.UploadOutput{}, nil)

	out, err := f.svc.Process(context.Background(), &service.ProcessInput{
		Text:        sefipText,
		File:        []byte("%PDF-1.4"),
		ContentType: "application/pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, "gfip/"+nit+"/"+out.Reconciliation.Fingerprint+".pdf", out.Submission.ArchiveKey)
	f.storage.AssertExpectations(t)
}

func TestFilingService_Process_ArchiveFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Registry.Enabled = false
	cfg.S3 = config.S3Config{Bucket: "archive"}
	f := newFixture(cfg)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("s3 down"))

	_, err := f.svc.Process(context.Background(), &service.ProcessInput{Text: sefipText, File: []byte("x"), ContentType: "text/plain"})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	f.repo.AssertNotCalled(t, "RunLocked", mock.Anything, mock.Anything)
}

func TestFilingService_Extract_TextFile(t *testing.T) {
	cfg := testConfig()
	cfg.Registry.Enabled = false
	f := newFixture(cfg)
	f.expectLock()
	f.store.On("GetLatest", mock.Anything, nit).Return(nil, domain.ErrNotFound)
	f.store.On("FindByFingerprint", mock.Anything, nit, mock.Anything).Return(nil, domain.ErrNotFound)
	f.store.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := f.svc.Extract(context.Background(), service.ExtractInput{
		File:     strings.NewReader(sefipText),
		FileName: "ci.TXT",
		Size:     int64(len(sefipText)),
	})

	require.NoError(t, err)
	assert.Equal(t, "ci.TXT", out.Submission.SourceName)
	f.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestFilingService_Extract_ImageUsesExtractor(t *testing.T) {
	cfg := testConfig()
	cfg.Registry.Enabled = false
	f := newFixture(cfg)
	png := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, bytes.Repeat([]byte{0x00}, 100)...)
	f.extractor.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.ContentType == "image/png" && in.FileName == "scan.png"
	})).Return(&port.ExtractOutput{Text: sefipText, Provider: "http"}, nil)
	f.expectLock()
	f.store.On("GetLatest", mock.Anything, nit).Return(nil, domain.ErrNotFound)
	f.store.On("FindByFingerprint", mock.Anything, nit, mock.Anything).Return(nil, domain.ErrNotFound)
	f.store.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := f.svc.Extract(context.Background(), service.ExtractInput{File: bytes.NewReader(png), FileName: "scan.png", Size: int64(len(png))})

	require.NoError(t, err)
	assert.Equal(t, 1, out.Submission.RecordCount)
}

func TestFilingService_Extract_ExtractorFailure(t *testing.T) {
	f := newFixture(testConfig())
	png := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, bytes.Repeat([]byte{0x00}, 100)...)
	f.extractor.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("ocr timeout"))

	_, err := f.svc.Extract(context.Background(), service.ExtractInput{File: bytes.NewReader(png), FileName: "scan.png"})

	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.ErrorContains(t, err, "ocr timeout")
}

func TestFilingService_Extract_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content []byte
		size    int64
		wantErr error
	}{
		{"unsupported extension", "ci.docx", []byte("PK"), 2, domain.ErrUnsupportedFileType},
		{"declared size too large", "ci.txt", []byte("x"), 2 * 1024 * 1024, domain.ErrFileTooLarge},
		{"actual size too large", "ci.txt", bytes.Repeat([]byte("a"), 1024*1024+1), 0, domain.ErrFileTooLarge},
		{"content does not match extension", "ci.pdf", []byte(sefipText), 0, domain.ErrUnsupportedFileType},
		{"unreadable pdf", "ci.pdf", []byte("%PDF-1.4 this is not really a pdf"), 0, domain.ErrUnreadablePDF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(testConfig())

			_, err := f.svc.Extract(context.Background(), service.ExtractInput{
				File:     bytes.NewReader(tt.content),
				FileName: tt.file,
				Size:     tt.size,
			})

			assert.ErrorIs(t, err, tt.wantErr)
			f.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
		})
	}
}

func TestFilingService_GetByID_PresignsArchive(t *testing.T) {
	cfg := testConfig()
	cfg.S3 = config.S3Config{Bucket: "archive", PresignExpiry: 60}
	f := newFixture(cfg)
	sub := storedSubmission(t, sefipText, nil)
	sub.ArchiveKey = "gfip/x.pdf"
	f.repo.On("GetByID", mock.Anything, sub.ID).Return(sub, nil)
	f.storage.On("GetPresignedURL", mock.Anything, "archive", "gfip/x.pdf", int64(60)).Return("https://signed", nil)

	view, err := f.svc.GetByID(context.Background(), sub.ID)

	require.NoError(t, err)
	assert.Equal(t, "https://signed", view.ArchiveURL)
	assert.Equal(t, sub.ID, view.ID)
}

func TestFilingService_GetByID_NotFound(t *testing.T) {
	f := newFixture(testConfig())
	id := uuid.New()
	f.repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	_, err := f.svc.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFilingService_GetLatest_NoArchive(t *testing.T) {
	f := newFixture(testConfig())
	sub := storedSubmission(t, sefipText, nil)
	f.repo.On("GetLatest", mock.Anything, nit).Return(sub, nil)

	view, err := f.svc.GetLatest(context.Background(), nit)

	require.NoError(t, err)
	assert.Empty(t, view.ArchiveURL)
	f.storage.AssertNotCalled(t, "GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFilingService_InvalidNIT(t *testing.T) {
	f := newFixture(testConfig())

	_, err := f.svc.GetLatest(context.Background(), "123")
	assert.ErrorIs(t, err, domain.ErrInvalidNIT)

	_, _, err = f.svc.ListByPerson(context.Background(), "abcdefghijk", 0, 20)
	assert.ErrorIs(t, err, domain.ErrInvalidNIT)

	err = f.svc.ExportLatest(context.Background(), "", domain.ExportCSV, &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrInvalidNIT)
}

func TestFilingService_ListByPerson(t *testing.T) {
	f := newFixture(testConfig())
	subs := []domain.Submission{*storedSubmission(t, sefipText, nil)}
	f.repo.On("ListByPerson", mock.Anything, nit, 20, 10).Return(subs, 21, nil)

	got, total, err := f.svc.ListByPerson(context.Background(), nit, 20, 10)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 21, total)
}

func TestFilingService_ExportLatest(t *testing.T) {
	f := newFixture(testConfig())
	f.repo.On("GetLatest", mock.Anything, nit).Return(storedSubmission(t, sefipText, nil), nil)

	var buf bytes.Buffer
	err := f.svc.ExportLatest(context.Background(), nit, domain.ExportCSV, &buf)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "11222333000181")
	assert.Contains(t, buf.String(), "2345.67")
}
