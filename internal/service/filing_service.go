package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"cigfip/internal/config"
	"cigfip/internal/domain"
	"cigfip/internal/export"
	"cigfip/internal/gfip"
	"cigfip/internal/port"
	"cigfip/internal/reconcile"
)

// ParseInput is the DTO for a stateless parse.
type ParseInput struct {
	Text       string
	Profession string
	Region     string
}

// ProcessInput is the DTO for parsing, reconciling and storing a text.
// File, when set, is the source document and is archived alongside the
// stored submission.
type ProcessInput struct {
	Text        string
	Profession  string
	Region      string
	SourceName  string
	File        []byte
	ContentType string
}

// ExtractInput is the DTO for an uploaded CI GFIP document.
type ExtractInput struct {
	File       io.Reader
	FileName   string
	Size       int64
	Profession string
	Region     string
}

// ProcessResult is the outcome of ingesting one document.
type ProcessResult struct {
	Parse          *gfip.Result       `json:"resultado"`
	Reconciliation *reconcile.Result  `json:"reconciliacao"`
	Submission     *domain.Submission `json:"submissao"`
}

// SubmissionView is a stored submission plus a temporary link to its
// archived source document, when there is one.
type SubmissionView struct {
	*domain.Submission
	ArchiveURL string `json:"archive_url,omitempty"`
}

// FilingService defines the CI GFIP ingestion contract.
type FilingService interface {
	Parse(ctx context.Context, input ParseInput) (*gfip.Result, error)
	ParseBatch(ctx context.Context, texts []string) ([]*gfip.Result, error)
	Extract(ctx context.Context, input ExtractInput) (*ProcessResult, error)
	Process(ctx context.Context, input *ProcessInput) (*ProcessResult, error)
	GetLatest(ctx context.Context, nit string) (*SubmissionView, error)
	ListByPerson(ctx context.Context, nit string, offset, limit int) ([]domain.Submission, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*SubmissionView, error)
	ExportLatest(ctx context.Context, nit string, format domain.ExportFormat, w io.Writer) error
}

type filingService struct {
	repo      port.SubmissionRepository
	extractor port.TextExtractor
	registry  port.CompanyRegistry
	storage   port.ObjectStorage
	s3Cfg     *config.S3Config
	uploadCfg *config.UploadConfig
	batchCfg  *config.BatchConfig
	maxLookup int
}

// NewFilingService creates a new FilingService implementation. extractor,
// registry and storage are optional; a nil extractor only allows text
// uploads, a nil registry skips enrichment and a nil storage (or a disabled
// S3 config) skips archiving.
func NewFilingService(
	repo port.SubmissionRepository,
	extractor port.TextExtractor,
	registry port.CompanyRegistry,
	storage port.ObjectStorage,
	cfg *config.Config,
) FilingService {
	s := &filingService{
		repo:      repo,
		extractor: extractor,
		registry:  registry,
		storage:   storage,
		s3Cfg:     &cfg.S3,
		uploadCfg: &cfg.Upload,
		batchCfg:  &cfg.Batch,
	}
	if cfg.Registry.Enabled {
		s.maxLookup = cfg.Registry.MaxLookups
	}
	if !s.s3Cfg.Enabled() {
		s.storage = nil
	}
	return s
}

func (s *filingService) Parse(_ context.Context, input ParseInput) (*gfip.Result, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, domain.ErrEmptyText
	}
	res := gfip.Parse(input.Text)
	res.Header.Profession = strings.TrimSpace(input.Profession)
	res.Header.Region = strings.TrimSpace(input.Region)
	return res, nil
}

func (s *filingService) ParseBatch(ctx context.Context, texts []string) ([]*gfip.Result, error) {
	if len(texts) == 0 {
		return nil, domain.ErrEmptyText
	}
	if s.batchCfg.MaxTexts > 0 && len(texts) > s.batchCfg.MaxTexts {
		return nil, fmt.Errorf("%w: %d (max %d)", domain.ErrBatchTooLarge, len(texts), s.batchCfg.MaxTexts)
	}

	results := make([]*gfip.Result, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchCfg.Concurrency)
	for i, text := range texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = gfip.Parse(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *filingService) Extract(ctx context.Context, input ExtractInput) (*ProcessResult, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.uploadCfg.MaxFileSizeMB * 1024 * 1024
	if input.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(input.File, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Magic-byte check; the extension alone is not trusted.
	detected, valid := domain.AllowedContentTypes[http.DetectContentType(data)]
	if !valid || detected != fileType {
		return nil, domain.ErrUnsupportedFileType
	}
	contentType := domain.AllowedFileTypes[fileType]

	log.Printf("filingService.Extract: received %s (%s, %d bytes)", input.FileName, contentType, len(data))

	var text string
	switch fileType {
	case domain.FileTypeTXT:
		text = string(data)
	case domain.FileTypePDF:
		pages, perr := api.PageCount(bytes.NewReader(data), nil)
		if perr != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnreadablePDF, perr)
		}
		if s.uploadCfg.MaxPages > 0 && pages > s.uploadCfg.MaxPages {
			return nil, fmt.Errorf("%w: %d pages (max %d)", domain.ErrTooManyPages, pages, s.uploadCfg.MaxPages)
		}
		text, err = s.extractText(ctx, data, input.FileName, contentType)
	default:
		text, err = s.extractText(ctx, data, input.FileName, contentType)
	}
	if err != nil {
		return nil, err
	}

	return s.Process(ctx, &ProcessInput{
		Text:        text,
		Profession:  input.Profession,
		Region:      input.Region,
		SourceName:  input.FileName,
		File:        data,
		ContentType: contentType,
	})
}

func (s *filingService) extractText(ctx context.Context, data []byte, name, contentType string) (string, error) {
	if s.extractor == nil {
		return "", fmt.Errorf("%w: no extractor configured for %s", domain.ErrExtractionFailed, contentType)
	}
	out, err := s.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:   data,
		FileName:    name,
		ContentType: contentType,
	})
	if err != nil {
		log.Printf("filingService.Extract: extraction of %s failed: %v", name, err)
		if errors.Is(err, domain.ErrExtractionFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}
	log.Printf("filingService.Extract: %s extracted by %s (%d chars)", name, out.Provider, len(out.Text))
	return out.Text, nil
}

func (s *filingService) Process(ctx context.Context, input *ProcessInput) (*ProcessResult, error) {
	res, err := s.Parse(ctx, ParseInput{Text: input.Text, Profession: input.Profession, Region: input.Region})
	if err != nil {
		return nil, err
	}
	if res.Failed() {
		return nil, domain.ErrLayoutUnidentified
	}

	nit := res.Header.NIT
	if nit == "" {
		return nil, domain.ErrIdentityNotFound
	}
	if !domain.ValidNIT(nit) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidNIT, nit)
	}

	s.enrich(ctx, res.Records)

	set := res.RecordSet()
	fingerprint := reconcile.Fingerprint(set.Header, set.Records)

	archiveKey := ""
	if len(input.File) > 0 && s.storage != nil {
		archiveKey, err = s.archive(ctx, nit, fingerprint, input)
		if err != nil {
			return nil, err
		}
	}

	out := &ProcessResult{Parse: res}
	err = s.repo.RunLocked(ctx, nit, func(store port.SubmissionStore) error {
		var snapshot *reconcile.Snapshot
		prior, err := store.GetLatest(ctx, nit)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			prior = nil
		case err != nil:
			return err
		default:
			priorSet, derr := prior.RecordSet()
			if derr != nil {
				return derr
			}
			snapshot = &reconcile.Snapshot{Header: priorSet.Header, Records: priorSet.Records, Fingerprint: prior.Fingerprint}
		}

		recon := reconcile.Reconcile(&set, snapshot)
		out.Reconciliation = &recon
		if recon.Duplicate {
			out.Submission = prior
			return nil
		}

		// The same content may match an older submission rather than the latest.
		existing, err := store.FindByFingerprint(ctx, nit, recon.Fingerprint)
		if err == nil {
			recon.Duplicate = true
			out.Submission = existing
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		sub, err := domain.NewSubmission(&set, recon.Fingerprint)
		if err != nil {
			return err
		}
		sub.Complements = len(recon.Diff.Complements)
		sub.Rectifications = len(recon.Diff.Rectifications)
		sub.Unchanged = len(recon.Diff.Unchanged)
		sub.SourceName = input.SourceName
		sub.ArchiveKey = archiveKey
		if prior != nil {
			sub.PriorID = &prior.ID
		}
		if err := store.Create(ctx, sub); err != nil {
			return err
		}
		out.Submission = sub
		return nil
	})
	if err != nil {
		log.Printf("filingService.Process: storing submission for %s failed: %v", nit, err)
		return nil, fmt.Errorf("storing submission: %w", err)
	}

	log.Printf("filingService.Process: nit=%s fingerprint=%s duplicate=%t complements=%d rectifications=%d unchanged=%d",
		nit, out.Reconciliation.Fingerprint, out.Reconciliation.Duplicate,
		len(out.Reconciliation.Diff.Complements), len(out.Reconciliation.Diff.Rectifications),
		len(out.Reconciliation.Diff.Unchanged))
	return out, nil
}

// archiveKeyFor is {prefix}/{nit}/{fingerprint}.{ext}; identical content for
// a person always lands on the same key.
func (s *filingService) archiveKeyFor(nit, fingerprint, contentType string) string {
	ext := "bin"
	for ft, ct := range domain.AllowedFileTypes {
		if ct == contentType {
			ext = string(ft)
			break
		}
	}
	key := fmt.Sprintf("%s/%s.%s", nit, fingerprint, ext)
	if s.s3Cfg.ArchivePrefix != "" {
		key = s.s3Cfg.ArchivePrefix + "/" + key
	}
	return key
}

func (s *filingService) archive(ctx context.Context, nit, fingerprint string, input *ProcessInput) (string, error) {
	key := s.archiveKeyFor(nit, fingerprint, input.ContentType)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(input.File),
		ContentType: input.ContentType,
		Size:        int64(len(input.File)),
		Metadata: map[string]string{
			"nit":         nit,
			"fingerprint": fingerprint,
		},
	})
	if err != nil {
		log.Printf("filingService.archive: upload of %s failed: %v", key, err)
		return "", domain.ErrUploadFailed
	}
	return key, nil
}

// enrich resolves full CNPJs to company names. Lookups are best-effort:
// failures leave the name empty and never fail the submission.
func (s *filingService) enrich(ctx context.Context, records []domain.Record) {
	if s.registry == nil || s.maxLookup <= 0 {
		return
	}

	var cnpjs []string
	seen := make(map[string]bool)
	for i := range records {
		r := &records[i]
		if r.TaxpayerDocumentKind != domain.DocumentCNPJ || seen[r.TaxpayerDocument] {
			continue
		}
		seen[r.TaxpayerDocument] = true
		cnpjs = append(cnpjs, r.TaxpayerDocument)
		if len(cnpjs) == s.maxLookup {
			break
		}
	}
	if len(cnpjs) == 0 {
		return
	}

	var mu sync.Mutex
	names := make(map[string]string, len(cnpjs))
	var g errgroup.Group
	g.SetLimit(s.batchCfg.Concurrency)
	for _, cnpj := range cnpjs {
		g.Go(func() error {
			name, err := s.registry.LookupName(ctx, cnpj)
			if err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					log.Printf("filingService.enrich: lookup of %s failed: %v", cnpj, err)
				}
				return nil
			}
			mu.Lock()
			names[cnpj] = name
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for i := range records {
		if name, ok := names[records[i].TaxpayerDocument]; ok && records[i].TaxpayerDocumentKind == domain.DocumentCNPJ {
			records[i].TaxpayerName = name
		}
	}
}

func (s *filingService) GetLatest(ctx context.Context, nit string) (*SubmissionView, error) {
	if !domain.ValidNIT(nit) {
		return nil, domain.ErrInvalidNIT
	}
	sub, err := s.repo.GetLatest(ctx, nit)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, sub), nil
}

func (s *filingService) ListByPerson(ctx context.Context, nit string, offset, limit int) ([]domain.Submission, int, error) {
	if !domain.ValidNIT(nit) {
		return nil, 0, domain.ErrInvalidNIT
	}
	return s.repo.ListByPerson(ctx, nit, offset, limit)
}

func (s *filingService) GetByID(ctx context.Context, id uuid.UUID) (*SubmissionView, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, sub), nil
}

func (s *filingService) view(ctx context.Context, sub *domain.Submission) *SubmissionView {
	v := &SubmissionView{Submission: sub}
	if sub.ArchiveKey == "" || s.storage == nil {
		return v
	}
	url, err := s.storage.GetPresignedURL(ctx, s.s3Cfg.Bucket, sub.ArchiveKey, s.s3Cfg.PresignExpiry)
	if err != nil {
		log.Printf("filingService.view: presign of %s failed: %v", sub.ArchiveKey, err)
		return v
	}
	v.ArchiveURL = url
	return v
}

func (s *filingService) ExportLatest(ctx context.Context, nit string, format domain.ExportFormat, w io.Writer) error {
	if !domain.ValidNIT(nit) {
		return domain.ErrInvalidNIT
	}
	sub, err := s.repo.GetLatest(ctx, nit)
	if err != nil {
		return err
	}
	set, err := sub.RecordSet()
	if err != nil {
		return err
	}
	return export.Write(w, format, &set)
}
