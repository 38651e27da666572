package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cigfip/internal/domain"
	"cigfip/internal/export"
	"cigfip/internal/service"
)

// FilingHandler handles CI GFIP parsing, reconciliation and history endpoints.
type FilingHandler struct {
	filingService service.FilingService
}

// NewFilingHandler creates a new FilingHandler.
func NewFilingHandler(filingService service.FilingService) *FilingHandler {
	return &FilingHandler{filingService: filingService}
}

// Parse handles POST /api/v1/filings/parse
// @Summary Parse CI GFIP text
// @Description Parse page-concatenated CI GFIP text without storing anything. Unknown layouts are reported in the result, not as an HTTP error.
// @Tags filings
// @Accept json
// @Produce json
// @Param body body ParseRequest true "Text to parse"
// @Success 200 {object} Response{data=gfip.Result} "Parse result"
// @Failure 400 {object} ErrorResponseBody "Missing or empty text"
// @Router /filings/parse [post]
func (h *FilingHandler) Parse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "texto is required")
		return
	}

	res, err := h.filingService.Parse(c.Request.Context(), service.ParseInput{
		Text:       req.Text,
		Profession: req.Profession,
		Region:     req.Region,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// ParseBatch handles POST /api/v1/filings/parse/batch
// @Summary Parse several CI GFIP texts
// @Description Parse texts in parallel; results keep the request order.
// @Tags filings
// @Accept json
// @Produce json
// @Param body body ParseBatchRequest true "Texts to parse"
// @Success 200 {object} Response{data=[]gfip.Result} "Parse results"
// @Failure 400 {object} ErrorResponseBody "Empty or oversized batch"
// @Router /filings/parse/batch [post]
func (h *FilingHandler) ParseBatch(c *gin.Context) {
	var req ParseBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "textos is required")
		return
	}

	results, err := h.filingService.ParseBatch(c.Request.Context(), req.Texts)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, results)
}

// Extract handles POST /api/v1/filings/extract
// @Summary Upload a CI GFIP document
// @Description Extract text from an uploaded document (PDF, JPG, PNG or TXT), parse it, reconcile it against the person's latest submission and store it.
// @Tags filings
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CI GFIP document"
// @Param profissao formData string false "Profession of the insured person"
// @Param estado formData string false "State of the insured person"
// @Success 201 {object} Response{data=service.ProcessResult} "New submission stored"
// @Success 200 {object} Response{data=service.ProcessResult} "Duplicate of a stored submission"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} ErrorResponseBody "Unknown layout or no NIT"
// @Failure 502 {object} ErrorResponseBody "Text extraction failed"
// @Failure 503 {object} ErrorResponseBody "Extractor rate limited"
// @Router /filings/extract [post]
func (h *FilingHandler) Extract(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	out, err := h.filingService.Extract(c.Request.Context(), service.ExtractInput{
		File:       file,
		FileName:   header.Filename,
		Size:       header.Size,
		Profession: c.PostForm("profissao"),
		Region:     c.PostForm("estado"),
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	respondProcessed(c, out)
}

// Reconcile handles POST /api/v1/filings/reconcile
// @Summary Parse, reconcile and store CI GFIP text
// @Tags filings
// @Accept json
// @Produce json
// @Param body body ReconcileRequest true "Text to ingest"
// @Success 201 {object} Response{data=service.ProcessResult} "New submission stored"
// @Success 200 {object} Response{data=service.ProcessResult} "Duplicate of a stored submission"
// @Failure 400 {object} ErrorResponseBody "Missing or invalid input"
// @Failure 422 {object} ErrorResponseBody "Unknown layout or no NIT"
// @Router /filings/reconcile [post]
func (h *FilingHandler) Reconcile(c *gin.Context) {
	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "texto is required")
		return
	}

	out, err := h.filingService.Process(c.Request.Context(), &service.ProcessInput{
		Text:       req.Text,
		Profession: req.Profession,
		Region:     req.Region,
		SourceName: req.SourceName,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	respondProcessed(c, out)
}

func respondProcessed(c *gin.Context, out *service.ProcessResult) {
	if out.Reconciliation != nil && out.Reconciliation.Duplicate {
		RespondOK(c, out)
		return
	}
	RespondCreated(c, out)
}

// ListSubmissions handles GET /api/v1/people/:nit/submissions
// @Summary List a person's submissions
// @Tags submissions
// @Produce json
// @Param nit path string true "NIT (11 digits)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Submission,meta=PagMeta} "Submissions, newest first"
// @Failure 400 {object} ErrorResponseBody "Invalid NIT"
// @Router /people/{nit}/submissions [get]
func (h *FilingHandler) ListSubmissions(c *gin.Context) {
	nit := normalizeNIT(c.Param("nit"))
	offset, limit := parsePagination(c)

	subs, total, err := h.filingService.ListByPerson(c.Request.Context(), nit, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	if subs == nil {
		subs = []domain.Submission{}
	}
	RespondPaginated(c, subs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetLatest handles GET /api/v1/people/:nit/submissions/latest
// @Summary Get a person's latest submission
// @Tags submissions
// @Produce json
// @Param nit path string true "NIT (11 digits)"
// @Success 200 {object} Response{data=service.SubmissionView} "Latest submission"
// @Failure 400 {object} ErrorResponseBody "Invalid NIT"
// @Failure 404 {object} ErrorResponseBody "No submission for this person"
// @Router /people/{nit}/submissions/latest [get]
func (h *FilingHandler) GetLatest(c *gin.Context) {
	view, err := h.filingService.GetLatest(c.Request.Context(), normalizeNIT(c.Param("nit")))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// ExportLatest handles GET /api/v1/people/:nit/submissions/latest/export
// @Summary Export a person's latest record set
// @Tags submissions
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param nit path string true "NIT (11 digits)"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file "Export file"
// @Failure 400 {object} ErrorResponseBody "Invalid NIT or format"
// @Failure 404 {object} ErrorResponseBody "No submission for this person"
// @Router /people/{nit}/submissions/latest/export [get]
func (h *FilingHandler) ExportLatest(c *gin.Context) {
	nit := normalizeNIT(c.Param("nit"))
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	// Render fully before writing headers so failures still get a JSON error.
	var buf bytes.Buffer
	if err := h.filingService.ExportLatest(c.Request.Context(), nit, format, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename(nit, format, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType(format), buf.Bytes())
}

// GetSubmission handles GET /api/v1/submissions/:id
// @Summary Get a submission by ID
// @Tags submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} Response{data=service.SubmissionView} "Submission with archive link"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Submission not found"
// @Router /submissions/{id} [get]
func (h *FilingHandler) GetSubmission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid submission ID")
		return
	}

	view, err := h.filingService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// normalizeNIT accepts NITs with the usual punctuation (123.45678.90-1).
func normalizeNIT(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || r == '-' || r == ' ' {
			return -1
		}
		return r
	}, s)
}
