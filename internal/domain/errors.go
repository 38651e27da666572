package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrTooManyPages        = errors.New("document exceeds maximum allowed page count")
	ErrUnreadablePDF       = errors.New("pdf could not be read")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrExtractionFailed    = errors.New("text extraction failed")
	ErrEmptyText           = errors.New("document text is empty")
	ErrLayoutUnidentified  = errors.New("document layout not identified")
	ErrIdentityNotFound    = errors.New("no NIT found in document")
	ErrInvalidNIT          = errors.New("invalid NIT")
	ErrInvalidExportFormat = errors.New("invalid export format")
	ErrDuplicateSubmission = errors.New("submission already stored for this person")
	ErrBatchTooLarge       = errors.New("too many texts in batch")
)
