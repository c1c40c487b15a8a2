// Package cli implements the command-line interface.
package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by agents.
const (
	// Config errors
	ErrConfigInvalid = "CONFIG_INVALID"

	// File errors
	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Document errors
	ErrImportInvalid = "IMPORT_INVALID"
	ErrSchemaUnknown = "SCHEMA_UNKNOWN"
	ErrFieldNotFound = "FIELD_NOT_FOUND"
	ErrExprInvalid   = "EXPRESSION_INVALID"
	ErrFormatInvalid = "FORMAT_INVALID"
	ErrViewInvalid   = "VIEW_INVALID"
	ErrInvalidInput  = "INVALID_INPUT"

	// Argument errors
	ErrMissingArgument = "MISSING_ARGUMENT"

	// Workspace errors
	ErrWorkspaceError   = "WORKSPACE_ERROR"
	ErrDocumentNotFound = "DOCUMENT_NOT_FOUND"
	ErrDocumentExists   = "DOCUMENT_EXISTS"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnConversion = "CONVERSION_WARNING"
	WarnValidation = "VALIDATION_WARNING"
)
