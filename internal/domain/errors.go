package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("pricing: not found")

	// ErrApprovalBlocked is returned by the validation gate when an import
	// preview still carries errors. The gate enforces this itself; callers
	// must not rely on UI state alone.
	ErrApprovalBlocked = errors.New("pricing: import preview has validation errors")

	// ErrReasonRequired rejects audit-less rejections.
	ErrReasonRequired = errors.New("pricing: rejection requires a reason")

	// ErrPreviewConsumed guards the single-use lifecycle of an import preview.
	ErrPreviewConsumed = errors.New("pricing: import preview already consumed")

	// ErrUnsupportedFileType rejects uploads the format adapters cannot read.
	// The import flow returns to its initial state with nothing retained.
	ErrUnsupportedFileType = errors.New("pricing: unsupported file type")
)

// ConfigurationError means a room type's bounds are self-contradictory.
// Nothing is generated; the caller surfaces it to the room-type editor.
type ConfigurationError struct {
	RoomTypeID string
	Reason     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("room type %s: %s", e.RoomTypeID, e.Reason)
}

// ParseFailure wraps a format adapter failure. The offending file name is
// carried so it can be shown verbatim; nothing from the file is merged.
type ParseFailure struct {
	FileName string
	FileType FileType
	Err      error
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("parse %s (%s): %v", e.FileName, e.FileType, e.Err)
}

func (e *ParseFailure) Unwrap() error { return e.Err }
