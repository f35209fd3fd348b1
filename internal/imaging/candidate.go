// Package imaging resolves an input path into print candidates and validates
// each candidate before anything is uploaded.
//
// Resolution is read-only: a file path becomes a single candidate, a
// directory is scanned (non-recursively) for JPG and PNG files in filename
// order. Validation runs a fixed sequence of checks per candidate and
// records the first failure; a rejected candidate never aborts the batch.
package imaging

import (
	"path/filepath"
	"strings"
	"time"
)

// RejectReason categorizes why a candidate failed validation.
type RejectReason int

const (
	// ReasonNone means the candidate passed all checks.
	ReasonNone RejectReason = iota
	// ReasonFileNotFound indicates the file disappeared after resolution.
	ReasonFileNotFound
	// ReasonUnsupportedFormat indicates a file extension other than JPG or PNG.
	ReasonUnsupportedFormat
	// ReasonInvalidFilename indicates characters the print service rejects.
	ReasonInvalidFilename
	// ReasonCorruptImage indicates the image header could not be decoded.
	ReasonCorruptImage
	// ReasonTooLarge indicates the configured size or resolution limit was exceeded.
	ReasonTooLarge
)

func (r RejectReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonFileNotFound:
		return "file not found"
	case ReasonUnsupportedFormat:
		return "unsupported format"
	case ReasonInvalidFilename:
		return "invalid filename"
	case ReasonCorruptImage:
		return "corrupt image"
	case ReasonTooLarge:
		return "too large"
	default:
		return "unknown"
	}
}

// Candidate is a single image under consideration for the print order.
type Candidate struct {
	Path string
	Ext  string
	Size int64

	Valid  bool
	Reason RejectReason
	Detail string

	// TakenAt is the EXIF capture date when available. Best effort; the
	// zero value means no usable metadata was found.
	TakenAt time.Time
}

// newCandidate builds an unvalidated candidate for the given path.
func newCandidate(path string, size int64) Candidate {
	return Candidate{
		Path: path,
		Ext:  strings.ToLower(filepath.Ext(path)),
		Size: size,
	}
}

// Report is the outcome of validating a batch of candidates. Accepted and
// Rejected are disjoint and each preserves the resolution order.
type Report struct {
	Accepted []Candidate
	Rejected []Candidate
}

// Total returns the number of candidates the report covers.
func (r Report) Total() int {
	return len(r.Accepted) + len(r.Rejected)
}
