package domain

import "errors"

// Sentinel errors for the journalpost domain. Use errors.Is() to check these.
var (
	// ErrArchive indicates an unexpected answer from the document archive.
	ErrArchive = errors.New("dokarkiv error")

	// ErrNotFinalized indicates the archive did not finalize a journal post
	// that was created with forsoekFerdigstill. It also matches ErrArchive.
	ErrNotFinalized = notFinalizedError{}

	// ErrConflict indicates the archive answered 409 Conflict.
	ErrConflict = errors.New("dokarkiv conflict")

	// ErrPdf indicates PDF rendering or merging failed.
	ErrPdf = errors.New("pdf generation failed")

	// ErrCoverSheet indicates the cover sheet generator failed.
	ErrCoverSheet = errors.New("cover sheet generation failed")

	// ErrLookup indicates the archive lookup (SAF) failed.
	ErrLookup = errors.New("journalpost lookup failed")

	// ErrRecordNotFound indicates the archive lookup found no journal post.
	ErrRecordNotFound = errors.New("journalpost not found")

	// ErrUnsupportedStatus indicates a journal post status no workflow handles.
	ErrUnsupportedStatus = errors.New("unsupported journalpost status")

	// ErrUnsupportedSakstype indicates a sakstype no workflow handles.
	ErrUnsupportedSakstype = errors.New("unsupported sakstype")

	// ErrNoDocuments indicates a journal post request without documents.
	ErrNoDocuments = errors.New("no documents added")
)

type notFinalizedError struct{}

func (notFinalizedError) Error() string { return "journalpost was not finalized" }

func (notFinalizedError) Is(target error) bool { return target == ErrArchive }
