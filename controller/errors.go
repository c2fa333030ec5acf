package controller

import "errors"

var (
	ErrParseRequest = errors.New("failed to parse request")

	ErrCreateSession      = errors.New("failed to create a chat session")
	ErrGetSessions        = errors.New("failed to get chat sessions")
	ErrDeleteSession      = errors.New("failed to delete a chat session")
	ErrGetSessionMessages = errors.New("failed to get session messages")
	ErrUpdateSessionTitle = errors.New("failed to update session title")
	ErrClearSessionMemory = errors.New("failed to clear session memory")
	ErrSessionNotFound    = errors.New("chat session not found")

	ErrCreateActivity          = errors.New("failed to create activity")
	ErrGetPendingReservations  = errors.New("failed to get pending reservations")
	ErrGetPendingReviews       = errors.New("failed to get pending reviews")
	ErrIngestCompanyDocument   = errors.New("failed to ingest company document")
	ErrGetCompanyDocuments     = errors.New("failed to get company documents")
	ErrUnsupportedDocumentType = errors.New("unsupported document type")
)
