package chatbot

import (
	"fmt"
)

// Kind classifies why a turn could not complete.
type Kind string

const (
	KindExtraction  Kind = "extraction"
	KindStore       Kind = "store"
	KindVectorIndex Kind = "vector_index"
	KindCompletion  Kind = "completion"
	KindSentiment   Kind = "sentiment"
	KindValidation  Kind = "validation"
)

// TurnError is the failure result of a handler. Reply is what the user sees; Kind and Err
// are kept for logging. Only Bot.Respond turns a TurnError into a reply.
type TurnError struct {
	Kind  Kind
	Reply string
	Err   error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}

func fail(kind Kind, reply string, err error) *TurnError {
	return &TurnError{Kind: kind, Reply: reply, Err: err}
}

func extractionFailed(err error) *TurnError {
	return fail(KindExtraction, MsgError, err)
}

func storeFailed(reply string, err error) *TurnError {
	return fail(KindStore, reply, err)
}
