package generator

import (
	"errors"

	"github.com/ziadkadry99/stockseo/internal/i18n"
	"github.com/ziadkadry99/stockseo/internal/keywords"
)

var (
	ErrMissingCredential = keywords.ErrMissingCredential
	ErrNoTitle           = errors.New("no title given")
	ErrInvalidCount      = errors.New("keyword count out of range")
	ErrGenerationFailed  = errors.New("keyword generation failed")
	ErrBusy              = errors.New("a generation is already running")
	ErrCancelled         = errors.New("cancelled")
	ErrNotFound          = errors.New("not found")
)

// Kind maps an error returned by Generate to its ErrorKind. It returns ""
// for errors that are not part of the generation flow.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return KindMissingCredential
	case errors.Is(err, ErrNoTitle):
		return KindNoTitle
	case errors.Is(err, ErrInvalidCount):
		return KindInvalidCount
	case errors.Is(err, ErrGenerationFailed), errors.Is(err, keywords.ErrMalformedResponse):
		return KindGenerationFailed
	}
	return ""
}

var messageKeys = map[ErrorKind]string{
	KindMissingCredential: "generator.errorMissingKey",
	KindNoTitle:           "generator.errorNoTitle",
	KindInvalidCount:      "generator.errorInvalidCount",
	KindGenerationFailed:  "generator.errorFailed",
}

// Message returns the one user-facing message for err's class.
func Message(err error, c *i18n.Catalog) string {
	if errors.Is(err, ErrCancelled) {
		return c.T("generator.cancelled", nil)
	}
	if key, ok := messageKeys[Kind(err)]; ok {
		return c.T(key, nil)
	}
	return c.T("generator.errorFailed", nil)
}

// KindMessage is Message for a state's failure kind.
func KindMessage(kind ErrorKind, c *i18n.Catalog) string {
	if key, ok := messageKeys[kind]; ok {
		return c.T(key, nil)
	}
	return ""
}
