package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrModelUnavailable means no trained artifact is loaded. It is fatal for
// the whole batch: without a model nothing can be scored.
var ErrModelUnavailable = errors.New("no trained model artifact loaded")

// ErrCacheMiss is returned by score caches when no live entry exists for a
// fingerprint.
var ErrCacheMiss = errors.New("score cache miss")

// SchemaMismatchError means a feature vector's length or order disagrees
// with the schema the model was trained on. It is fatal for the affected
// lead only: the lead is reported as failed rather than scored wrong.
type SchemaMismatchError struct {
	Want []string
	Got  []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("feature schema mismatch: model expects [%s], got [%s]",
		strings.Join(e.Want, " "), strings.Join(e.Got, " "))
}

// IsSchemaMismatch reports whether err is, or wraps, a schema mismatch.
func IsSchemaMismatch(err error) bool {
	var sm *SchemaMismatchError
	return errors.As(err, &sm)
}
