package server

import (
	"errors"
	"fmt"
)

// ErrNoStore is returned by ListenAndServe when no page store is configured.
var ErrNoStore = errors.New("server: no page store configured")

// PanicError carries a panic recovered while composing a page.
type PanicError struct {
	Page  string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("page %q: panic during construction: %v", e.Page, e.Value)
}
