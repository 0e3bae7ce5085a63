package extract

import (
	"errors"
	"fmt"
)

// ErrSelectorMiss is returned when a required region is missing from a quote block
var ErrSelectorMiss = errors.New("selector not found")

// BlockParseError reports which field of which quote block could not be located
type BlockParseError struct {
	Field    string
	Selector string
	Index    int
}

// Error implements the error interface
func (e *BlockParseError) Error() string {
	return fmt.Sprintf("quote block %d: %s region %q: %v", e.Index, e.Field, e.Selector, ErrSelectorMiss)
}

// Unwrap returns ErrSelectorMiss so callers can match the failure kind
func (e *BlockParseError) Unwrap() error {
	return ErrSelectorMiss
}
