package rdml

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel schema errors wrapped by FieldError during construction and parse.
var (
	// ErrTypeMismatch reports a value outside its declared type or enumerated set.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrMissingRequiredField reports an absent mandatory field.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrUnsupportedVersion reports a document whose version attribute is not
	// in the supported set.
	ErrUnsupportedVersion = errors.New("unsupported rdml version")
)

// FieldError reports a schema violation on a single field. Path locates the
// offending node, e.g. "sample[s1].type".
type FieldError struct {
	Path   string
	Err    error
	Detail string
}

func (e *FieldError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v: %s", e.Path, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func missingField(path string) error {
	return &FieldError{Path: path, Err: ErrMissingRequiredField}
}

func typeMismatch(path, detail string) error {
	return &FieldError{Path: path, Err: ErrTypeMismatch, Detail: detail}
}

// ParseError reports a fatal structural failure while reading a document.
// Path names the markup element at which parsing stopped.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("rdml: parse %s: %v", e.Path, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// DanglingReference identifies a cross-reference that does not resolve to an
// entity in its target collection.
type DanglingReference struct {
	Collection string // target collection name, e.g. "sample"
	ID         string // unresolved identifier
	Path       string // node holding the reference
}

func (r DanglingReference) String() string {
	return fmt.Sprintf("%s -> %s[%s]", r.Path, r.Collection, r.ID)
}

// DanglingReferenceError aggregates every unresolved cross-reference found by
// Document.Validate so callers can report all problems at once.
type DanglingReferenceError struct {
	Refs []DanglingReference
}

func (e *DanglingReferenceError) Error() string {
	parts := make([]string, 0, len(e.Refs))
	for _, r := range e.Refs {
		parts = append(parts, r.String())
	}
	return fmt.Sprintf("rdml: %d dangling reference(s): %s", len(e.Refs), strings.Join(parts, "; "))
}

// ValidationError is returned by the serializer when the tree fails
// validation; no output is emitted in that case.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return fmt.Sprintf("rdml: serialization aborted: %v", e.Err) }

func (e *ValidationError) Unwrap() error { return e.Err }

// UnknownColumnError reports a fluorescence matrix column with no matching
// descriptor table row. The tree is left unmodified.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("rdml: no descriptor row for column %q", e.Column)
}
