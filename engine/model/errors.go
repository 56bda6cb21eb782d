package model

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every fatal load error matches exactly one of these with errors.Is.
var (
	ErrFetch     = errors.New("fetch error")
	ErrFormat    = errors.New("format error")
	ErrReference = errors.New("reference error")
	ErrConfig    = errors.New("config error")
)

// Error details.
var (
	ErrDanglingReference        = errors.New("dangling reference")
	ErrDuplicateParent          = errors.New("node has more than one parent")
	ErrNodeCycle                = errors.New("node is its own ancestor")
	ErrOutOfRange               = errors.New("byte range out of bounds")
	ErrUnknownComponentType     = errors.New("unknown component type")
	ErrUnknownElementType       = errors.New("unknown element type")
	ErrUnsupportedComponentType = errors.New("unsupported component type")
	ErrMissingAttribute         = errors.New("missing required attribute")
	ErrMissingURI               = errors.New("missing uri")
)

// Error is a load failure tied to a glTF resource.
type Error struct {
	// Kind is one of ErrFetch, ErrFormat, ErrReference or ErrConfig.
	Kind error
	// Resource is the glTF collection name, such as "accessor" or "node".
	Resource string
	// ID is the resource id within its collection.
	ID string
	// Field names the offending property, if any.
	Field string
	// Err is the underlying detail.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("gltf: ")
	b.WriteString(e.Kind.Error())
	if e.Resource != "" {
		fmt.Fprintf(&b, ": %s %q", e.Resource, e.ID)
	}
	if e.Field != "" {
		b.WriteString(" ")
		b.WriteString(e.Field)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// FormatError reports malformed data in a resource.
func FormatError(resource, id, field string, err error) *Error {
	return &Error{Kind: ErrFormat, Resource: resource, ID: id, Field: field, Err: err}
}

// ReferenceError reports a broken link between resources.
func ReferenceError(resource, id, field string, err error) *Error {
	return &Error{Kind: ErrReference, Resource: resource, ID: id, Field: field, Err: err}
}

// DanglingError reports that field of resource id names a missing id.
func DanglingError(resource, id, field, missing string) *Error {
	return ReferenceError(resource, id, field, fmt.Errorf("%w %q", ErrDanglingReference, missing))
}

// FetchError wraps a transport failure for the resource's URI.
func FetchError(resource, id string, err error) *Error {
	return &Error{Kind: ErrFetch, Resource: resource, ID: id, Field: "uri", Err: err}
}

// ConfigError reports a document that cannot be loaded as configured.
func ConfigError(resource, id, field string, err error) *Error {
	return &Error{Kind: ErrConfig, Resource: resource, ID: id, Field: field, Err: err}
}
