package synth

import (
	"errors"
	"fmt"

	"github.com/origadmin/buildergen/internal/model"
)

var (
	// ErrUnsupportedShape is returned for declarations that are not records
	// with named fields.
	ErrUnsupportedShape = errors.New("unsupported shape")
	// ErrInvalidDeclaration is returned for malformed declarations.
	ErrInvalidDeclaration = errors.New("invalid declaration")
	// ErrNameCollision is returned when a generated name is already taken.
	ErrNameCollision = errors.New("name collision")
)

// UnsupportedShapeError reports the shape a rejected declaration actually has.
type UnsupportedShapeError struct {
	Record string
	Shape  model.Kind
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("%s: %s is a %s, builders need a struct with named fields", ErrUnsupportedShape, e.Record, e.Shape)
}

func (e *UnsupportedShapeError) Unwrap() error {
	return ErrUnsupportedShape
}

// NameCollisionError reports a generated name that is already declared.
type NameCollisionError struct {
	Record string
	Name   string
	// With describes what already holds the name.
	With string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("%s: %s: %s is already declared as %s", ErrNameCollision, e.Record, e.Name, e.With)
}

func (e *NameCollisionError) Unwrap() error {
	return ErrNameCollision
}

func invalid(record, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidDeclaration, record, fmt.Sprintf(format, args...))
}
