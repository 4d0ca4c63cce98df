package slot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMissingField is matched by every *MissingFieldError.
var ErrMissingField = errors.New("slot: field not set")

// MissingFieldError is returned by a generated Build method when one or more
// fields of the record were never set.
type MissingFieldError struct {
	// Record is the name of the record being built.
	Record string
	// Fields lists the unset fields in declaration order.
	Fields []string
}

// Missing returns the error for a single unset field.
func Missing(record, field string) error {
	return &MissingFieldError{Record: record, Fields: []string{field}}
}

// Field returns the first unset field.
func (e *MissingFieldError) Field() string {
	if len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0]
}

func (e *MissingFieldError) Error() string {
	quoted := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		quoted[i] = strconv.Quote(f)
	}
	if len(quoted) == 1 {
		return fmt.Sprintf("slot: %s: field %s not set", e.Record, quoted[0])
	}
	return fmt.Sprintf("slot: %s: fields %s not set", e.Record, strings.Join(quoted, ", "))
}

// Is makes errors.Is(err, ErrMissingField) succeed.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// MissingFields collects unset fields so Build can report all of them at once.
type MissingFields struct {
	Record string
	fields []string
}

// Add records field as unset.
func (m *MissingFields) Add(field string) {
	m.fields = append(m.fields, field)
}

// Any reports whether at least one field was added.
func (m *MissingFields) Any() bool {
	return len(m.fields) > 0
}

// Err returns a *MissingFieldError naming every added field, or nil.
func (m *MissingFields) Err() error {
	if !m.Any() {
		return nil
	}
	fields := make([]string, len(m.fields))
	copy(fields, m.fields)
	return &MissingFieldError{Record: m.Record, Fields: fields}
}
