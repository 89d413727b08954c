package model

import (
	"database/sql/driver"
	"fmt"
)

// Status is the submission lifecycle state. Draft is the only editable state;
// Submitted is terminal.
type Status int

const (
	Draft Status = iota + 1
	Submitted
)

func ParseStatus(s string) (Status, error) {
	switch s {
	case "draft":
		return Draft, nil
	case "submitted":
		return Submitted, nil
	}
	return 0, &ValidationError{Message: fmt.Sprintf("unknown status %q", s)}
}

func (s Status) String() string {
	switch s {
	case Draft:
		return "draft"
	case Submitted:
		return "submitted"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// CanEdit reports whether answers may still change.
func (s Status) CanEdit() error {
	switch s {
	case Draft:
		return nil
	case Submitted:
		return &ConflictError{Message: "only draft submissions can be edited"}
	}
	return fmt.Errorf("invalid status %d", int(s))
}

// Finalize returns the state reached by submitting from s.
func (s Status) Finalize() (Status, error) {
	switch s {
	case Draft:
		return Submitted, nil
	case Submitted:
		return s, &ConflictError{Message: "submission already submitted"}
	}
	return s, fmt.Errorf("invalid status %d", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	if s != Draft && s != Submitted {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Status) Value() (driver.Value, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

func (s *Status) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	}
	return fmt.Errorf("cannot scan %T into Status", src)
}
