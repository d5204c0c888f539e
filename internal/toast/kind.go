package toast

import (
	"errors"
	"fmt"
)

// ErrInvalidKind is returned when a notification kind is not one of the
// known kinds.
var ErrInvalidKind = errors.New("toast: invalid kind")

// Kind categorizes a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSuccess, KindError, KindInfo:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind converts untyped input, such as a form value, into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}
