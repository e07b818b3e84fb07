package layout

import (
	"bytes"
	"fmt"

	"github.com/example/locfs/pkg/fs"
)

// BoundedString is a fixed-width, NUL-terminated string field. Bytes after
// the terminator are kept as read so a record re-encodes unchanged.
type BoundedString [StringField]byte

// ValidateName checks that s is a non-empty string that fits a bounded
// string field.
func ValidateName(s string) error {
	if s == "" {
		return fmt.Errorf("empty: %w", fs.ErrInvalidName)
	}
	if len(s) > MaxNameLen {
		return fmt.Errorf("%d bytes exceeds %d: %w", len(s), MaxNameLen, fs.ErrNameTooLong)
	}
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		return fmt.Errorf("contains NUL: %w", fs.ErrInvalidName)
	}
	return nil
}

// NewBoundedString returns s as a zero-padded bounded string.
func NewBoundedString(s string) (BoundedString, error) {
	var b BoundedString
	if err := b.Set(s); err != nil {
		return b, err
	}
	return b, nil
}

// Set copies s into the field followed by a terminator. Bytes past the
// terminator are left untouched.
func (b *BoundedString) Set(s string) error {
	if err := ValidateName(s); err != nil {
		return err
	}
	n := copy(b[:], s)
	b[n] = 0
	return nil
}

func (b *BoundedString) String() string {
	if i := bytes.IndexByte(b[:], 0); i >= 0 {
		return string(b[:i])
	}
	return string(b[:])
}

// Equal reports whether the field's content equals s.
func (b *BoundedString) Equal(s string) bool {
	return b.String() == s
}
