package mdw

import (
	"errors"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports content that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid utf-8 content")
	// ErrBinaryInput reports content that appears to be binary.
	ErrBinaryInput = errors.New("binary content detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// ValidateInput returns an error if a document description is not valid
// UTF-8 or appears binary.
func ValidateInput(src []byte) error {
	if !utf8.Valid(src) {
		return ErrInvalidUTF8
	}
	var control int
	for _, b := range src {
		if b == 0x00 {
			return ErrBinaryInput
		}
		if isControlByte(b) {
			control++
		}
	}
	if len(src) >= minBinarySample && control*100 >= len(src)*maxControlPct {
		return ErrBinaryInput
	}
	return nil
}

// ValidateText returns an error if s cannot appear in rendered output.
func ValidateText(s string) error {
	if !utf8.ValidString(s) {
		return ErrInvalidUTF8
	}
	for i := 0; i < len(s); i++ {
		if s[i] == 0x00 {
			return ErrBinaryInput
		}
	}
	return nil
}

func (r *CommonMarkRenderer) checkText(s string) error {
	if !r.opts.ValidateUTF8 {
		return nil
	}
	if err := ValidateText(s); err != nil {
		return contentError(err, "")
	}
	return nil
}

func isControlByte(b byte) bool {
	if b < 0x09 {
		return true
	}
	if b > 0x0D && b < 0x20 {
		return true
	}
	return b == 0x7F
}
