package marshal

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/wippyai/refprop/errors"
)

// Policy decides what happens to text longer than its field.
type Policy uint8

const (
	// Reject fails on oversized text. Use where the full value matters.
	Reject Policy = iota
	// Truncate keeps the prefix that fits. Use where a prefix is meaningful.
	Truncate
)

// PackText copies s into dst and null-terminates it. At most len(dst)-1 bytes
// of text fit.
func PackText(dst []byte, s, field string, policy Policy) error {
	if strings.IndexByte(s, 0) >= 0 {
		return errors.New(errors.PhaseMarshal, errors.KindInvalidInput).
			Entry(field).
			Detail("%s contains a NUL byte", field).
			Build()
	}
	limit := len(dst) - 1
	if limit < 0 {
		return errors.New(errors.PhaseMarshal, errors.KindInvalidInput).
			Entry(field).
			Detail("%s has no room in a zero-width field", field).
			Build()
	}
	if len(s) > limit {
		if policy == Reject {
			return errors.New(errors.PhaseMarshal, errors.KindInvalidInput).
				Entry(field).
				Value(len(s)).
				Detail("%s is %d bytes, field holds %d", field, len(s), limit).
				Build()
		}
		s = truncateUTF8(s, limit)
	}
	n := copy(dst, s)
	clear(dst[n:])
	return nil
}

// PackFixed copies s into dst without a terminator. The declared length
// passed alongside dst bounds the text, so s may fill the field exactly.
func PackFixed(dst []byte, s, field string) error {
	if strings.IndexByte(s, 0) >= 0 {
		return errors.New(errors.PhaseMarshal, errors.KindInvalidInput).
			Entry(field).
			Detail("%s contains a NUL byte", field).
			Build()
	}
	if len(s) > len(dst) {
		return errors.New(errors.PhaseMarshal, errors.KindInvalidInput).
			Entry(field).
			Value(len(s)).
			Detail("%s is %d bytes, field holds %d", field, len(s), len(dst)).
			Build()
	}
	n := copy(dst, s)
	clear(dst[n:])
	return nil
}

// DecodeText reads a native text field: up to the first NUL, trailing blanks
// removed. Invalid UTF-8 is reported as a text decoding failure naming entry.
func DecodeText(entry string, buf []byte) (string, error) {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	if !utf8.Valid(buf) {
		return "", errors.TextDecoding(entry, buf)
	}
	return strings.TrimRight(string(buf), " \t\r\n"), nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
