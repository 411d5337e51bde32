package codecerr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicatesMatchWrappedErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
		code Code
	}{
		{"malformed key", MalformedKey("kind is required"), IsMalformedKey, ErrCodeMalformedKey},
		{"unsupported value", UnsupportedValue(struct{}{}, "no encoding for %T", struct{}{}), IsUnsupportedValue, ErrCodeUnsupportedValue},
		{"unsupported operator", UnsupportedOperator("!="), IsUnsupportedOperator, ErrCodeUnsupportedOperator},
		{"invalid cursor", InvalidCursor("%%", fmt.Errorf("illegal base64 data")), IsInvalidCursor, ErrCodeInvalidCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.True(t, tt.is(tt.err))
			assert.True(t, tt.is(wrapped))
			assert.Equal(t, tt.code, CodeOf(wrapped))
		})
	}
}

func TestPredicatesRejectOtherErrors(t *testing.T) {
	err := fmt.Errorf("plain error")
	assert.False(t, IsMalformedKey(err))
	assert.False(t, IsUnsupportedValue(err))
	assert.Equal(t, Code(""), CodeOf(err))
	assert.False(t, IsMalformedKey(nil))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "MALFORMED_KEY: ancestor Company has no id or name", MalformedKey("ancestor %s has no id or name", "Company").Error())
	assert.Equal(t, `UNSUPPORTED_OPERATOR: unsupported operator "!=" (value="!=")`, UnsupportedOperator("!=").Error())
}
