package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "writer@example.com", false},
		{"Valid with plus", "writer+blog@example.com", false},
		{"Missing at", "writerexample.com", true},
		{"Missing domain", "writer@", true},
		{"Missing TLD", "writer@example", true},
		{"Empty", "", true},
		{"Too long", strings.Repeat("a", 250) + "@x.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 73)))
	assert.NoError(t, ValidatePassword("long-enough-password"))
}

func TestValidateDisplayName(t *testing.T) {
	assert.Error(t, ValidateDisplayName("   "))
	assert.Error(t, ValidateDisplayName(strings.Repeat("n", 61)))
	assert.NoError(t, ValidateDisplayName("Jane Writer"))
}
