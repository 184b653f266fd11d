package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringValidation(t *testing.T) {
	assert.False(t, NewStringValidation("").Validate())
	assert.True(t, NewStringValidation("").WithRequired(false).Validate())
	assert.True(t, NewStringValidation("abc").WithMinLength(3).WithMaxLength(3).Validate())
	assert.False(t, NewStringValidation("ab").WithMinLength(3).Validate())
	assert.False(t, NewStringValidation(strings.Repeat("x", TitleMaxLength+1)).WithMaxLength(TitleMaxLength).Validate())
	// Lengths count characters, not bytes.
	assert.True(t, NewStringValidation("çğüşöı").WithMaxLength(6).Validate())
}

func TestEmailPattern(t *testing.T) {
	valid := NewStringValidation("ada@school.edu").WithPattern(CompiledPatterns.Email)
	assert.True(t, valid.Validate())

	for _, bad := range []string{"ada", "ada@", "@school.edu", "Ada@School.EDU"} {
		assert.False(t, NewStringValidation(bad).WithPattern(CompiledPatterns.Email).Validate(), bad)
	}
}
