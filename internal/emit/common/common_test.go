package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grammarkit/ebnfstudio/internal/emit/common"
)

func TestSymToString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "Empty"},
		{"identifier", "Foo_Bar1", "Foo_Bar1"},
		{"dollar identifier", "$sys", "Dollar" + "sys"},
		{"single punct", "+", "Plus"},
		{"punct run", "::=", "ColonColonEq"},
		{"letters and digits fallback", "a1", "a1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, common.SymToString(tt.in))
		})
	}
}

func TestEscapeDollars(t *testing.T) {
	assert.Equal(t, "aDollarb", common.EscapeDollars("a$b"))
	assert.Equal(t, "abc", common.EscapeDollars("abc"))
}

func TestContainsAlnum(t *testing.T) {
	assert.True(t, common.ContainsAlnum("abc"))
	assert.True(t, common.ContainsAlnum("::=1"))
	assert.False(t, common.ContainsAlnum("::="))
	assert.False(t, common.ContainsAlnum(""))
}
