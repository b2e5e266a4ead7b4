package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchList(t *testing.T) {
	paths := []string{"a.ts", "src/b.ts", "src/c.test.ts", "lib/d.js"}

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{name: "single star stays in segment", patterns: []string{"*.ts"}, want: []string{"a.ts"}},
		{name: "globstar", patterns: []string{"**/*.ts"}, want: []string{"a.ts", "src/b.ts", "src/c.test.ts"}},
		{name: "negation removes", patterns: []string{"src/**", "!**/*.test.ts"}, want: []string{"src/b.ts"}},
		{name: "later positive re-adds", patterns: []string{"src/**", "!src/**", "src/b.ts"}, want: []string{"src/b.ts"}},
		{name: "leading negation selects nothing", patterns: []string{"!a.ts"}, want: nil},
		{name: "union keeps input order", patterns: []string{"lib/**", "a.ts"}, want: []string{"a.ts", "lib/d.js"}},
		{name: "no patterns", patterns: nil, want: nil},
		{name: "braces", patterns: []string{"src/{b,c.test}.ts"}, want: []string{"src/b.ts", "src/c.test.ts"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchList(paths, tt.patterns))
		})
	}
}

func TestMatchList_DuplicatePaths(t *testing.T) {
	assert.Equal(t, []string{"a.ts"}, MatchList([]string{"a.ts", "a.ts"}, []string{"*.ts"}))
}

func TestAnyMatch(t *testing.T) {
	assert.True(t, AnyMatch("src/x.ts", []string{"src/**"}))
	assert.False(t, AnyMatch("src/x.ts", []string{"src/**", "!**/x.ts"}))
}

func TestNegate(t *testing.T) {
	assert.Equal(t, []string{"!a", "!b/**"}, Negate([]string{"a", "b/**"}))
	assert.Empty(t, Negate(nil))
}

func TestValidatePatterns(t *testing.T) {
	assert.NoError(t, ValidatePatterns([]string{"**/*.ts", "!src/*.test.ts", "{a,b}"}))
	assert.ErrorIs(t, ValidatePatterns([]string{"src/[a"}), ErrInvalidGlob)
	assert.ErrorIs(t, ValidatePatterns([]string{"!"}), ErrInvalidGlob)
}
