package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashSeparatesParts(t *testing.T) {
	assert.NotEqual(t, Hash("ab", "c"), Hash("a", "bc"))
	assert.Equal(t, Hash("a", "b"), Hash("a", "b"))
	assert.Len(t, Hash("x"), 64)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
	assert.Equal(t, "自幕...", Truncate("自幕設定", 2))
}

func TestJoinSegments(t *testing.T) {
	tests := []struct {
		name   string
		pieces []string
		joiner string
		want   string
	}{
		{"spaced", []string{"This is segment 1.", "This is segment 2."}, " ", "This is segment 1. This is segment 2."},
		{"unspaced", []string{"This is segment 1.", "This is segment 2."}, "", "This is segment 1.This is segment 2."},
		{"own whitespace", []string{"seg1 ", "seg2 ", "seg3"}, " ", "seg1 seg2 seg3"},
		{"empty pieces", []string{"", "a", ""}, " ", "a"},
		{"none", nil, " ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinSegments(tt.pieces, tt.joiner))
		})
	}
}
