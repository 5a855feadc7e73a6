package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		in   string
		def  int
		want int
	}{
		{"12", 0, 12},
		{" 7 ", 0, 7},
		{"1,200", 0, 1200},
		{"3.0", 0, 3},
		{"", -1, -1},
		{"n/a", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInt(tt.in, tt.def))
		})
	}
}

func TestToBool(t *testing.T) {
	for _, v := range []string{"TRUE", "Yes", "y", "1", " x "} {
		assert.True(t, ToBool(v), v)
	}
	for _, v := range []string{"FALSE", "No", "", "maybe"} {
		assert.False(t, ToBool(v), v)
	}
}

func TestJoinLines(t *testing.T) {
	assert.Equal(t, "no horror, no gore", JoinLines("no horror\r\n\nno gore\n", ", "))
	assert.Equal(t, "", JoinLines("", ", "))
}

func TestDerefAndPtr(t *testing.T) {
	assert.Equal(t, "", Deref(nil))
	assert.Equal(t, "a", Deref(Ptr("a")))
}
