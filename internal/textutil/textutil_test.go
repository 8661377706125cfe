package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Senior   QA Engineer", "senior qa engineer"},
		{"  San Jose,\tCA \n", "san jose, ca"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "", Truncate("abc", 0))

	// Multi-byte runes are never split.
	s := strings.Repeat("é", 1300)
	got := Truncate(s, 1200)
	assert.Equal(t, 1200, len([]rune(got)))
	assert.Equal(t, strings.Repeat("é", 1200), got)
}

func TestHTMLToText(t *testing.T) {
	assert.Equal(t, "Build tests for rovers.", HTMLToText("<div><p>Build tests</p> for <b>rovers</b>.</div>"))
	assert.Equal(t, "Lead QA", HTMLToText("&lt;p&gt;Lead QA&lt;/p&gt;"))
	assert.Equal(t, "visible", HTMLToText("<style>p{}</style><p>visible</p>"))
	assert.Equal(t, "", HTMLToText("   "))
}
