package candidates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// A search term is always a literal; LIKE wildcards typed by the caller must
// not widen the match.
func TestEscapeLike(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"TORRES", "TORRES"},
		{"100%", `100\%`},
		{"DE_LA", `DE\_LA`},
		{`O\BRIEN`, `O\\BRIEN`},
		{"%_%", `\%\_\%`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, escapeLike(tc.in), "input %q", tc.in)
	}
}
