package findash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Stocks rally on earnings", "Stocks rally on earnings"},
		{"entities", "AT&amp;T &quot;beats&quot; estimates", `AT&T "beats" estimates`},
		{"markup", "<p>Fed holds <b>rates</b></p><p>steady</p>", "Fed holds rates steady"},
		{"script dropped", "Hello<script>alert(1)</script> world", "Hello world"},
		{"line breaks", "first<br/>second", "first second"},
		{"nbsp", "S&P\u00a0500", "S&P 500"},
		{"thin and em spaces", "a\u2009b\u2003c", "a b c"},
		{"zero width", "Nvi\u200bdia\ufeff", "Nvidia"},
		{"collapsed whitespace", "  lots \n\t of   space  ", "lots of space"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}
