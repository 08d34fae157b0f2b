package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{
			name: "bare object",
			raw:  `{"action":"HOLD"}`,
			want: `{"action":"HOLD"}`,
			ok:   true,
		},
		{
			name: "object with prose around it",
			raw:  "Here is my decision:\n{\"action\": \"BUY\", \"symbol\": \"BTCUSDT\"}\nGood luck.",
			want: `{"action": "BUY", "symbol": "BTCUSDT"}`,
			ok:   true,
		},
		{
			name: "fenced block with language tag",
			raw:  "```json\n{\"buys\": []}\n```",
			want: `{"buys": []}`,
			ok:   true,
		},
		{
			name: "nested braces inside strings",
			raw:  `{"rationale": "range {50k..60k}", "confidence": 0.5}`,
			want: `{"rationale": "range {50k..60k}", "confidence": 0.5}`,
			ok:   true,
		},
		{
			name: "array root",
			raw:  `noise [1, 2, 3] trailing`,
			want: `[1, 2, 3]`,
			ok:   true,
		},
		{
			name: "no json at all",
			raw:  "I would HOLD for now.",
			ok:   false,
		},
		{
			name: "empty input",
			raw:  "   ",
			ok:   false,
		},
		{
			name: "unterminated object",
			raw:  `{"action": "BUY"`,
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractJSON(tc.raw)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
