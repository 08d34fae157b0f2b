package convert

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat64OK(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float64", 42.5, 42.5, true},
		{"int", 7, 7, true},
		{"numeric string", " 0.001 ", 0.001, true},
		{"json number", json.Number("12.34"), 12.34, true},
		{"garbage string", "abc", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ToFloat64OK(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "hello", ToString("  hello "))
	assert.Equal(t, "1.5", ToString(1.5))
	assert.Equal(t, "true", ToString(true))
	assert.Equal(t, "", ToString(map[string]any{}))
	assert.Equal(t, "", ToString(nil))
}
