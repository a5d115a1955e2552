package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "non-positive limit", input: "seeker profile", limit: 0, expect: ""},
		{name: "fits", input: "INFJ", limit: 4, expect: "INFJ"},
		{name: "cut", input: `{"mbti":"ENFP"}`, limit: 8, expect: `{"mbti":...`},
		{name: "trimmed before counting", input: "  calm  ", limit: 4, expect: "calm"},
		{name: "counts runes not bytes", input: "café société", limit: 4, expect: "café..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, TruncateForLog(tt.input, tt.limit))
		})
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()

	fields := Preview("response_preview", "0123456789", 3)
	require.Len(t, fields, 2)
	assert.Equal(t, "response_length", fields[0].Key)
	assert.Equal(t, int64(10), fields[0].Integer)
	assert.Equal(t, "response_preview", fields[1].Key)
	assert.Equal(t, "012...", fields[1].String)
}
