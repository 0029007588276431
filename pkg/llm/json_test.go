package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"fenced", "Here you go:\n```json\n{\"a\": [1, 2]}\n```", `{"a": [1, 2]}`},
		{"prose around", `Sure! {"a":1} hope this helps`, `{"a":1}`},
		{"trailing commas", `{"a":[1,2,],}`, `{"a":[1,2]}`},
		{"none", "no json here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.content))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Courses []string `json:"courses"`
	}
	require.NoError(t, DecodeJSON("```\n{\"courses\":[\"CSC 1301\"]}\n```", &out))
	assert.Equal(t, []string{"CSC 1301"}, out.Courses)

	err := DecodeJSON("nothing", &out)
	assert.Equal(t, KindInvalidResponse, KindOf(err))

	err = DecodeJSON(`{"courses": "oops"}`, &out)
	assert.Equal(t, KindInvalidResponse, KindOf(err))
}
