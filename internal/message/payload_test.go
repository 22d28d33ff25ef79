package message

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, params string) *ToolOutput {
	t.Helper()

	n, err := Parse(testLogger(), MethodToolResult, json.RawMessage(params))
	require.NoError(t, err)

	return n.(*ToolResult).Resolve()
}

func TestResolve_Precedence(t *testing.T) {
	tests := []struct {
		name       string
		params     string
		wantSource PayloadSource
		wantJSON   string
	}{
		{
			name: "structured content wins over everything",
			params: `{"structuredContent":{"from":"structured"},"body":{"from":"body"},
				"content":[{"type":"text","text":"{\"from\":\"text\"}"}],"extra":1}`,
			wantSource: SourceStructuredContent,
			wantJSON:   `{"from":"structured"}`,
		},
		{
			name: "body wins over text content",
			params: `{"body":{"from":"body"},
				"content":[{"type":"text","text":"{\"from\":\"text\"}"}]}`,
			wantSource: SourceBody,
			wantJSON:   `{"from":"body"}`,
		},
		{
			name:       "first json text item",
			params:     `{"content":[{"type":"text","text":"plain"},{"type":"text","text":" {\"from\":\"text\"} "},{"type":"text","text":"{\"from\":\"later\"}"}]}`,
			wantSource: SourceTextContent,
			wantJSON:   `{"from":"text"}`,
		},
		{
			name:       "bare params minus reserved keys",
			params:     `{"content":[{"type":"text","text":"plain"}],"_meta":{"k":"v"},"temperature":21}`,
			wantSource: SourceParams,
			wantJSON:   `{"temperature":21}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := resolve(t, tt.params)

			assert.False(t, out.Empty)
			assert.Equal(t, tt.wantSource, out.Source)

			got, err := json.Marshal(out.Payload)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(got))
		})
	}
}

func TestResolve_Empty(t *testing.T) {
	for _, params := range []string{
		`{}`,
		`{"content":[{"type":"text","text":"not json"}]}`,
		`{"content":[],"isError":false,"structuredContent":null,"_meta":{}}`,
		`{"content":[{"type":"text","text":"[1,2,3]"}]}`,
	} {
		out := resolve(t, params)
		assert.True(t, out.Empty, params)
		assert.Nil(t, out.Payload, params)
		assert.Equal(t, SourceNone, out.Source, params)
	}
}

func TestResolve_BodyMustBeObject(t *testing.T) {
	out := resolve(t, `{"body":"text body"}`)

	assert.Equal(t, SourceParams, out.Source)
	assert.Equal(t, map[string]any{"body": "text body"}, out.Payload)
}
