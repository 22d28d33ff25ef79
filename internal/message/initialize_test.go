package message

import (
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/mcp-app-bridge-go/internal/hostctx"
)

func TestParseInitializeResult_Nested(t *testing.T) {
	data := `{
		"protocolVersion": "2026-01-26",
		"hostInfo": {"name": "host", "version": "1.2.3"},
		"hostCapabilities": {"openLinks": {}},
		"hostContext": {"theme": "dark", "displayMode": "inline", "locale": "nb-NO"}
	}`

	res, err := ParseInitializeResult(json.RawMessage(data))
	require.NoError(t, err)

	assert.Equal(t, "2026-01-26", res.ProtocolVersion)
	require.NotNil(t, res.HostInfo)
	assert.Equal(t, "host", res.HostInfo.Name)
	assert.Contains(t, res.HostCapabilities, "openLinks")
	assert.Equal(t, hostctx.ThemeDark, res.HostContext.Theme)
	assert.Equal(t, "nb-NO", res.HostContext.Locale)
}

func TestParseInitializeResult_Direct(t *testing.T) {
	res, err := ParseInitializeResult(json.RawMessage(`{"theme":"dark","displayMode":"pip"}`))
	require.NoError(t, err)

	assert.Nil(t, res.HostInfo)
	assert.Equal(t, hostctx.ThemeDark, res.HostContext.Theme)
	assert.Equal(t, hostctx.DisplayModePIP, res.HostContext.DisplayMode)
}

func TestParseInitializeResult_Invalid(t *testing.T) {
	_, err := ParseInitializeResult(json.RawMessage(`"nope"`))
	require.Error(t, err)
}

func TestInitializeParams_Wire(t *testing.T) {
	params := InitializeParams{
		AppInfo: &mcp.Implementation{Name: "weather", Version: "0.1.0"},
		AppCapabilities: AppCapabilities{
			AvailableDisplayModes: []hostctx.DisplayMode{hostctx.DisplayModeInline, hostctx.DisplayModeFullscreen},
		},
		ProtocolVersion: ProtocolVersion,
	}

	data, err := json.Marshal(params)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"appInfo": {"name": "weather", "version": "0.1.0"},
		"appCapabilities": {"availableDisplayModes": ["inline", "fullscreen"]},
		"protocolVersion": "2026-01-26"
	}`, string(data))
}

func TestNewUserMessage_Wire(t *testing.T) {
	data, err := json.Marshal(NewUserMessage("hello"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"role":"user","content":[{"type":"text","text":"hello"}]}`, string(data))
}
