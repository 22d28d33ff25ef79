package filedoc

import (
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/mcp-app-bridge-go/internal/hostctx"
	"github.com/wagiedev/mcp-app-bridge-go/internal/sizeobs"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDoc(t *testing.T, opts ...Option) *Document {
	t.Helper()

	doc, err := New(testLogger(), filepath.Join(t.TempDir(), "app.txt"), opts...)
	require.NoError(t, err)

	return doc
}

func TestScrollSize(t *testing.T) {
	doc := newDoc(t, WithCellSize(10, 20))

	assert.Equal(t, sizeobs.Size{}, doc.ScrollSize())

	require.NoError(t, doc.Write([]byte("abc\nabcdef\nx\n")))
	assert.Equal(t, sizeobs.Size{Width: 60, Height: 60}, doc.ScrollSize())

	doc.SetViewport(400)
	assert.Equal(t, sizeobs.Size{Width: 400, Height: 60}, doc.ScrollSize())
}

func TestObserveResize_Unsupported(t *testing.T) {
	doc := newDoc(t)

	_, err := doc.ObserveResize(func() {})
	require.ErrorIs(t, err, sizeobs.ErrUnsupported)
}

func TestOnWindowResize(t *testing.T) {
	doc := newDoc(t)

	var calls atomic.Int32

	disconnect, err := doc.OnWindowResize(func() { calls.Add(1) })
	require.NoError(t, err)

	doc.SetViewport(300)
	doc.SetViewport(300)
	assert.Equal(t, int32(1), calls.Load())

	disconnect()
	doc.SetViewport(500)
	assert.Equal(t, int32(1), calls.Load())
}

func TestObserveMutations(t *testing.T) {
	doc := newDoc(t)

	var calls atomic.Int32

	disconnect, err := doc.ObserveMutations(func() { calls.Add(1) }, sizeobs.DefaultMutationOptions())
	require.NoError(t, err)

	require.NoError(t, doc.Write([]byte("hello\n")))
	require.Eventually(t, func() bool { return calls.Load() > 0 }, 2*time.Second, 10*time.Millisecond)

	disconnect()
	disconnect()

	seen := calls.Load()
	require.NoError(t, doc.Write([]byte("again\n")))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, seen, calls.Load())
}

func TestApplier(t *testing.T) {
	doc := newDoc(t)

	vars := map[string]string{"--color-background-primary": "#000"}

	doc.ApplyTheme(hostctx.ThemeDark)
	doc.ApplyFonts("@font-face{}")
	doc.ApplyStyleVariables(vars)
	doc.ApplyDisplayMode(hostctx.DisplayModeFullscreen)

	vars["--color-background-primary"] = "#fff"

	got := doc.Styling()
	assert.Equal(t, hostctx.ThemeDark, got.Theme)
	assert.Equal(t, "@font-face{}", got.Fonts)
	assert.Equal(t, "#000", got.Variables["--color-background-primary"])
	assert.Equal(t, hostctx.DisplayModeFullscreen, got.DisplayMode)
}

func TestObserver_FallsBackToFileWatch(t *testing.T) {
	doc := newDoc(t, WithCellSize(1, 1))

	sizes := make(chan sizeobs.Size, 8)
	obs := sizeobs.New(testLogger(), doc, func(s sizeobs.Size) { sizes <- s }, 10*time.Millisecond)
	t.Cleanup(obs.Stop)

	require.NoError(t, obs.Start())

	select {
	case s := <-sizes:
		assert.Equal(t, sizeobs.Size{}, s)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial size report")
	}

	require.NoError(t, doc.Write([]byte("12345\n12\n")))

	require.Eventually(t, func() bool {
		select {
		case s := <-sizes:
			return s == sizeobs.Size{Width: 5, Height: 2}
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}
