// Package hostctx holds the host-supplied presentation context of an embedded app.
package hostctx

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// Theme is the host color scheme.
type Theme string

const (
	// ThemeLight is the default theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark theme.
	ThemeDark Theme = "dark"
)

// DisplayMode is how the host presents the app.
type DisplayMode string

const (
	// DisplayModeInline embeds the app in the conversation flow. It is the default.
	DisplayModeInline DisplayMode = "inline"
	// DisplayModeFullscreen gives the app the whole host viewport.
	DisplayModeFullscreen DisplayMode = "fullscreen"
	// DisplayModePIP floats the app in a picture-in-picture frame.
	DisplayModePIP DisplayMode = "pip"
)

// CSS carries stylesheet fragments supplied by the host.
type CSS struct {
	Fonts string `json:"fonts,omitempty"`
}

// Styles carries host design tokens.
type Styles struct {
	Variables map[string]string `json:"variables,omitempty"`
	CSS       *CSS              `json:"css,omitempty"`
}

// Dimensions describes the container the host reserves for the app.
// Nil fields are unconstrained.
type Dimensions struct {
	Width     *int `json:"width,omitempty"`
	Height    *int `json:"height,omitempty"`
	MaxWidth  *int `json:"maxWidth,omitempty"`
	MaxHeight *int `json:"maxHeight,omitempty"`
}

// HostContext is the presentation state pushed by the host.
//
// Decoded from the initialize reply and from host-context-changed
// notifications. Empty fields in an update are treated as absent.
type HostContext struct {
	Theme                 Theme         `json:"theme,omitempty"`
	DisplayMode           DisplayMode   `json:"displayMode,omitempty"`
	AvailableDisplayModes []DisplayMode `json:"availableDisplayModes,omitempty"`
	Styles                *Styles       `json:"styles,omitempty"`
	ContainerDimensions   *Dimensions   `json:"containerDimensions,omitempty"`
	Locale                string        `json:"locale,omitempty"`
	TimeZone              string        `json:"timeZone,omitempty"`
	Platform              string        `json:"platform,omitempty"`
}

// Default returns the context assumed before the host supplies one.
func Default() HostContext {
	return HostContext{
		Theme:       ThemeLight,
		DisplayMode: DisplayModeInline,
	}
}

// Clone returns a deep copy.
func (h HostContext) Clone() HostContext {
	out := h
	out.AvailableDisplayModes = slices.Clone(h.AvailableDisplayModes)

	if h.Styles != nil {
		styles := Styles{Variables: maps.Clone(h.Styles.Variables)}
		if h.Styles.CSS != nil {
			css := *h.Styles.CSS
			styles.CSS = &css
		}

		out.Styles = &styles
	}

	if h.ContainerDimensions != nil {
		dims := *h.ContainerDimensions
		out.ContainerDimensions = &dims
	}

	return out
}

// Fonts returns the host font declarations, if any.
func (h HostContext) Fonts() string {
	if h.Styles == nil || h.Styles.CSS == nil {
		return ""
	}

	return h.Styles.CSS.Fonts
}

// StyleVariables returns the host design tokens, if any.
func (h HostContext) StyleVariables() map[string]string {
	if h.Styles == nil {
		return nil
	}

	return h.Styles.Variables
}

// Change is a bit set of fields touched by an update.
type Change uint8

// Change flags, one per group of fields applied together.
const (
	ChangeTheme Change = 1 << iota
	ChangeDisplayMode
	ChangeStyleVariables
	ChangeFonts
	ChangeDimensions
	ChangeOther
)

// Has reports whether c includes flag.
func (c Change) Has(flag Change) bool {
	return c&flag != 0
}

// Transition describes the outcome of one update.
type Transition struct {
	Changes      Change
	PreviousMode DisplayMode
	Mode         DisplayMode
}

// DisplayModeChanged reports whether the update switched display modes.
func (t Transition) DisplayModeChanged() bool {
	return t.PreviousMode != t.Mode
}

// TogglesFullscreen reports whether the update switched between inline and
// fullscreen in either direction.
func (t Transition) TogglesFullscreen() bool {
	switch {
	case t.PreviousMode == DisplayModeInline && t.Mode == DisplayModeFullscreen:
		return true
	case t.PreviousMode == DisplayModeFullscreen && t.Mode == DisplayModeInline:
		return true
	default:
		return false
	}
}

// Applier reflects context fields into the rendered document.
type Applier interface {
	ApplyTheme(theme Theme)
	ApplyFonts(css string)
	ApplyStyleVariables(vars map[string]string)
	ApplyDisplayMode(mode DisplayMode)
}

// NopApplier ignores every update.
type NopApplier struct{}

func (NopApplier) ApplyTheme(Theme)                      {}
func (NopApplier) ApplyFonts(string)                     {}
func (NopApplier) ApplyStyleVariables(map[string]string) {}
func (NopApplier) ApplyDisplayMode(DisplayMode)          {}

// Store owns the current HostContext for the life of the client.
//
// Merge and apply happen under one write lock, so readers never observe a
// partially applied update.
type Store struct {
	log     *slog.Logger
	applier Applier

	mu      sync.RWMutex
	current HostContext
}

// NewStore creates a store holding Default(). A nil applier is replaced by NopApplier.
func NewStore(log *slog.Logger, applier Applier) *Store {
	if applier == nil {
		applier = NopApplier{}
	}

	return &Store{
		log:     log.With("component", "host_context"),
		applier: applier,
		current: Default(),
	}
}

// Reset restores Default() and applies theme and display mode.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Default()
	s.applier.ApplyTheme(s.current.Theme)
	s.applier.ApplyDisplayMode(s.current.DisplayMode)
}

// Snapshot returns a deep copy of the current context.
func (s *Store) Snapshot() HostContext {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current.Clone()
}

// Update merges the present fields of patch and applies the changed ones.
func (s *Store) Update(patch HostContext) Transition {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.current.DisplayMode
	changes := merge(&s.current, patch)

	if changes.Has(ChangeTheme) {
		s.applier.ApplyTheme(s.current.Theme)
	}

	if changes.Has(ChangeFonts) {
		s.applier.ApplyFonts(s.current.Fonts())
	}

	if changes.Has(ChangeStyleVariables) {
		s.applier.ApplyStyleVariables(maps.Clone(s.current.StyleVariables()))
	}

	if changes.Has(ChangeDisplayMode) {
		s.applier.ApplyDisplayMode(s.current.DisplayMode)
	}

	s.log.Debug("Host context updated",
		"theme", s.current.Theme,
		"display_mode", s.current.DisplayMode,
		"changes", uint8(changes),
	)

	return Transition{
		Changes:      changes,
		PreviousMode: previous,
		Mode:         s.current.DisplayMode,
	}
}

// merge copies present fields of patch into dst and reports which were touched.
func merge(dst *HostContext, patch HostContext) Change {
	var changes Change

	if patch.Theme != "" {
		dst.Theme = patch.Theme
		changes |= ChangeTheme
	}

	if patch.DisplayMode != "" {
		dst.DisplayMode = patch.DisplayMode
		changes |= ChangeDisplayMode
	}

	if patch.AvailableDisplayModes != nil {
		dst.AvailableDisplayModes = slices.Clone(patch.AvailableDisplayModes)
		changes |= ChangeOther
	}

	if patch.Styles != nil {
		if dst.Styles == nil {
			dst.Styles = &Styles{}
		} else {
			styles := *dst.Styles
			dst.Styles = &styles
		}

		if patch.Styles.Variables != nil {
			dst.Styles.Variables = maps.Clone(patch.Styles.Variables)
			changes |= ChangeStyleVariables
		}

		if patch.Styles.CSS != nil && patch.Styles.CSS.Fonts != "" {
			dst.Styles.CSS = &CSS{Fonts: patch.Styles.CSS.Fonts}
			changes |= ChangeFonts
		}
	}

	if patch.ContainerDimensions != nil {
		dims := *patch.ContainerDimensions
		dst.ContainerDimensions = &dims
		changes |= ChangeDimensions
	}

	if patch.Locale != "" {
		dst.Locale = patch.Locale
		changes |= ChangeOther
	}

	if patch.TimeZone != "" {
		dst.TimeZone = patch.TimeZone
		changes |= ChangeOther
	}

	if patch.Platform != "" {
		dst.Platform = patch.Platform
		changes |= ChangeOther
	}

	return changes
}
