package sizeobs

import "github.com/wagiedev/mcp-app-bridge-go/internal/errors"

// ErrUnsupported is returned by an observation capability that is present on
// a Surface but not available at runtime.
var ErrUnsupported = errors.ErrUnsupported

// Size is a measured content size in CSS pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Measurer reports the scrollable size of the document root.
type Measurer interface {
	ScrollSize() Size
}

// Surface is the document the observer watches. It must be able to measure
// itself and may additionally implement ResizeObserver, WindowEvents and
// MutationObserver.
type Surface interface {
	Measurer
}

// Disconnect stops an observation.
type Disconnect func()

// ResizeObserver watches the document root for size changes.
type ResizeObserver interface {
	ObserveResize(fn func()) (Disconnect, error)
}

// WindowEvents delivers window resize events.
type WindowEvents interface {
	OnWindowResize(fn func()) (Disconnect, error)
}

// MutationOptions selects which document mutations are observed.
type MutationOptions struct {
	ChildList  bool
	Subtree    bool
	Attributes []string
}

// DefaultMutationOptions watches the whole subtree for structural changes and
// for style or class attribute changes.
func DefaultMutationOptions() MutationOptions {
	return MutationOptions{
		ChildList:  true,
		Subtree:    true,
		Attributes: []string{"style", "class"},
	}
}

// MutationObserver watches the document tree for mutations.
type MutationObserver interface {
	ObserveMutations(fn func(), opts MutationOptions) (Disconnect, error)
}
