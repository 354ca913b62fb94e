package wm

import (
	"fmt"

	"github.com/spindlewm/spindle/layout"
	"github.com/spindlewm/spindle/pure"
)

// Color is a 32-bit ARGB border color.
type Color uint32

// Config is the compile-time configuration for a window manager. Users
// build one in source, attach hooks and hand it to New; there are no
// config files, environment variables or flags.
type Config struct {
	// Name is exposed through _NET_WM_NAME on the root window.
	Name string
	// Tags is the initial workspace tag list, in order. Must be non-empty
	// and free of duplicates.
	Tags []string
	// DefaultLayouts is the layout stack cloned into each workspace.
	DefaultLayouts *pure.Stack[pure.Layout]

	// BorderWidth is the managed-client border width in pixels.
	BorderWidth uint32
	// FocusedBorder and NormalBorder are the border colors for the focused
	// client and everything else.
	FocusedBorder Color
	NormalBorder  Color

	// FocusFollowsMouse focuses the client under the pointer on enter
	// events.
	FocusFollowsMouse bool
	// WarpPointer moves the pointer to the focused screen or client when
	// screen focus changes.
	WarpPointer bool

	// FloatingClasses lists WM_CLASS values whose windows are floated as
	// they are managed.
	FloatingClasses []string

	// InsertPoint is where newly managed clients land in the focused
	// workspace's stack. The zero value makes the new client the focus.
	InsertPoint pure.InsertPoint

	StartupHook StartupHook
	EventHook   EventHook
	ManageHook  ManageHook
	RefreshHook RefreshHook

	// ErrorHandler receives errors bubbled out of user hooks. Leaving it
	// nil logs them at warn level.
	ErrorHandler func(error)
}

// DefaultConfig returns a workable configuration: nine tags, a
// MainAndStack/Monocle/Grid layout rotation and unobtrusive borders.
func DefaultConfig() *Config {
	return &Config{
		Name:          "spindle",
		Tags:          []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		BorderWidth:   1,
		FocusedBorder: 0xffdddddd,
		NormalBorder:  0xff444444,
		DefaultLayouts: pure.NewStack[pure.Layout](
			layout.NewMainAndStack(1, 0.6, 0.05),
			layout.Monocle{},
			layout.Grid{},
		),
	}
}

// Validate checks the parts of the config that cannot be expressed in the
// type system.
func (c *Config) Validate() error {
	if len(c.Tags) == 0 {
		return NewError(InvalidState, pure.ErrNoTags)
	}
	seen := make(map[string]bool, len(c.Tags))
	for _, tag := range c.Tags {
		if tag == "" {
			return Errorf(InvalidState, "empty workspace tag")
		}
		if seen[tag] {
			return Errorf(InvalidState, "%w: %q", pure.ErrDuplicateTag, tag)
		}
		seen[tag] = true
	}
	if c.DefaultLayouts == nil {
		return Errorf(InvalidState, "config has no default layouts")
	}
	if c.Name == "" {
		c.Name = "spindle"
	}

	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("config{name:%s tags:%v border:%dpx}", c.Name, c.Tags, c.BorderWidth)
}
