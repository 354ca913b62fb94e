// Package layout provides the built-in layout algorithms, layout
// transformers and the standard messages understood by them.
//
// Messages are plain values delivered through pure.Layout.HandleMessage;
// layouts type switch on the concrete messages they understand and ignore
// everything else.
package layout

// IncMain changes the number of clients in the main area of a layout.
type IncMain struct {
	Delta int
}

// ExpandMain grows the main area of a layout by its ratio step.
type ExpandMain struct{}

// ShrinkMain shrinks the main area of a layout by its ratio step.
type ShrinkMain struct{}

// Rotate switches a layout to its next orientation.
type Rotate struct{}

// Mirror flips a layout about its main axis.
type Mirror struct{}

// Hide is sent by the window manager when a workspace leaves a screen.
// Layouts holding per-workspace resources should release them.
type Hide struct{}

// ShutDown is broadcast to every layout when the window manager exits.
type ShutDown struct{}

// UnwrapTransformer asks a layout transformer to replace itself with the
// layout it wraps. Handled only by the transformer layer.
type UnwrapTransformer struct{}
