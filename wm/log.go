package wm

import "github.com/charmbracelet/log"

var logger = log.With("pkg", "wm")

// SetLogger replaces the package logger, for users who want the manager's
// logging routed through their own configured instance.
func SetLogger(l *log.Logger) {
	logger = l
}
