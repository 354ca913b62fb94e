// Command spindle-minimal is a small but usable window manager built on
// the spindle library. It doubles as the reference for wiring your own:
// copy it, change the bindings and layouts, recompile.
package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/charmbracelet/log"

	"github.com/spindlewm/spindle/layout"
	"github.com/spindlewm/spindle/pure"
	"github.com/spindlewm/spindle/wm"
	"github.com/spindlewm/spindle/x11"
	"github.com/spindlewm/spindle/xconn"
)

const modKey = xconn.ModSuper

func main() {
	log.SetLevel(log.InfoLevel)

	if err := run(); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	x, err := x11.NewConn()
	if err != nil {
		return err
	}
	defer x.Close()

	cfg := wm.DefaultConfig()
	cfg.Name = "spindle-minimal"
	cfg.FocusFollowsMouse = true
	cfg.DefaultLayouts = layouts()

	keys, err := keyBindings(x.XUtil(), cfg.Tags)
	if err != nil {
		return err
	}

	manager, err := wm.New(x, cfg, keys, mouseBindings())
	if err != nil {
		return err
	}

	return manager.Run()
}

func layouts() *pure.Stack[pure.Layout] {
	tiled := layout.NewGaps(
		layout.ReserveTop{Inner: layout.NewMainAndStack(1, 0.6, 0.05), Px: 18},
		4, 4,
	)

	return pure.NewStack[pure.Layout](
		tiled,
		layout.Monocle{},
		layout.Grid{},
	)
}

// keyBindings resolves symbolic key names against the server keymap using
// the xgbutil keybind module and attaches handlers.
func keyBindings(xu *xgbutil.XUtil, tags []string) (wm.KeyBindings, error) {
	keybind.Initialize(xu)

	bindings := wm.KeyBindings{}
	bind := func(mask xconn.ModMask, sym string, handler wm.KeyHandler) error {
		codes := keybind.StrToKeycodes(xu, sym)
		if len(codes) == 0 {
			return wm.Errorf(wm.ParseBinding, "no keycode for keysym %q", sym)
		}
		bindings[xconn.KeyCode{Mask: mask, Code: codes[0]}] = handler
		return nil
	}

	type spec struct {
		mask    xconn.ModMask
		sym     string
		handler wm.KeyHandler
	}

	for _, s := range []spec{
		{modKey, "j", wm.ModifyStack((*pure.Stack[xproto.Window]).FocusDown)},
		{modKey, "k", wm.ModifyStack((*pure.Stack[xproto.Window]).FocusUp)},
		{modKey | xconn.ModShift, "j", wm.ModifyStack((*pure.Stack[xproto.Window]).SwapDown)},
		{modKey | xconn.ModShift, "k", wm.ModifyStack((*pure.Stack[xproto.Window]).SwapUp)},
		{modKey, "m", wm.ModifyStack((*pure.Stack[xproto.Window]).SwapFocusToHead)},
		{modKey, "h", wm.SendLayoutMessage(layout.ShrinkMain{})},
		{modKey, "l", wm.SendLayoutMessage(layout.ExpandMain{})},
		{modKey, "comma", wm.SendLayoutMessage(layout.IncMain{Delta: 1})},
		{modKey, "period", wm.SendLayoutMessage(layout.IncMain{Delta: -1})},
		{modKey, "r", wm.SendLayoutMessage(layout.Rotate{})},
		{modKey, "space", wm.Modify((*pure.StackSet).NextLayout)},
		{modKey | xconn.ModShift, "space", wm.Modify((*pure.StackSet).PreviousLayout)},
		{modKey, "Tab", wm.Modify(func(ss *pure.StackSet) { _ = ss.ToggleTag() })},
		{modKey, "t", wm.Sink()},
		{modKey | xconn.ModShift, "f", wm.FloatFocused()},
		{modKey, "w", wm.Modify(func(ss *pure.StackSet) { ss.NextScreen() })},
		{modKey, "e", wm.Modify(func(ss *pure.StackSet) { ss.PreviousScreen() })},
		{modKey | xconn.ModShift, "q", wm.KillFocused()},
		{modKey | xconn.ModControl | xconn.ModShift, "q", wm.Exit()},
	} {
		if err := bind(s.mask, s.sym, s.handler); err != nil {
			return nil, err
		}
	}

	for i, tag := range tags {
		tag := tag
		sym := fmt.Sprintf("%d", i+1)
		if err := bind(modKey, sym, wm.Modify(func(ss *pure.StackSet) { _ = ss.View(tag) })); err != nil {
			return nil, err
		}
		if err := bind(modKey|xconn.ModShift, sym, wm.Modify(func(ss *pure.StackSet) { _ = ss.MoveFocusedToTag(tag) })); err != nil {
			return nil, err
		}
	}

	return bindings, nil
}

func mouseBindings() wm.MouseBindings {
	return wm.MouseBindings{
		{Mask: modKey, Button: xconn.ButtonLeft, Kind: xconn.MousePress}:    wm.StartMoveDrag(),
		{Mask: modKey, Button: xconn.ButtonRight, Kind: xconn.MousePress}:   wm.StartResizeDrag(),
		{Mask: modKey, Button: xconn.ButtonLeft, Kind: xconn.MouseRelease}:  wm.EndDrag(),
		{Mask: modKey, Button: xconn.ButtonRight, Kind: xconn.MouseRelease}: wm.EndDrag(),
	}
}
