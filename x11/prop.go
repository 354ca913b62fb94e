package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/spindlewm/spindle/xconn"
)

// GetProp fetches and decodes a property by name. A nil Prop with a nil
// error means the property is unset.
func (c *Conn) GetProp(id xproto.Window, name string) (*xconn.Prop, error) {
	reply, err := xprop.GetProperty(c.xu, id, name)
	if err != nil {
		// xgbutil reports unset properties as errors; treat them as absent.
		return nil, nil
	}
	if reply == nil || reply.Format == 0 {
		return nil, nil
	}

	typeName, err := xprop.AtomName(c.xu, reply.Type)
	if err != nil {
		return nil, fmt.Errorf("resolving type of %s: %w", name, err)
	}

	switch typeName {
	case "ATOM":
		nums, err := xprop.PropValNums(reply, nil)
		if err != nil {
			return nil, err
		}
		atoms := make([]xproto.Atom, len(nums))
		for i, n := range nums {
			atoms[i] = xproto.Atom(n)
		}
		p := xconn.AtomsProp(atoms...)
		return &p, nil

	case "WINDOW":
		wins, err := xprop.PropValWindows(reply, nil)
		if err != nil {
			return nil, err
		}
		p := xconn.WindowProp(wins...)
		return &p, nil

	case "CARDINAL":
		nums, err := xprop.PropValNums(reply, nil)
		if err != nil {
			return nil, err
		}
		cards := make([]uint32, len(nums))
		for i, n := range nums {
			cards[i] = uint32(n)
		}
		p := xconn.CardinalProp(cards...)
		return &p, nil

	case "UTF8_STRING", "STRING", "COMPOUND_TEXT":
		strs, err := xprop.PropValStrs(reply, nil)
		if err != nil {
			// WM_CLASS and friends are null separated rather than listed.
			strs = strings.Split(strings.TrimRight(string(reply.Value), "\x00"), "\x00")
		}
		p := xconn.StringProp(strs...)
		return &p, nil

	default:
		return &xconn.Prop{Kind: xconn.PropBytes, Bytes: reply.Value}, nil
	}
}

// SetProp encodes and stores a property by name.
func (c *Conn) SetProp(id xproto.Window, name string, value xconn.Prop) error {
	switch value.Kind {
	case xconn.PropAtoms:
		nums := make([]uint, len(value.Atoms))
		for i, a := range value.Atoms {
			nums[i] = uint(a)
		}
		return xprop.ChangeProp32(c.xu, id, name, "ATOM", nums...)

	case xconn.PropWindows:
		nums := make([]uint, len(value.Wins))
		for i, w := range value.Wins {
			nums[i] = uint(w)
		}
		return xprop.ChangeProp32(c.xu, id, name, "WINDOW", nums...)

	case xconn.PropCardinals:
		nums := make([]uint, len(value.Cards))
		for i, n := range value.Cards {
			nums[i] = uint(n)
		}
		return xprop.ChangeProp32(c.xu, id, name, "CARDINAL", nums...)

	case xconn.PropStrings:
		data := []byte(strings.Join(value.Strs, "\x00"))
		return xprop.ChangeProp(c.xu, id, 8, name, "UTF8_STRING", data)

	default:
		return xprop.ChangeProp(c.xu, id, 8, name, "UTF8_STRING", value.Bytes)
	}
}

// DeleteProp removes a property by name.
func (c *Conn) DeleteProp(id xproto.Window, name string) error {
	atom, err := xprop.Atom(c.xu, name, true)
	if err != nil || atom == 0 {
		return nil // never interned, so nothing to delete
	}

	return xproto.DeletePropertyChecked(c.xu.Conn(), id, atom).Check()
}

// ListProps names every property currently set on the window.
func (c *Conn) ListProps(id xproto.Window) ([]string, error) {
	reply, err := xproto.ListProperties(c.xu.Conn(), id).Reply()
	if err != nil {
		return nil, fmt.Errorf("listing properties of %d: %w", id, err)
	}

	names := make([]string, 0, len(reply.Atoms))
	for _, atom := range reply.Atoms {
		name, err := xprop.AtomName(c.xu, atom)
		if err != nil {
			continue
		}
		names = append(names, name)
	}

	return names, nil
}
