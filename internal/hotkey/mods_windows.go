package hotkey

import "golang.design/x/hotkey"

func modifier(name string) (hotkey.Modifier, bool) {
	switch name {
	case "ctrl":
		return hotkey.ModCtrl, true
	case "alt":
		return hotkey.ModAlt, true
	case "shift":
		return hotkey.ModShift, true
	case "win":
		return hotkey.ModWin, true
	}
	return 0, false
}
