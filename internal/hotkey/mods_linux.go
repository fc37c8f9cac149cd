package hotkey

import "golang.design/x/hotkey"

// X11 下 Alt 通常是 Mod1，Super 是 Mod4
func modifier(name string) (hotkey.Modifier, bool) {
	switch name {
	case "ctrl":
		return hotkey.ModCtrl, true
	case "alt":
		return hotkey.Mod1, true
	case "shift":
		return hotkey.ModShift, true
	case "win":
		return hotkey.Mod4, true
	}
	return 0, false
}
