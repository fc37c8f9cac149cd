package hotkey

import (
	"errors"
	"fmt"
	"strings"

	"shapepad/internal/config"
)

// ErrInvalidHotkey 快捷键格式无效
var ErrInvalidHotkey = errors.New("invalid hotkey")

// ParseBinding 解析用户输入的快捷键，如 "ctrl+alt+s"。
// 至少需要一个修饰键和一个受支持的主键，修饰键会被规范化。
func ParseBinding(s string) (config.Hotkey, error) {
	h, ok := config.ParseHotkey(strings.ToLower(s))
	if !ok {
		return config.Hotkey{}, fmt.Errorf("%w: empty", ErrInvalidHotkey)
	}
	if err := Validate(h); err != nil {
		return config.Hotkey{}, err
	}

	mods := make([]string, 0, len(h.Modifiers))
	for _, m := range h.Modifiers {
		mods = append(mods, normalizeModifier(m))
	}
	h.Modifiers = mods
	return h, nil
}

// Validate 验证快捷键是否有效
func Validate(h config.Hotkey) error {
	if len(h.Modifiers) == 0 {
		return fmt.Errorf("%w: need at least one modifier (%s)", ErrInvalidHotkey, strings.Join(SupportedModifiers(), "/"))
	}
	for _, m := range h.Modifiers {
		if normalizeModifier(m) == "" {
			return fmt.Errorf("%w: unknown modifier %q", ErrInvalidHotkey, m)
		}
	}
	if _, err := parseKey(h.Key); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHotkey, err)
	}
	return nil
}
