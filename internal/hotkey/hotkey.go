// Package hotkey 把配置里的全局快捷键注册到系统，按下时回调绘图命令。
package hotkey

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.design/x/hotkey"

	"shapepad/internal/config"
)

// keys 支持的主键
var keys = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,

	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,

	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,

	"space":  hotkey.KeySpace,
	"return": hotkey.KeyReturn,
	"enter":  hotkey.KeyReturn,
	"escape": hotkey.KeyEscape,
	"esc":    hotkey.KeyEscape,
	"tab":    hotkey.KeyTab,
	"delete": hotkey.KeyDelete,
	"del":    hotkey.KeyDelete,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,
}

// parseKey 解析主键
func parseKey(key string) (hotkey.Key, error) {
	k, ok := keys[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return 0, fmt.Errorf("unsupported key %q", key)
	}
	return k, nil
}

// parseModifiers 解析修饰键，平台相关的映射见 mods_*.go
func parseModifiers(mods []string) ([]hotkey.Modifier, error) {
	var result []hotkey.Modifier
	for _, mod := range mods {
		m, ok := modifier(normalizeModifier(mod))
		if !ok {
			return nil, fmt.Errorf("unsupported modifier %q", mod)
		}
		result = append(result, m)
	}
	return result, nil
}

func normalizeModifier(mod string) string {
	switch strings.ToLower(strings.TrimSpace(mod)) {
	case "ctrl", "control":
		return "ctrl"
	case "alt", "option":
		return "alt"
	case "shift":
		return "shift"
	case "win", "cmd", "command", "super":
		return "win"
	}
	return ""
}

// Manager 热键管理器，可以同时持有多个热键
type Manager struct {
	log *zap.Logger

	mu   sync.Mutex
	hks  []*hotkey.Hotkey
	done chan struct{}
}

// NewManager 创建热键管理器
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{log: log, done: make(chan struct{})}
}

// Register 注册热键，按下时在监听 goroutine 中调用 action。
// action 若要操作界面或引擎，需要自行切回 UI 线程。
func (m *Manager) Register(name string, h config.Hotkey, action func()) error {
	mods, err := parseModifiers(h.Modifiers)
	if err != nil {
		return fmt.Errorf("hotkey %s: %w", name, err)
	}
	key, err := parseKey(h.Key)
	if err != nil {
		return fmt.Errorf("hotkey %s: %w", name, err)
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("register hotkey %s (%s): %w", name, h, err)
	}
	m.log.Info("hotkey registered", zap.String("name", name), zap.Stringer("keys", h))

	m.mu.Lock()
	m.hks = append(m.hks, hk)
	m.mu.Unlock()

	go m.listen(name, hk, action)
	return nil
}

func (m *Manager) listen(name string, hk *hotkey.Hotkey, action func()) {
	for {
		select {
		case <-m.done:
			return
		case _, ok := <-hk.Keydown():
			if !ok {
				return
			}
			m.log.Debug("hotkey pressed", zap.String("name", name))
			if action != nil {
				action()
			}
		}
	}
}

// Close 注销所有热键并停止监听
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		return
	default:
		close(m.done)
	}
	for _, hk := range m.hks {
		if err := hk.Unregister(); err != nil {
			m.log.Warn("unregister hotkey", zap.Error(err))
		}
	}
	m.hks = nil
}

// SupportedModifiers 获取支持的修饰键列表
func SupportedModifiers() []string {
	return []string{"ctrl", "alt", "shift", "win"}
}
