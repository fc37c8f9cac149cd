package config

import (
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mazznoer/csscolorparser"

	"shapepad/internal/shape"
)

// Hotkey 快捷键配置
type Hotkey struct {
	Modifiers []string `json:"modifiers"` // ctrl, alt, shift, win(windows)/cmd(mac)
	Key       string   `json:"key"`       // 主键，如 s, z, 1, f1 等
}

// Hotkeys 全局快捷键
type Hotkeys struct {
	Export Hotkey `json:"export"`
	Undo   Hotkey `json:"undo"`
	Clear  Hotkey `json:"clear"`
}

// Canvas 画布配置
type Canvas struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Background string `json:"background"` // CSS 颜色，如 white、#ffffff
}

// Drawing 绘图默认值
type Drawing struct {
	Tool      string `json:"tool"`      // line, rect, oval, polygon
	Filled    bool   `json:"filled"`    // 初始是否填充
	LineWidth int    `json:"lineWidth"` // 描边线宽
}

// Storage 存储配置
type Storage struct {
	Directory string `json:"directory"` // 保存目录
	Format    string `json:"format"`    // 图片格式: png, jpg
	Quality   int    `json:"quality"`   // jpg质量 1-100
	KeepDays  int    `json:"keepDays"`  // 启动时清理多少天前的导出，0 表示不清理
}

// Behavior 行为配置
type Behavior struct {
	ShowNotification bool `json:"showNotification"` // 导出后显示通知
	CopyPath         bool `json:"copyPath"`         // 导出后复制路径到剪贴板
	ShowTray         bool `json:"showTray"`         // 显示系统托盘
	GlobalHotkeys    bool `json:"globalHotkeys"`    // 注册全局快捷键
}

// Log 日志配置
type Log struct {
	Level      string `json:"level"`      // debug, info, warn, error
	File       string `json:"file"`       // 为空时只输出到 stderr
	MaxSizeMB  int    `json:"maxSizeMB"`  // 单个日志文件大小上限
	MaxBackups int    `json:"maxBackups"` // 保留的旧日志数量
}

// Config 主配置结构
type Config struct {
	Canvas   Canvas   `json:"canvas"`
	Drawing  Drawing  `json:"drawing"`
	Storage  Storage  `json:"storage"`
	Hotkeys  Hotkeys  `json:"hotkeys"`
	Behavior Behavior `json:"behavior"`
	Log      Log      `json:"log"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Canvas: Canvas{
			Width:      800,
			Height:     600,
			Background: "white",
		},
		Drawing: Drawing{
			Tool:      "line",
			Filled:    false,
			LineWidth: 1,
		},
		Storage: Storage{
			Directory: filepath.Join(homeDir, "Pictures", "shapepad"),
			Format:    "png",
			Quality:   90,
		},
		Hotkeys: Hotkeys{
			Export: Hotkey{Modifiers: []string{"alt"}, Key: "1"},
			Undo:   Hotkey{Modifiers: []string{"alt"}, Key: "z"},
			Clear:  Hotkey{Modifiers: []string{"alt", "shift"}, Key: "c"},
		},
		Behavior: Behavior{
			ShowNotification: true,
			CopyPath:         true,
			ShowTray:         true,
			GlobalHotkeys:    false,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// GetConfigPath 获取配置文件路径
func GetConfigPath() string {
	var configDir string

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			homeDir, _ := os.UserHomeDir()
			configDir = filepath.Join(homeDir, "AppData", "Roaming")
		}
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "shapepad", "config.json")
}

// LoadFrom 从指定路径加载配置。文件不存在时写入并返回默认配置
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		_ = cfg.SaveTo(path)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), err
	}

	cfg.Validate()

	return cfg, nil
}

// Validate 验证并修正配置值
func (c *Config) Validate() {
	defaults := DefaultConfig()

	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		c.Canvas.Width = defaults.Canvas.Width
		c.Canvas.Height = defaults.Canvas.Height
	}
	if _, err := csscolorparser.Parse(c.Canvas.Background); err != nil {
		c.Canvas.Background = defaults.Canvas.Background
	}

	if _, err := shape.ParseKind(c.Drawing.Tool); err != nil {
		c.Drawing.Tool = defaults.Drawing.Tool
	}
	if c.Drawing.LineWidth < 1 || c.Drawing.LineWidth > 50 {
		c.Drawing.LineWidth = defaults.Drawing.LineWidth
	}

	// 验证图片质量 (1-100)
	if c.Storage.Quality < 1 || c.Storage.Quality > 100 {
		c.Storage.Quality = defaults.Storage.Quality
	}

	// 验证图片格式
	format := strings.ToLower(c.Storage.Format)
	if format != "png" && format != "jpg" && format != "jpeg" {
		c.Storage.Format = defaults.Storage.Format
	} else {
		c.Storage.Format = format
	}

	if c.Storage.KeepDays < 0 {
		c.Storage.KeepDays = 0
	}

	// 防止路径遍历
	if c.Storage.Directory == "" || strings.Contains(c.Storage.Directory, "..") {
		c.Storage.Directory = defaults.Storage.Directory
	}

	c.Hotkeys.Export = validateHotkey(c.Hotkeys.Export, defaults.Hotkeys.Export)
	c.Hotkeys.Undo = validateHotkey(c.Hotkeys.Undo, defaults.Hotkeys.Undo)
	c.Hotkeys.Clear = validateHotkey(c.Hotkeys.Clear, defaults.Hotkeys.Clear)

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
		c.Log.Level = strings.ToLower(c.Log.Level)
	default:
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = defaults.Log.MaxSizeMB
	}
	if c.Log.MaxBackups < 0 {
		c.Log.MaxBackups = defaults.Log.MaxBackups
	}
}

// validateHotkey 验证修饰键和主键，无效时回退到默认值
func validateHotkey(h, def Hotkey) Hotkey {
	if h.Key == "" {
		return def
	}

	validMods := map[string]bool{"ctrl": true, "alt": true, "shift": true, "win": true, "cmd": true, "control": true, "option": true, "super": true, "command": true}
	validatedMods := []string{}
	for _, mod := range h.Modifiers {
		if validMods[strings.ToLower(mod)] {
			validatedMods = append(validatedMods, strings.ToLower(mod))
		}
	}
	if len(validatedMods) == 0 {
		h.Modifiers = def.Modifiers
	} else {
		h.Modifiers = validatedMods
	}
	h.Key = strings.ToLower(h.Key)
	return h
}

// SaveTo 保存配置到指定路径
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetExportHotkey 设置导出快捷键并保存到 path，path 为空时使用默认路径
func (c *Config) SetExportHotkey(path string, h Hotkey) error {
	c.Hotkeys.Export = h
	if path == "" {
		path = GetConfigPath()
	}
	return c.SaveTo(path)
}

// String 快捷键的字符串表示，如 alt+shift+c
func (h Hotkey) String() string {
	parts := append([]string{}, h.Modifiers...)
	parts = append(parts, h.Key)
	return strings.Join(parts, "+")
}

// ParseHotkey 解析 "ctrl+alt+s" 形式的快捷键
func ParseHotkey(s string) (Hotkey, bool) {
	var parts []string
	for _, p := range strings.Split(s, "+") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return Hotkey{}, false
	}
	return Hotkey{Modifiers: parts[:len(parts)-1], Key: parts[len(parts)-1]}, true
}

// BackgroundColor 解析画布背景色
func (c *Config) BackgroundColor() color.NRGBA {
	col, err := csscolorparser.Parse(c.Canvas.Background)
	if err != nil {
		return color.NRGBA{255, 255, 255, 255}
	}
	r, g, b, a := col.RGBA255()
	return color.NRGBA{r, g, b, a}
}

// Tool 解析默认工具
func (c *Config) Tool() shape.Kind {
	k, err := shape.ParseKind(c.Drawing.Tool)
	if err != nil {
		return shape.Line
	}
	return k
}

// EnsureStorageDir 确保存储目录存在
func (c *Config) EnsureStorageDir() error {
	dir := c.Storage.Directory
	if len(dir) > 0 && dir[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, dir[1:])
	}
	c.Storage.Directory = dir

	return os.MkdirAll(dir, 0755)
}
