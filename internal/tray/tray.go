// Package tray 系统托盘菜单：切换工具、填充开关、撤销、清空、导出和退出。
package tray

import (
	"sync/atomic"

	"github.com/getlantern/systray"
	"go.uber.org/zap"

	"shapepad/internal/shape"
)

// Actions 托盘菜单触发的动作。回调在托盘的 goroutine 中执行，
// 调用方负责切回 UI 线程。
type Actions struct {
	SelectTool func(shape.Kind)
	SetFill    func(bool)
	Undo       func()
	Clear      func()
	Export     func()
	OpenDir    func()
	Show       func()
	Quit       func()
}

// Tray 系统托盘
type Tray struct {
	actions    Actions
	exportText string
	filled     atomic.Bool
	log        *zap.Logger

	fill *systray.MenuItem
	quit chan struct{}
}

// NewTray 创建系统托盘
func NewTray(actions Actions, log *zap.Logger) *Tray {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tray{
		actions:    actions,
		exportText: "Alt+1",
		log:        log,
		quit:       make(chan struct{}),
	}
}

// SetExportHotkeyText 设置导出快捷键的显示文本
func (t *Tray) SetExportHotkeyText(text string) {
	t.exportText = text
}

// SetFilled 同步填充开关的勾选状态
func (t *Tray) SetFilled(filled bool) {
	t.filled.Store(filled)
	if t.fill == nil {
		return
	}
	if filled {
		t.fill.Check()
	} else {
		t.fill.Uncheck()
	}
}

// Start 注册托盘，事件循环由界面驱动
func (t *Tray) Start() {
	systray.Register(t.onReady, t.onExit)
}

// Stop 移除托盘图标
func (t *Tray) Stop() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetIcon(getIcon())
	systray.SetTitle("ShapePad")
	systray.SetTooltip("ShapePad - 形状绘图")

	mShow := systray.AddMenuItem("显示窗口", "显示绘图窗口")
	systray.AddSeparator()

	tools := systray.AddMenuItem("工具", "选择绘图工具")
	kinds := []shape.Kind{shape.Line, shape.Rectangle, shape.Ellipse, shape.Polygon}
	toolItems := make([]*systray.MenuItem, len(kinds))
	for i, k := range kinds {
		toolItems[i] = tools.AddSubMenuItem(k.String(), "")
	}
	t.fill = systray.AddMenuItemCheckbox("填充", "后续形状是否填充", t.filled.Load())
	systray.AddSeparator()

	mUndo := systray.AddMenuItem("撤销", "撤销最后一个形状")
	mClear := systray.AddMenuItem("清空", "清空所有形状")
	mExport := systray.AddMenuItem("导出 ("+t.exportText+")", "导出为图片")
	mOpenDir := systray.AddMenuItem("打开导出目录", "打开图片保存位置")
	systray.AddSeparator()

	mQuit := systray.AddMenuItem("退出", "退出程序")

	for i, item := range toolItems {
		go t.forward(item, func(k shape.Kind) func() {
			return func() { call1(t.actions.SelectTool, k) }
		}(kinds[i]))
	}

	go func() {
		for {
			select {
			case <-mShow.ClickedCh:
				call(t.actions.Show)
			case <-t.fill.ClickedCh:
				t.SetFilled(!t.fill.Checked())
				call1(t.actions.SetFill, t.filled.Load())
			case <-mUndo.ClickedCh:
				call(t.actions.Undo)
			case <-mClear.ClickedCh:
				call(t.actions.Clear)
			case <-mExport.ClickedCh:
				call(t.actions.Export)
			case <-mOpenDir.ClickedCh:
				call(t.actions.OpenDir)
			case <-mQuit.ClickedCh:
				t.log.Info("quit from tray")
				call(t.actions.Quit)
				return
			case <-t.quit:
				return
			}
		}
	}()
}

func (t *Tray) forward(item *systray.MenuItem, fn func()) {
	for {
		select {
		case <-item.ClickedCh:
			fn()
		case <-t.quit:
			return
		}
	}
}

func (t *Tray) onExit() {
	close(t.quit)
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

func call1[T any](fn func(T), v T) {
	if fn != nil {
		fn(v)
	}
}
