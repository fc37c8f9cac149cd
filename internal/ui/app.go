// Package ui 基于 Fyne 的绘图窗口：工具栏、填充开关、撤销/清空/导出以及绘图区域。
package ui

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	fynestorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"shapepad/internal/clipboard"
	"shapepad/internal/config"
	"shapepad/internal/engine"
	"shapepad/internal/hotkey"
	"shapepad/internal/notify"
	"shapepad/internal/shape"
	"shapepad/internal/storage"
)

// 工具栏上显示的工具名
var toolLabels = []struct {
	kind  shape.Kind
	label string
}{
	{shape.Line, "Line"},
	{shape.Rectangle, "Rectangle"},
	{shape.Ellipse, "Oval"},
	{shape.Polygon, "Polygon"},
}

func labelOf(k shape.Kind) string {
	for _, t := range toolLabels {
		if t.kind == k {
			return t.label
		}
	}
	return ""
}

func kindOf(label string) shape.Kind {
	for _, t := range toolLabels {
		if t.label == label {
			return t.kind
		}
	}
	return shape.None
}

// App 绘图窗口
type App struct {
	app    fyne.App
	win    fyne.Window
	cfg    *config.Config
	engine *engine.Engine
	store  *storage.Storage
	log    *zap.Logger

	notifier notify.Notifier
	clip     clipboard.Clipboard

	canvas  *Canvas
	tools   *widget.RadioGroup
	fill    *widget.Check
	undoBtn *widget.Button
	status  *widget.Label

	// OnFillChanged 填充开关变化后调用，用于同步托盘
	OnFillChanged func(bool)
	// ConfigPath 修改快捷键时写回的配置文件，为空时使用默认路径
	ConfigPath string
}

// New 创建绘图窗口并把引擎的重绘信号接到界面上
func New(a fyne.App, cfg *config.Config, e *engine.Engine, store *storage.Storage, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	u := &App{
		app:    a,
		win:    a.NewWindow("ShapePad"),
		cfg:    cfg,
		engine: e,
		store:  store,
		log:    log,
	}
	u.notifier = notify.NewNotifier(a, log)
	u.clip = clipboard.NewClipboard(u.win.Clipboard())

	u.canvas = NewCanvas(e, cfg.BackgroundColor())
	top := u.toolbar()
	u.win.SetContent(container.NewBorder(top, u.status, nil, nil, u.canvas))
	u.win.SetMainMenu(u.mainMenu())
	u.addShortcuts()
	u.win.Resize(fyne.NewSize(float32(cfg.Canvas.Width), float32(cfg.Canvas.Height)))

	e.OnRedraw(u.redraw)
	u.redraw()
	return u
}

// Window 主窗口
func (u *App) Window() fyne.Window { return u.win }

func (u *App) toolbar() fyne.CanvasObject {
	labels := make([]string, len(toolLabels))
	for i, t := range toolLabels {
		labels[i] = t.label
	}
	u.tools = widget.NewRadioGroup(labels, func(s string) {
		if k := kindOf(s); k != u.engine.Tool() {
			u.engine.SelectTool(k)
		}
	})
	u.tools.Horizontal = true
	u.tools.SetSelected(labelOf(u.engine.Tool()))

	u.fill = widget.NewCheck("Fill", func(on bool) {
		if on == u.engine.Filled() {
			return
		}
		u.engine.SetFill(on)
		if u.OnFillChanged != nil {
			u.OnFillChanged(on)
		}
	})
	u.fill.SetChecked(u.engine.Filled())

	u.undoBtn = widget.NewButtonWithIcon("Undo", theme.ContentUndoIcon(), u.Undo)
	clearBtn := widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), u.Clear)
	exportBtn := widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), func() { u.Export() })

	u.status = widget.NewLabel("")

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		u.tools,
		widget.NewSeparator(),
		u.fill,
		widget.NewSeparator(),
		u.undoBtn,
		clearBtn,
		layout.NewSpacer(),
		exportBtn,
	)
}

func (u *App) mainMenu() *fyne.MainMenu {
	file := fyne.NewMenu("File",
		fyne.NewMenuItem("Export", func() { u.Export() }),
		fyne.NewMenuItem("Save As...", u.ShowSaveDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Set Export Hotkey...", u.showHotkeyDialog),
	)
	edit := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", u.Undo),
		fyne.NewMenuItem("Clear", u.Clear),
	)
	return fyne.NewMainMenu(file, edit)
}

func (u *App) addShortcuts() {
	c := u.win.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		u.Undo()
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		u.Export()
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}, func(fyne.Shortcut) {
		u.ShowSaveDialog()
	})
}

// redraw 响应引擎的重绘信号。Fyne 会把多次刷新合并到下一帧
func (u *App) redraw() {
	u.canvas.Refresh()
	if u.engine.CanUndo() {
		u.undoBtn.Enable()
	} else {
		u.undoBtn.Disable()
	}
	u.status.SetText(u.statusText())
}

func (u *App) statusText() string {
	n := len(u.engine.History())
	text := fmt.Sprintf("%d shapes", n)
	if p := len(u.engine.Pending()); p > 0 {
		text += fmt.Sprintf(" | %d vertices, double-click to close", p)
	}
	return text
}

// SelectTool 切换工具并同步工具栏
func (u *App) SelectTool(k shape.Kind) {
	u.engine.SelectTool(k)
	u.tools.SetSelected(labelOf(k))
}

// SetFill 设置填充并同步复选框
func (u *App) SetFill(on bool) {
	u.engine.SetFill(on)
	u.fill.SetChecked(on)
}

// Undo 撤销最后一个形状
func (u *App) Undo() {
	u.engine.Undo()
}

// Clear 清空画布
func (u *App) Clear() {
	u.engine.Clear()
}

// snapshot 按当前显示尺寸导出，尚未显示时使用配置的画布尺寸
func (u *App) snapshot() (*image.RGBA, error) {
	size := u.canvas.PixelSize()
	if size.X <= 0 || size.Y <= 0 {
		size = image.Pt(u.cfg.Canvas.Width, u.cfg.Canvas.Height)
	}
	return u.engine.ExportSnapshot(size.X, size.Y, u.cfg.BackgroundColor())
}

// Export 导出到存储目录，按配置通知并复制路径
func (u *App) Export() (string, error) {
	img, err := u.snapshot()
	if err != nil {
		u.fail("导出失败", err)
		return "", err
	}
	path, err := u.store.Save(img)
	if err != nil {
		u.fail("保存失败", err)
		return "", err
	}
	u.exported(path)
	return path, nil
}

// ShowSaveDialog 选择位置保存，格式由扩展名决定
func (u *App) ShowSaveDialog() {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			u.fail("保存失败", err)
			return
		}
		if w == nil {
			return
		}
		if err := u.saveTo(w); err != nil {
			u.fail("保存失败", err)
			return
		}
		u.exported(w.URI().Path())
	}, u.win)
	d.SetFileName(u.store.NewFileName())
	d.Show()
}

// saveTo 先编码到内存，成功后才写入 w；任何一步失败都会删除对话框已创建的文件
func (u *App) saveTo(w fyne.URIWriteCloser) (err error) {
	uri := w.URI()
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			u.discard(uri)
		}
	}()

	img, err := u.snapshot()
	if err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}
	var buf bytes.Buffer
	if err := u.store.EncodeExt(&buf, img, uri.Extension()); err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// discard 删除保存失败留下的文件
func (u *App) discard(uri fyne.URI) {
	var err error
	if uri.Scheme() == "file" {
		err = os.Remove(uri.Path())
	} else {
		err = fynestorage.Delete(uri)
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		u.log.Warn("remove partial file", zap.String("uri", uri.String()), zap.Error(err))
	}
}

func (u *App) exported(path string) {
	u.log.Info("drawing exported", zap.String("path", path), zap.Int("shapes", len(u.engine.History())))
	u.status.SetText("Saved " + path)

	if u.cfg.Behavior.CopyPath {
		if err := u.clip.SetText(path); err != nil {
			u.log.Warn("copy path to clipboard", zap.Error(err))
		}
	}
	if u.cfg.Behavior.ShowNotification {
		_ = u.notifier.Show("导出成功", path)
	}
}

func (u *App) fail(title string, err error) {
	u.log.Error(title, zap.Error(err))
	if u.cfg.Behavior.ShowNotification {
		_ = u.notifier.Show(title, err.Error())
	}
	dialog.ShowError(err, u.win)
}

func (u *App) showHotkeyDialog() {
	entry := widget.NewEntry()
	entry.SetText(u.cfg.Hotkeys.Export.String())
	entry.SetPlaceHolder("alt+1, ctrl+shift+s")

	items := []*widget.FormItem{widget.NewFormItem("Export", entry)}
	dialog.ShowForm("Set Export Hotkey", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		h, err := hotkey.ParseBinding(entry.Text)
		if err != nil {
			dialog.ShowError(err, u.win)
			return
		}
		if err := u.cfg.SetExportHotkey(u.ConfigPath, h); err != nil {
			u.fail("保存配置失败", err)
			return
		}
		u.log.Info("export hotkey changed", zap.Stringer("keys", h))
		dialog.ShowInformation("Set Export Hotkey", "Saved "+h.String()+". Restart to apply.", u.win)
	}, u.win)
}

// ShowAndRun 显示窗口并进入事件循环
func (u *App) ShowAndRun() {
	u.win.ShowAndRun()
}
