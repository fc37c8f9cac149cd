// Package clipboard 把导出文件的路径放到系统剪贴板。
package clipboard

import (
	"errors"

	"fyne.io/fyne/v2"
)

// ErrUnavailable 当前环境没有可用的剪贴板
var ErrUnavailable = errors.New("clipboard unavailable")

// Clipboard 剪贴板接口
type Clipboard interface {
	SetText(text string) error
}

// fyneClipboard 借用窗口的剪贴板
type fyneClipboard struct {
	c fyne.Clipboard
}

func (f *fyneClipboard) SetText(text string) error {
	if f.c == nil {
		return ErrUnavailable
	}
	f.c.SetContent(text)
	return nil
}

