//go:build !windows

package clipboard

import "fyne.io/fyne/v2"

// NewClipboard 创建剪贴板实例，fallback 为 nil 时所有操作返回 ErrUnavailable
func NewClipboard(fallback fyne.Clipboard) Clipboard {
	return &fyneClipboard{c: fallback}
}
