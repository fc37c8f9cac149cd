//go:build windows

package clipboard

import (
	"unsafe"

	"fyne.io/fyne/v2"
	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	openClipboard    = user32.NewProc("OpenClipboard")
	closeClipboard   = user32.NewProc("CloseClipboard")
	emptyClipboard   = user32.NewProc("EmptyClipboard")
	setClipboardData = user32.NewProc("SetClipboardData")

	globalAlloc  = kernel32.NewProc("GlobalAlloc")
	globalFree   = kernel32.NewProc("GlobalFree")
	globalLock   = kernel32.NewProc("GlobalLock")
	globalUnlock = kernel32.NewProc("GlobalUnlock")
)

const (
	cfUnicodeText = 13
	gmemMoveable  = 0x0002
)

// win32Clipboard 直接调用 Win32 剪贴板 API，不依赖窗口
type win32Clipboard struct{}

// NewClipboard 创建剪贴板实例。Windows 下忽略 fallback
func NewClipboard(_ fyne.Clipboard) Clipboard {
	return &win32Clipboard{}
}

// SetText 设置剪贴板文本
func (c *win32Clipboard) SetText(text string) error {
	utf16, err := windows.UTF16FromString(text)
	if err != nil {
		return err
	}
	size := uintptr(len(utf16) * 2)

	if ret, _, err := openClipboard.Call(0); ret == 0 {
		return err
	}
	defer closeClipboard.Call()

	emptyClipboard.Call()

	hMem, _, err := globalAlloc.Call(gmemMoveable, size)
	if hMem == 0 {
		return err
	}

	ptr, _, err := globalLock.Call(hMem)
	if ptr == 0 {
		globalFree.Call(hMem)
		return err
	}
	copy(unsafe.Slice((*uint16)(unsafe.Pointer(ptr)), len(utf16)), utf16)
	globalUnlock.Call(hMem)

	// 成功后内存归系统所有，失败才需要自己释放
	if ret, _, err := setClipboardData.Call(cfUnicodeText, hMem); ret == 0 {
		globalFree.Call(hMem)
		return err
	}
	return nil
}

