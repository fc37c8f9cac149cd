//go:build windows

package main

import (
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

// logDisplayInfo 记录屏幕尺寸和 DPI，排查坐标缩放问题时用
func logDisplayInfo(log *zap.Logger) {
	if !log.Core().Enabled(zap.DebugLevel) {
		return
	}

	user32 := windows.NewLazySystemDLL("user32.dll")
	gsm := user32.NewProc("GetSystemMetrics")

	// GetSystemMetrics 返回 int32，必须符号扩展
	metric := func(i uintptr) int {
		r, _, _ := gsm.Call(i)
		return int(int32(r))
	}

	fields := []zap.Field{
		zap.Int("screenW", metric(0)),   // SM_CXSCREEN
		zap.Int("screenH", metric(1)),   // SM_CYSCREEN
		zap.Int("virtualX", metric(76)), // SM_XVIRTUALSCREEN
		zap.Int("virtualY", metric(77)),
		zap.Int("virtualW", metric(78)),
		zap.Int("virtualH", metric(79)),
	}

	if p := user32.NewProc("GetDpiForSystem"); p.Find() == nil {
		dpi, _, _ := p.Call()
		fields = append(fields, zap.Uint("dpi", uint(dpi)), zap.Uint("scalePercent", uint(dpi*100/96)))
	}

	log.Debug("display", fields...)
}
