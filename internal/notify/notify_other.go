//go:build !windows

package notify

import (
	"fyne.io/fyne/v2"
	"go.uber.org/zap"
)

// NewNotifier 创建通知器。没有 app 时退化为日志通知
func NewNotifier(app fyne.App, log *zap.Logger) Notifier {
	if app == nil {
		return NewLogNotifier(log)
	}
	return &AppNotifier{app: app, log: NewLogNotifier(log)}
}
