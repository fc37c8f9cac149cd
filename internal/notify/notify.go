// Package notify 在导出完成或失败时提示用户。
package notify

import (
	"fyne.io/fyne/v2"
	"go.uber.org/zap"
)

// AppName 通知中显示的应用名
const AppName = "ShapePad"

// Notifier 通知接口
type Notifier interface {
	Show(title, message string) error
}

// LogNotifier 只把通知写进日志，用于无界面运行
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier 创建日志通知器
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log}
}

// Show 记录一条通知
func (n *LogNotifier) Show(title, message string) error {
	n.log.Info("notification", zap.String("title", title), zap.String("message", message))
	return nil
}

// AppNotifier 通过 Fyne 应用发送桌面通知，同时记录日志
type AppNotifier struct {
	app fyne.App
	log *LogNotifier
}

// Show 发送桌面通知
func (n *AppNotifier) Show(title, message string) error {
	_ = n.log.Show(title, message)
	n.app.SendNotification(fyne.NewNotification(title, message))
	return nil
}
