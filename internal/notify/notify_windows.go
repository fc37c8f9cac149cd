//go:build windows

package notify

import (
	"fyne.io/fyne/v2"
	"github.com/go-toast/toast"
	"go.uber.org/zap"
)

// ToastNotifier Windows toast 通知
type ToastNotifier struct {
	appID string
	log   *zap.Logger
}

// NewNotifier 创建通知器。Windows 下直接使用 toast，不依赖 app
func NewNotifier(_ fyne.App, log *zap.Logger) Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &ToastNotifier{appID: AppName, log: log}
}

// Show 显示通知（异步，不阻塞界面）
func (n *ToastNotifier) Show(title, message string) error {
	go func() {
		notification := toast.Notification{
			AppID:   n.appID,
			Title:   title,
			Message: message,
		}
		if err := notification.Push(); err != nil {
			n.log.Warn("toast failed", zap.Error(err))
		}
	}()
	return nil
}
