package usecase

import (
	"fmt"
	"sync"

	"storefront/internal/domain/model"
)

// アプリ全体で1つの通知スロット。最後に書いたものが勝つ。
type Notifier struct {
	mu       sync.RWMutex
	msg      string
	severity model.Severity
}

func NewNotifier() *Notifier {
	return &Notifier{severity: model.SeveritySuccess}
}

// msg が空なら「消した」扱い
func (n *Notifier) Set(msg string, severity model.Severity) {
	n.mu.Lock()
	n.msg = msg
	n.severity = severity
	n.mu.Unlock()
}

func (n *Notifier) Success(msg string) {
	n.Set(msg, model.SeveritySuccess)
}

func (n *Notifier) Error(msg string) {
	n.Set(msg, model.SeverityError)
}

// 手動で閉じる。メッセージだけ消す。
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	n.msg = ""
	n.mu.Unlock()
}

func (n *Notifier) Current() model.Notification {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.msg == "" {
		return model.Notification{}
	}
	return model.Notification{Message: n.msg, Severity: n.severity, Visible: true}
}

// サーバーが2xx以外を返した
func (n *Notifier) ServerError(status int) string {
	msg := fmt.Sprintf("Server Error, Status: %d", status)
	n.Error(msg)
	return msg
}

// 想定外のエラー
func (n *Notifier) CaughtError(err error) string {
	detail := "An unexpected error occurred"
	if err != nil && err.Error() != "" {
		detail = err.Error()
	}
	msg := "Error: " + detail
	n.Error(msg)
	return msg
}
