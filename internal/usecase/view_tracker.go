package usecase

import (
	"sync"

	"github.com/google/uuid"
)

// 表示中の画面を覚えておき、遅れて返ってきた応答を捨てるための印。
// 取得を始めるたびに Begin でトークンを払い出し、応答を反映する前に IsCurrent で確認する。
type ViewTracker struct {
	mu       sync.Mutex
	token    string
	identity string
}

func NewViewTracker() *ViewTracker {
	return &ViewTracker{}
}

func (v *ViewTracker) Begin(identity string) string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.token = uuid.NewString()
	v.identity = identity
	return v.token
}

func (v *ViewTracker) IsCurrent(token string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return token != "" && token == v.token
}

// トークンがまだ最新なら apply を実行する。判定と反映の間に Begin は割り込めない。
func (v *ViewTracker) CommitIfCurrent(token string, apply func()) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if token == "" || token != v.token {
		return false
	}
	apply()
	return true
}

// 今表示しているもの（例: "product:ps-5"）
func (v *ViewTracker) Identity() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.identity
}
