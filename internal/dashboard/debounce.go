package dashboard

import (
	"sync"
	"time"
)

// DefaultDebounceInterval は検索入力のデバウンス間隔。
const DefaultDebounceInterval = 400 * time.Millisecond

// Debouncer はトレーリングエッジのデバウンサー。
// Triggerが呼ばれるたびにタイマーをリセットし、最後の呼び出しから
// interval経過後に一度だけコールバックを実行する。
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	stopped  bool
}

// NewDebouncer はDebouncerを生成する。intervalが0以下の場合は
// DefaultDebounceIntervalを使用する。
func NewDebouncer(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	return &Debouncer{interval: interval}
}

// Trigger はコールバックの実行を予約する。保留中の予約があればキャンセルし、
// 最後のTriggerのコールバックのみがinterval経過後に実行される。
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, fn)
}

// Stop は保留中の予約をキャンセルし、以降のTriggerを無効化する。
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
