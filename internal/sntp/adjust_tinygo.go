//go:build tinygo

package sntp

import (
	"runtime"
	"time"
)

// adjustClock steps the system clock so time.Now() reports approximately t.
func adjustClock(t time.Time) {
	runtime.AdjustTimeOffset(-1 * int64(time.Since(t)))
}
