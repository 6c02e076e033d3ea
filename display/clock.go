package display

import "time"

// WallClock implements bus.Clock against the monotonic system clock,
// counting microseconds from process start. Under ebiten, Update()'s own
// ~60 Hz callback calls RunFrame, which still sleeps through this clock
// at every scanline change.
type WallClock struct{}

// clockOrigin anchors NowMicros; time.Since uses its monotonic reading.
var clockOrigin = time.Now()

func (WallClock) NowMicros() int64 { return time.Since(clockOrigin).Microseconds() }

func (WallClock) SleepMicros(d int64) {
	if d <= 0 {
		return
	}
	time.Sleep(time.Duration(d) * time.Microsecond)
}
