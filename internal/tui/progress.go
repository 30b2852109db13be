package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/pipeflow/internal/dynamo"
)

// Progress is a dynamo.Observer that redraws a one-line progress bar at
// most frameRate times per second.
type Progress struct {
	out       io.Writer
	duration  float64
	frameRate int
	width     int
	lastFrame time.Time
}

func NewProgress(out io.Writer, duration float64, frameRate int) *Progress {
	if frameRate <= 0 {
		frameRate = 20
	}
	return &Progress{out: out, duration: duration, frameRate: frameRate, width: 40}
}

func (p *Progress) OnStep(x dynamo.State, t float64) {
	if time.Since(p.lastFrame) < time.Second/time.Duration(p.frameRate) {
		return
	}
	p.lastFrame = time.Now()
	p.render(t)
}

// Done draws the full bar and ends the line.
func (p *Progress) Done() {
	p.render(p.duration)
	fmt.Fprintln(p.out)
}

func (p *Progress) render(t float64) {
	frac := 0.0
	if p.duration > 0 {
		frac = t / p.duration
	}
	if frac > 1 {
		frac = 1
	}
	if frac < 0 {
		frac = 0
	}
	filled := int(frac * float64(p.width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)
	fmt.Fprintf(p.out, "\r  %s %5.1f%%  t=%.4gs", bar, frac*100, t)
}
