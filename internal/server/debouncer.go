package server

import (
	"context"
	"time"
)

// Debouncer coalesces bursts of change notifications into a single rebuild
// request once the quiet window elapses.
type Debouncer struct {
	quiet   time.Duration
	notify  chan struct{}
	trigger chan struct{}
}

func NewDebouncer(quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = 300 * time.Millisecond
	}
	return &Debouncer{
		quiet:   quiet,
		notify:  make(chan struct{}, 1),
		trigger: make(chan struct{}, 1),
	}
}

// Notify records a change. Never blocks.
func (d *Debouncer) Notify() {
	select {
	case d.notify <- struct{}{}:
	default:
	}
}

// C delivers one value per coalesced burst.
func (d *Debouncer) C() <-chan struct{} { return d.trigger }

// Run drives the debounce loop until ctx is done.
func (d *Debouncer) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-d.notify:
			if timer == nil {
				timer = time.NewTimer(d.quiet)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(d.quiet)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			select {
			case d.trigger <- struct{}{}:
			default:
			}
		}
	}
}
