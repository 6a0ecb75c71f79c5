package application

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Poller refreshes a Dashboard on a fixed interval until stopped.
type Poller struct {
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// StartPolling refreshes immediately and then every PollInterval. Polls run
// one after another on a single goroutine, so they never overlap.
func (d *Dashboard) StartPolling(ctx context.Context) *Poller {
	pollCtx, cancel := context.WithCancel(ctx)
	p := &Poller{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)

		log.Debug().Dur("interval", d.interval).Msg("dashboard polling started")
		d.refresh(pollCtx)

		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-pollCtx.Done():
				log.Debug().Msg("dashboard polling stopped")
				return
			case <-ticker.C:
				d.refresh(pollCtx)
			}
		}
	}()

	return p
}

// Stop cancels the poller and waits for its goroutine to exit. No state
// change from this poller happens after Stop returns.
func (p *Poller) Stop() {
	p.stopOnce.Do(p.cancel)
	<-p.done
}

func (p *Poller) Done() <-chan struct{} {
	return p.done
}

// AuthState is the part of SessionService the dashboard follows.
type AuthState interface {
	IsAuthenticated() bool
	Subscribe() <-chan bool
}

// WatchAuth polls while the session is authenticated and stops polling when
// it is not. It blocks until ctx is done.
func (d *Dashboard) WatchAuth(ctx context.Context, auth AuthState) {
	updates := auth.Subscribe()

	var poller *Poller
	stop := func() {
		if poller != nil {
			poller.Stop()
			poller = nil
		}
	}
	defer stop()

	if auth.IsAuthenticated() {
		poller = d.StartPolling(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case authenticated := <-updates:
			switch {
			case authenticated && poller == nil:
				poller = d.StartPolling(ctx)
			case !authenticated && poller != nil:
				stop()
				d.Reset()
			}
		}
	}
}
