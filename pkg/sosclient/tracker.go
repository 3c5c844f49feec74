package sosclient

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	statusCompleted = "completed"

	// DefaultTrackInterval подставляется вместо нулевого или отрицательного интервала
	DefaultTrackInterval = 5 * time.Second
)

// Tracker опрашивает один сигнал и отдает его снимки при каждом изменении.
// У каждого Tracker свой контекст: Stop одного не влияет на другие сессии.
type Tracker struct {
	client   *Client
	signalID string
	interval time.Duration

	cancel  context.CancelFunc
	updates chan *Signal
	done    chan struct{}

	mu  sync.Mutex
	err error
}

// Track запускает опрос сигнала. Канал Updates закрывается, когда сигнал
// завершен, вызван Stop, отменен родительский ctx или сервер вернул 4xx.
// interval <= 0 заменяется на DefaultTrackInterval.
func (c *Client) Track(ctx context.Context, signalID string, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultTrackInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	t := &Tracker{
		client:   c,
		signalID: signalID,
		interval: interval,
		cancel:   cancel,
		updates:  make(chan *Signal, 1),
		done:     make(chan struct{}),
	}
	go t.run(ctx)
	return t
}

func (t *Tracker) Updates() <-chan *Signal {
	return t.updates
}

// Stop прекращает опрос и ждет завершения горутины
func (t *Tracker) Stop() {
	t.cancel()
	<-t.done
}

// Err возвращает причину остановки, если это не завершение сигнала и не Stop
func (t *Tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Tracker) setErr(err error) {
	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
}

func (t *Tracker) run(ctx context.Context) {
	defer close(t.done)
	defer close(t.updates)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	var last *Signal
	for {
		signal, err := t.client.GetSignal(ctx, t.signalID)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			// 4xx не исправится повтором, сетевые ошибки и 5xx пропускаем до следующего тика
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
				t.setErr(err)
				return
			}
		case changed(last, signal):
			last = signal
			select {
			case t.updates <- signal:
			case <-ctx.Done():
				return
			}
			if signal.Status == statusCompleted {
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// changed сравнивает поля, которые меняются за жизнь сигнала
func changed(prev, next *Signal) bool {
	if prev == nil {
		return true
	}
	if prev.Status != next.Status || !prev.UpdatedAt.Equal(next.UpdatedAt) {
		return true
	}
	if (prev.AssignedTeamID == nil) != (next.AssignedTeamID == nil) {
		return true
	}
	pl, nl := prev.RescuerLocation, next.RescuerLocation
	if (pl == nil) != (nl == nil) {
		return true
	}
	return pl != nil && !pl.ReportedAt.Equal(nl.ReportedAt)
}
