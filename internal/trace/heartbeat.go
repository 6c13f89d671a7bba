package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a driver-scope event every interval until stopped. A
// trace whose heartbeats keep coming while no span ends points at a pass
// that stopped making progress.
type Heartbeat struct {
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// StartHeartbeat returns nil when tracer is disabled or interval is not
// positive; Stop on nil is a no-op.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{done: make(chan struct{})}
	h.wg.Add(1)
	go h.beat(tracer, interval)
	return h
}

func (h *Heartbeat) beat(tracer Tracer, interval time.Duration) {
	defer h.wg.Done()
	tick := time.NewTicker(interval)
	defer tick.Stop()
	start := time.Now()
	for n := 1; ; n++ {
		select {
		case <-h.done:
			return
		case now := <-tick.C:
			tracer.Emit(&Event{
				Time:   now,
				Seq:    nextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				Name:   "heartbeat",
				Detail: "#" + strconv.Itoa(n),
				Extra:  map[string]string{"uptime": now.Sub(start).Round(time.Millisecond).String()},
			})
		}
	}
}

// Stop ends the beat and waits for the goroutine to exit.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		close(h.done)
		h.wg.Wait()
	})
}
