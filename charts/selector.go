package charts

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Init probes the Chart.js bundle once within timeout. It returns ChartJS on
// success, and Bars together with the probe error otherwise.
func Init(ctx context.Context, client *http.Client, url string, timeout time.Duration) (Renderer, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return Bars{}, fmt.Errorf("probe chart library: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return Bars{}, fmt.Errorf("probe chart library: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return Bars{}, fmt.Errorf("probe chart library: status %d", resp.StatusCode)
	}
	return ChartJS{ScriptURL: url}, nil
}

type holder struct{ r Renderer }

// Selector hands out the active renderer. It serves Bars until a
// background Init succeeds.
type Selector struct {
	log     *zap.Logger
	current atomic.Pointer[holder]
	once    sync.Once
	done    chan struct{}
}

func NewSelector(log *zap.Logger) *Selector {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Selector{log: log, done: make(chan struct{})}
	s.current.Store(&holder{r: Bars{}})
	return s
}

func (s *Selector) Current() Renderer {
	return s.current.Load().r
}

// Start runs Init in the background. Only the first call has any effect.
func (s *Selector) Start(ctx context.Context, client *http.Client, url string, timeout time.Duration) {
	s.once.Do(func() {
		go func() {
			defer close(s.done)
			r, err := Init(ctx, client, url, timeout)
			if err != nil {
				s.log.Warn("chart library unavailable, using fallback bars", zap.String("url", url), zap.Error(err))
				return
			}
			s.current.Store(&holder{r: r})
			s.log.Info("chart library available", zap.String("url", url))
		}()
	})
}

// Done is closed once the background Init has finished.
func (s *Selector) Done() <-chan struct{} {
	return s.done
}
