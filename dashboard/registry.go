package dashboard

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"fittrack-dashboard/models"
	"fittrack-dashboard/state"
	"fittrack-dashboard/storage"
)

// RegistryConfig sizes the in-memory session registry.
type RegistryConfig struct {
	Capacity   int
	IdleTTL    time.Duration
	Quota      int // bytes per session store
	StorageKey string
	Defaults   *models.Defaults
	Session    Options
}

// Registry maps session ids to live sessions. A session that idles past its
// TTL, or is pushed out by capacity, ends together with its storage.
type Registry struct {
	cfg   RegistryConfig
	mu    sync.Mutex
	cache *expirable.LRU[string, *Session]
}

func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Session.Log == nil {
		cfg.Session.Log = zap.NewNop()
	}
	r := &Registry{cfg: cfg}
	log, m := cfg.Session.Log, cfg.Session.Metrics
	// Runs under the cache's lock; must not call back into r.cache.
	r.cache = expirable.NewLRU[string, *Session](cfg.Capacity, func(id string, _ *Session) {
		m.SessionEnded()
		log.Debug("session ended", zap.String("session", id))
	}, cfg.IdleTTL)
	return r
}

// Get returns the live session for id and refreshes its idle timer.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.cache.Get(id)
	if ok {
		r.cache.Add(id, s)
	}
	return s, ok
}

// Open returns the session for id, starting a fresh one with empty storage
// when none is live.
func (r *Registry) Open(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.cache.Get(id); ok {
		r.cache.Add(id, s)
		return s
	}

	opts := r.cfg.Session
	opts.Log = opts.Log.With(zap.String("session", id))
	kv := storage.NewMemory(r.cfg.Quota)
	store := state.NewStore(kv, r.cfg.StorageKey, r.cfg.Defaults, opts.Log, opts.Metrics)
	s := Open(store, opts)
	// An expired entry may linger until the purge tick; end it first.
	r.cache.Remove(id)
	r.cache.Add(id, s)
	opts.Metrics.SessionStarted()
	opts.Log.Info("session started")
	return s
}

func (r *Registry) Len() int {
	return r.cache.Len()
}
