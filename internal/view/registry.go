package view

import (
	"sync"
	"time"

	"github.com/nutriscan-ai/supplement-platform/internal/llm"
	"github.com/nutriscan-ai/supplement-platform/pkg/logger"
	"github.com/nutriscan-ai/supplement-platform/pkg/metrics"
)

// maxIdle bounds how long an untouched client state is kept. Default
// per-IP keying means churned clients would otherwise accumulate forever.
const maxIdle = time.Hour

// Registry hands out one controller per client key, created on first use.
// State is in-memory only and lost on restart; states idle past maxIdle
// are evicted, releasing any device they still hold.
type Registry struct {
	boundary llm.Client
	timeout  time.Duration
	maxIdle  time.Duration
	log      *logger.Logger

	mu      sync.Mutex
	clients map[string]*clientEntry
}

type clientEntry struct {
	controller *Controller
	lastSeen   time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(boundary llm.Client, timeout time.Duration, log *logger.Logger) *Registry {
	return &Registry{
		boundary: boundary,
		timeout:  timeout,
		maxIdle:  maxIdle,
		log:      log,
		clients:  make(map[string]*clientEntry),
	}
}

// Get returns the controller for a client key, creating it if needed.
func (r *Registry) Get(clientKey string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.evictIdle(now)

	if e, ok := r.clients[clientKey]; ok {
		e.lastSeen = now
		return e.controller
	}
	c := NewController(r.boundary, r.timeout, r.log.WithClient(clientKey))
	r.clients[clientKey] = &clientEntry{controller: c, lastSeen: now}
	metrics.ClientStatesActive.Set(float64(len(r.clients)))
	return c
}

// evictIdle drops states untouched past the idle bound. Caller holds r.mu.
func (r *Registry) evictIdle(now time.Time) {
	evicted := false
	for key, e := range r.clients {
		if now.Sub(e.lastSeen) > r.maxIdle {
			e.controller.Capture().Close()
			delete(r.clients, key)
			evicted = true
		}
	}
	if evicted {
		metrics.ClientStatesActive.Set(float64(len(r.clients)))
	}
}
