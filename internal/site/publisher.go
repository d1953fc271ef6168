// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package site

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Publisher keeps the latest good build for the HTTP server. A failed
// rebuild leaves the previous page in place.
type Publisher struct {
	cfg     Config
	current atomic.Pointer[Result]

	mu      sync.Mutex // serializes rebuilds
	lastRun time.Time
	lastErr error
}

// NewPublisher creates a publisher with no page yet.
func NewPublisher(cfg Config) *Publisher {
	return &Publisher{cfg: cfg}
}

// Rebuild runs a build and publishes it on success.
func (p *Publisher) Rebuild(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	res, err := Build(ctx, p.cfg)
	p.lastRun = p.cfg.now()
	p.lastErr = err
	if err != nil {
		return err
	}
	p.current.Store(res)
	return nil
}

// Current returns the published build or nil before the first success.
func (p *Publisher) Current() *Result {
	return p.current.Load()
}

// RoutesPath is the routing file this publisher builds from.
func (p *Publisher) RoutesPath() string {
	return p.cfg.RoutesPath
}

// Status reports the last attempt. Bots counts the published page, which may
// be older than the last attempt when that attempt failed.
func (p *Publisher) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := Status{LastRun: p.lastRun}
	if res := p.current.Load(); res != nil {
		st.Bots = len(res.Bots)
	}
	if p.lastErr != nil {
		st.Error = p.lastErr.Error()
	}
	return st
}
