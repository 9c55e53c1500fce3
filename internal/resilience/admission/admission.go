// Package admission gatekeeps inbound requests per client identity,
// enforcing a weighted request budget per fixed time window.
package admission

import (
	"sync"
	"time"

	"github.com/craftly/craftd/internal/observability/metrics"
)

// Limit defines one tier's budget: MaxPoints weighted requests per Window.
type Limit struct {
	Window    time.Duration
	MaxPoints int
}

// Tier names a service plan with its own budget.
type Tier string

const (
	TierBasic      Tier = "basic"
	TierStandard   Tier = "standard"
	TierPremium    Tier = "premium"
	TierEnterprise Tier = "enterprise"
)

// DefaultLimits mirror the published plan quotas.
var DefaultLimits = map[Tier]Limit{
	TierBasic:      {Window: time.Minute, MaxPoints: 30},
	TierStandard:   {Window: time.Minute, MaxPoints: 120},
	TierPremium:    {Window: time.Minute, MaxPoints: 600},
	TierEnterprise: {Window: time.Minute, MaxPoints: 3000},
}

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed    bool
	Remaining  int           // budget left in the current window
	RetryAfter time.Duration // time until the window resets, on deny
}

type bucket struct {
	windowStart time.Time
	count       int
}

// Controller tracks per-key budgets. Buckets are created lazily and a
// stale window simply rolls over on the next check, so no explicit
// garbage collection is required.
type Controller struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limits  map[Tier]Limit
	now     func() time.Time
}

// NewController creates an admission controller with the given tier table.
// A nil table falls back to DefaultLimits.
func NewController(limits map[Tier]Limit) *Controller {
	if limits == nil {
		limits = DefaultLimits
	}
	return &Controller{
		buckets: make(map[string]*bucket),
		limits:  limits,
		now:     time.Now,
	}
}

// Admit charges cost points against key's budget for tier and decides
// whether the request may proceed. Denial is the designed outcome for an
// over-budget client, not an error.
func (c *Controller) Admit(key string, tier Tier, cost int) Decision {
	if cost <= 0 {
		cost = 1
	}
	limit, ok := c.limits[tier]
	if !ok {
		limit = c.limits[TierBasic]
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	b, ok := c.buckets[key]
	if !ok || now.Sub(b.windowStart) >= limit.Window {
		b = &bucket{windowStart: now}
		c.buckets[key] = b
	}

	if b.count+cost > limit.MaxPoints {
		metrics.AdmissionDecisions.WithLabelValues(string(tier), "deny").Inc()
		return Decision{
			Allowed:    false,
			Remaining:  max(limit.MaxPoints-b.count, 0),
			RetryAfter: limit.Window - now.Sub(b.windowStart),
		}
	}

	b.count += cost
	metrics.AdmissionDecisions.WithLabelValues(string(tier), "allow").Inc()
	return Decision{Allowed: true, Remaining: limit.MaxPoints - b.count}
}

// Reset clears all buckets. Intended for tests and admin tooling.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buckets = make(map[string]*bucket)
}
