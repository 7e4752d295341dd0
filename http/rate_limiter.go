package http

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	bucketCleanupThreshold = 1 * time.Hour
	cleanupInterval        = 30 * time.Minute
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu          sync.Mutex
	limit       rate.Limit
	burst       int
	clients     map[string]*clientBucket
	stopCleanup chan struct{}
}

// NewRateLimiter allows requestsPerMinute sustained with the given burst.
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	rl := &RateLimiter{
		limit:       rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:       burst,
		clients:     make(map[string]*clientBucket),
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for ip, bucket := range r.clients {
		if now.Sub(bucket.lastSeen) > bucketCleanupThreshold {
			delete(r.clients, ip)
		}
	}
}

func (r *RateLimiter) Stop() {
	close(r.stopCleanup)
}

func (r *RateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, exists := r.clients[ip]
	if !exists {
		bucket = &clientBucket{
			limiter: rate.NewLimiter(r.limit, r.burst),
		}
		r.clients[ip] = bucket
	}
	bucket.lastSeen = time.Now()

	return bucket.limiter.Allow()
}
