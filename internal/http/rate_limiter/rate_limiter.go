package rate_limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*clientLimiter)
	mu       sync.Mutex

	limit rate.Limit = 5
	burst            = 10
)

// Configure sets the allowance given to visitors seen from now on.
func Configure(rps float64, b int) {
	mu.Lock()
	defer mu.Unlock()
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if b > 0 {
		burst = b
	}
}

func GetVisitor(ip string) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(limit, burst)
		visitors[ip] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func StartVisitorCleanupLoop() {
	for {
		time.Sleep(time.Minute)
		CleanupIdleVisitors(5 * time.Minute)
	}
}

// CleanupIdleVisitors forgets visitors not seen for longer than idle.
func CleanupIdleVisitors(idle time.Duration) int {
	mu.Lock()
	defer mu.Unlock()

	removed := 0
	for ip, v := range visitors {
		if time.Since(v.lastSeen) > idle {
			delete(visitors, ip)
			removed++
		}
	}
	return removed
}

func CleanupAllVisitors() {
	mu.Lock()
	defer mu.Unlock()
	visitors = make(map[string]*clientLimiter)
}
