package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/usecase"
)

// LeadHandler captures a single lead from a public form. The endpoint is
// rate limited per client IP because it is the only unauthenticated write.
type LeadHandler struct {
	ingest      *usecase.IngestLeadsUseCase
	rateLimiter *RateLimiter
}

func NewLeadHandler(ingest *usecase.IngestLeadsUseCase) *LeadHandler {
	return &LeadHandler{
		ingest:      ingest,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

type CaptureLeadRequest struct {
	Name     string `json:"name"`
	Niche    string `json:"niche,omitempty"`
	Contact  string `json:"contact"`
	Platform string `json:"platform"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty"`
}

func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		return
	}

	var req CaptureLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	record := usecase.RawRecord{
		"name":     req.Name,
		"niche":    req.Niche,
		"contact":  req.Contact,
		"platform": req.Platform,
		"email":    req.Email,
		"phone":    req.Phone,
		"website":  req.Website,
	}

	out, err := h.ingest.Execute(r.Context(), usecase.IngestInput{
		Source:  "capture",
		Records: []usecase.RawRecord{record},
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	if out.Rejected > 0 {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_LEAD", "name, contact and platform are required")
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
