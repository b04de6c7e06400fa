package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orgoj/logemit/internal/config"
	"github.com/orgoj/logemit/internal/handler"
	"github.com/orgoj/logemit/internal/logger"
	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleTTL         = 10 * time.Minute
)

// Dependencies holds the dependencies needed by the server.
type Dependencies struct {
	Config  *config.Config
	Emitter logger.Emitter
}

// rateLimiterEntry is one client's token bucket.
type rateLimiterEntry struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

func (e *rateLimiterEntry) touch(now time.Time) {
	e.mu.Lock()
	e.lastSeen = now
	e.mu.Unlock()
}

func (e *rateLimiterEntry) idleSince(now time.Time) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return now.Sub(e.lastSeen)
}

// Server represents the HTTP server
type Server struct {
	router  *gin.Engine
	config  *config.Config
	emitter logger.Emitter

	// Rate limiting, keyed by client IP
	limiters   sync.Map // map[string]*rateLimiterEntry
	rateLimit  rate.Limit
	burstLimit int

	mu           sync.Mutex
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
}

// NewServer creates a new server instance with its dependencies.
func NewServer(deps Dependencies) *Server {
	if deps.Config == nil {
		panic("server: Config dependency cannot be nil")
	}
	if deps.Emitter == nil {
		panic("server: Emitter dependency cannot be nil")
	}

	switch deps.Config.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	if err := router.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil {
		// Validation should have caught this; trust no proxy rather than all of them
		logger.Errorf("server", "invalid trusted proxies %v: %v", deps.Config.Server.TrustedProxies, err)
		_ = router.SetTrustedProxies(nil)
	}

	cors := deps.Config.Server.CORS
	if cors.Enabled {
		router.Use(corsMiddleware(cors.AllowedOrigins, cors.MaxAge))
	}

	s := &Server{
		router:       router,
		config:       deps.Config,
		emitter:      deps.Emitter,
		shutdownChan: make(chan struct{}),
	}

	if deps.Config.Server.RateLimit > 0 {
		// Convert requests per minute to requests per second
		s.rateLimit = rate.Limit(float64(deps.Config.Server.RateLimit) / 60.0)
		// Allow bursts up to the per-minute limit
		s.burstLimit = deps.Config.Server.RateLimit
		logger.Infof("server", "rate limiting enabled for /log: rate=%.2f req/sec, burst=%d", float64(s.rateLimit), s.burstLimit)
		go s.cleanupLoop()
	} else {
		s.rateLimit = rate.Inf
		logger.Infof("server", "rate limiting disabled for /log")
	}

	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	// Health check endpoint (no rate limit)
	s.router.GET("/health", s.healthHandler)
	s.router.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Version endpoint (no rate limit)
	s.router.GET("/version", handler.VersionHandler)

	logHandlers := []gin.HandlerFunc{}
	if s.rateLimit != rate.Inf {
		logHandlers = append(logHandlers, s.rateLimitMiddleware())
	}
	logHandlers = append(logHandlers, handler.NewLogHandler(handler.LogHandlerDependencies{
		Emitter:     s.emitter,
		MaxBodySize: s.config.Server.MaxBody,
	}))
	s.router.POST("/log", logHandlers...)

	if s.config.Server.CORS.Enabled {
		// Preflight; corsMiddleware answers it before this runs for allowed origins
		s.router.OPTIONS("/log", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
	}
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"level":  s.emitter.Level().String(),
	})
}

// requestLogger logs every request through the process logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf("server", "%s %s -> %d (%s) from %s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}

// rateLimitMiddleware creates a Gin middleware for rate limiting based on IP.
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		entry := s.limiterFor(ip, time.Now())

		if !entry.limiter.Allow() {
			logger.Infof("server", "rate limit exceeded for IP: %s", ip)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}

func (s *Server) limiterFor(ip string, now time.Time) *rateLimiterEntry {
	if v, ok := s.limiters.Load(ip); ok {
		entry := v.(*rateLimiterEntry)
		entry.touch(now)
		return entry
	}
	v, _ := s.limiters.LoadOrStore(ip, &rateLimiterEntry{
		limiter:  rate.NewLimiter(s.rateLimit, s.burstLimit),
		lastSeen: now,
	})
	entry := v.(*rateLimiterEntry)
	entry.touch(now)
	return entry
}

// cleanupLoop drops limiters of clients that went quiet until Shutdown.
func (s *Server) cleanupLoop() {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.shutdownChan:
			return
		case now := <-ticker.C:
			s.cleanupLimiters(now)
		}
	}
}

// cleanupLimiters removes entries idle for longer than limiterIdleTTL and
// returns how many were removed.
func (s *Server) cleanupLimiters(now time.Time) int {
	removed := 0
	s.limiters.Range(func(key, value interface{}) bool {
		if value.(*rateLimiterEntry).idleSince(now) > limiterIdleTTL {
			s.limiters.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		logger.Debugf("server", "removed %d idle rate limiters", removed)
	}
	return removed
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Server.Host, strconv.Itoa(s.config.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Serve serves HTTP on ln until Shutdown. A graceful shutdown returns nil.
func (s *Server) Serve(ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = httpServer
	s.mu.Unlock()

	logger.Infof("server", "listening on %s", ln.Addr())
	if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the cleanup goroutine and gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() { close(s.shutdownChan) })

	s.mu.Lock()
	httpServer := s.httpServer
	s.mu.Unlock()
	if httpServer == nil {
		return nil
	}
	logger.Infof("server", "shutting down")
	return httpServer.Shutdown(ctx)
}

// corsMiddleware creates a middleware for CORS
func corsMiddleware(allowedOrigins []string, maxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		found := false
		for _, allowedOrigin := range allowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
				if allowedOrigin != "*" {
					c.Writer.Header().Add("Vary", "Origin")
				}
				found = true
				break
			}
		}

		if !found {
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusForbidden)
			} else {
				// Let other requests pass through without CORS headers
				c.Next()
			}
			return
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-Requested-With")
		if maxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(maxAge))
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
