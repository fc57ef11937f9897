package security

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// 单主人 API 只有小程序前端会跨域调用，暴露的方法和请求头按实际路由收紧
const (
	allowMethods = "GET, POST, DELETE, OPTIONS"
	allowHeaders = "Content-Type, Authorization, Accept, Origin"
)

// CORS 中间件 仅允许白名单中的Origin，支持Credentials
func CORS(allowedOrigins []string) gin.HandlerFunc {
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[o] = true
	}

	return func(c *gin.Context) {
		if origin := c.Request.Header.Get("Origin"); origin != "" && originSet[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", allowMethods)
			c.Writer.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Secure 中间件
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 防止MIME嗅探
		c.Header("X-Content-Type-Options", "nosniff")
		// 防止点击劫持
		c.Header("X-Frame-Options", "DENY")
		// 备份下载链接不外带 Referrer
		c.Header("Referrer-Policy", "no-referrer")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// client 包装限流器和最后活跃时间，用于定期清理
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type clientStore struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
}

func (s *clientStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.clients[key]
	if !ok {
		v = &client{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.clients[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (s *clientStore) sweep(expiry time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, v := range s.clients {
		if time.Since(v.lastSeen) > expiry {
			delete(s.clients, key)
		}
	}
}

// RateLimiter 限流中间件 按IP限流，自动清理过期条目。
// 正常只有主人一个 IP 在访问，条目表基本只在被扫描时增长。
func RateLimiter(maxRequests int, window time.Duration) gin.HandlerFunc {
	store := &clientStore{
		clients: make(map[string]*client),
		limit:   rate.Every(window / time.Duration(maxRequests)),
		burst:   maxRequests,
	}

	expiry := window * 3
	if expiry < time.Minute {
		expiry = time.Minute
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			store.sweep(expiry)
		}
	}()

	return func(c *gin.Context) {
		if !store.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
