package cache

import (
	"sync"
	"time"

	"quiz_master_backend/internal/model"
	"quiz_master_backend/pkg/monitoring"
)

// LoadFunc 从持久层加载全量题目（按 id 升序）
type LoadFunc func() ([]model.Question, error)

// QuestionCache 选题与统计共用的"全部题目"快照缓存。
// 写路径必须同步调用 Invalidate，TTL 只约束读多写少窗口内的重载频率；
// 版本号单调递增，用于诊断陈旧读取。
type QuestionCache struct {
	mu       sync.RWMutex
	ttl      time.Duration
	load     LoadFunc
	snapshot []model.Question
	loadedAt time.Time
	version  uint64
	valid    bool
}

func NewQuestionCache(ttl time.Duration, load LoadFunc) *QuestionCache {
	return &QuestionCache{
		ttl:  ttl,
		load: load,
	}
}

// Snapshot 返回快照的浅拷贝；过期或已失效时同步重载
func (c *QuestionCache) Snapshot() ([]model.Question, error) {
	c.mu.RLock()
	if c.valid && time.Since(c.loadedAt) < c.ttl {
		out := make([]model.Question, len(c.snapshot))
		copy(out, c.snapshot)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// 双重检查：等锁期间可能已有人重载
	if c.valid && time.Since(c.loadedAt) < c.ttl {
		out := make([]model.Question, len(c.snapshot))
		copy(out, c.snapshot)
		return out, nil
	}

	questions, err := c.load()
	if err != nil {
		return nil, err
	}

	c.snapshot = questions
	c.loadedAt = time.Now()
	c.version++
	c.valid = true
	monitoring.CacheRefreshCounter.Inc()

	out := make([]model.Question, len(questions))
	copy(out, questions)
	return out, nil
}

// Invalidate 任何写操作（增改删）之后必须同步调用
func (c *QuestionCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.version++
}

// Version 单调版本号，每次失效或重载递增
func (c *QuestionCache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}
