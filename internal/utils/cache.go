package utils

import (
	"log"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// 页面级本地缓存：LRU 控制条目数，每条各带 TTL。
// 读路径命中过期条目时顺手剔除。

const cacheCapacity = 500

type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

type GlobalCache struct {
	lruCache *lru.Cache[string, cacheEntry]
}

var (
	cacheInstance *GlobalCache
	cacheOnce     sync.Once
)

// GetCache 获取单例缓存实例
func GetCache() *GlobalCache {
	cacheOnce.Do(func() {
		l, err := lru.New[string, cacheEntry](cacheCapacity)
		if err != nil {
			log.Fatalf("Failed to create LRU cache: %v", err)
		}
		cacheInstance = &GlobalCache{lruCache: l}
	})
	return cacheInstance
}

// Set 写入缓存，ttl 过后视为失效
func (c *GlobalCache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, cacheEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
}

// Get 读缓存，不存在或已过期返回 nil
func (c *GlobalCache) Get(key string) interface{} {
	entry, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}
	if time.Now().After(entry.expiresAt) {
		c.lruCache.Remove(key)
		return nil
	}
	return entry.data
}

// Delete 删除指定缓存
func (c *GlobalCache) Delete(key string) {
	c.lruCache.Remove(key)
}

// Purge 清空全部缓存（站点设置或文章变更后调用）
func (c *GlobalCache) Purge() {
	c.lruCache.Purge()
}
