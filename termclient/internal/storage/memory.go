package storage

import (
	"context"
	"sync"
)

// memoryStorage 内存存储实现（进程退出即丢失，用于开发和测试）
type memoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStorage 创建内存存储
func NewMemoryStorage() Storage {
	return &memoryStorage{
		data: make(map[string]string),
	}
}

// Get 读取键对应的值
func (ms *memoryStorage) Get(ctx context.Context, key string) (string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	value, ok := ms.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

// Set 写入键值对
func (ms *memoryStorage) Set(ctx context.Context, key string, value string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.data[key] = value
	return nil
}

// Del 删除一个或多个键
func (ms *memoryStorage) Del(ctx context.Context, keys ...string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for _, key := range keys {
		delete(ms.data, key)
	}
	return nil
}

// Close 关闭存储
func (ms *memoryStorage) Close() error {
	return nil
}
