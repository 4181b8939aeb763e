package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	log "portal-shell/termclient/pkg/logger"
)

// fileStorage 文件存储实现（单个 JSON 文件保存全部键值对）
type fileStorage struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// NewFileStorage 创建文件存储（文件不存在视为空存储，属于正常状态）
func NewFileStorage(path string) (Storage, error) {
	fs := &fileStorage{
		path: path,
		data: make(map[string]string),
	}

	if err := fs.load(); err != nil {
		return nil, fmt.Errorf("加载会话文件失败: %w", err)
	}

	return fs, nil
}

// load 从磁盘加载键值对
func (fs *fileStorage) load() error {
	raw, err := os.ReadFile(fs.path)
	if err != nil {
		// 文件不存在是正常的未登录状态
		if os.IsNotExist(err) {
			log.Debug("会话文件不存在，按空存储处理", zap.String("path", fs.path))
			return nil
		}
		return err
	}

	if len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, &fs.data); err != nil {
		return fmt.Errorf("解析会话文件失败: %w", err)
	}

	log.Debug("会话文件加载成功",
		zap.String("path", fs.path),
		zap.Int("keys", len(fs.data)))
	return nil
}

// persist 将键值对写回磁盘（目录 0700，文件 0600）
func (fs *fileStorage) persist() error {
	raw, err := json.MarshalIndent(fs.data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化会话数据失败: %w", err)
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("创建会话目录失败: %w", err)
	}

	if err := os.WriteFile(fs.path, raw, 0600); err != nil {
		return fmt.Errorf("写入会话文件失败: %w", err)
	}

	return nil
}

// Get 读取键对应的值
func (fs *fileStorage) Get(ctx context.Context, key string) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	value, ok := fs.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

// Set 写入键值对并立即落盘
func (fs *fileStorage) Set(ctx context.Context, key string, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.data[key] = value
	return fs.persist()
}

// Del 删除一个或多个键并立即落盘
func (fs *fileStorage) Del(ctx context.Context, keys ...string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for _, key := range keys {
		delete(fs.data, key)
	}
	return fs.persist()
}

// Close 关闭存储（数据已随每次写入落盘，无需额外处理）
func (fs *fileStorage) Close() error {
	return nil
}
