package api

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"enrichment/internal/model"
)

var (
	errDownloadExpired = fmt.Errorf("%w: download link expired", model.ErrSaveCancelled)
	errDownloadClosed  = fmt.Errorf("%w: server stopped before download", model.ErrSaveCancelled)
)

type download struct {
	exportID  string
	filePath  string
	filename  string
	expiresAt time.Time
}

// downloadStore 一次性下载令牌。过期或关闭时删除临时文件并回调 onDrop。
type downloadStore struct {
	mu     sync.Mutex
	items  map[string]download
	onDrop func(download, error)
}

func newDownloadStore(onDrop func(download, error)) *downloadStore {
	if onDrop == nil {
		onDrop = func(download, error) {}
	}
	return &downloadStore{
		items:  make(map[string]download),
		onDrop: onDrop,
	}
}

func (s *downloadStore) put(d download, ttl time.Duration) string {
	s.mu.Lock()
	expired := s.expireLocked(time.Now())
	token := uuid.NewString()
	d.expiresAt = time.Now().Add(ttl)
	s.items[token] = d
	s.mu.Unlock()

	s.drop(expired, errDownloadExpired)
	return token
}

// take 取出并移除令牌，同一令牌只能成功一次
func (s *downloadStore) take(token string) (download, bool) {
	s.mu.Lock()
	expired := s.expireLocked(time.Now())
	v, ok := s.items[token]
	delete(s.items, token)
	s.mu.Unlock()

	s.drop(expired, errDownloadExpired)
	return v, ok
}

func (s *downloadStore) purgeExpired() int {
	s.mu.Lock()
	expired := s.expireLocked(time.Now())
	s.mu.Unlock()

	s.drop(expired, errDownloadExpired)
	return len(expired)
}

// close 丢弃全部未下载的文件
func (s *downloadStore) close() {
	s.mu.Lock()
	all := make([]download, 0, len(s.items))
	for k, v := range s.items {
		all = append(all, v)
		delete(s.items, k)
	}
	s.mu.Unlock()

	s.drop(all, errDownloadClosed)
}

func (s *downloadStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *downloadStore) expireLocked(now time.Time) []download {
	var expired []download
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
			expired = append(expired, v)
		}
	}
	return expired
}

// drop 在锁外执行，onDrop 可能进入控制器
func (s *downloadStore) drop(items []download, reason error) {
	for _, v := range items {
		err := reason
		if rmErr := os.Remove(v.filePath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = fmt.Errorf("%w (remove %s: %v)", reason, v.filePath, rmErr)
		}
		s.onDrop(v, err)
	}
}
