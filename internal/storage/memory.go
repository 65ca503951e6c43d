package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"inkwell/internal/models"

	"github.com/google/uuid"
)

// MemoryStore 内存评论存储，测试用
type MemoryStore struct {
	mu       sync.RWMutex
	comments map[string]*models.Comment
	seq      int // 保证同一纳秒内插入的相对顺序

	// RejectAvatarColumn 模拟 comments 表缺少 avatar_url 列的旧部署：
	// 带 avatar 的完整插入会失败，省略该列的插入成功
	RejectAvatarColumn bool

	// FailNextInsert 非空时使下一次插入失败一次
	FailNextInsert error

	// FailAllInserts 非空时所有插入都失败
	FailAllInserts error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		comments: make(map[string]*models.Comment),
	}
}

func (s *MemoryStore) ListApproved(ctx context.Context, postID string) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Comment
	for _, c := range s.comments {
		if c.PostID == postID && c.Approved {
			result = append(result, *c)
		}
	}
	sortByCreatedAsc(result)
	return result, nil
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Comment
	for _, c := range s.comments {
		result = append(result, *c)
	}
	sortByCreatedAsc(result)
	// 后台列表新的在前
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *MemoryStore) Insert(ctx context.Context, c *models.Comment, omitAvatar bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailAllInserts != nil {
		return s.FailAllInserts
	}
	if s.FailNextInsert != nil {
		err := s.FailNextInsert
		s.FailNextInsert = nil
		return err
	}
	if s.RejectAvatarColumn && !omitAvatar {
		return errors.New(`column "avatar_url" of relation "comments" does not exist`)
	}

	stored := *c
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if omitAvatar {
		stored.AvatarURL = ""
	}
	if stored.CreatedAt.IsZero() {
		s.seq++
		stored.CreatedAt = time.Now().Add(time.Duration(s.seq) * time.Microsecond)
	}
	s.comments[stored.ID] = &stored
	*c = stored
	return nil
}

func (s *MemoryStore) SetApproved(ctx context.Context, id string, approved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return ErrNotFound
	}
	c.Approved = approved
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.comments, id)
	// 只级联直接子回复，孙辈保留
	for cid, c := range s.comments {
		if c.ParentID != nil && *c.ParentID == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

// Len 当前存储的评论总数（含不可见的孤儿）
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.comments)
}

func sortByCreatedAsc(comments []models.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
}
