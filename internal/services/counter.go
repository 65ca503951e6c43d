package services

import (
	"log"
	"sync"
	"time"

	"inkwell/internal/db"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// CounterService 异步累积阅读量和站点访客数，攒一批再写库，
// 避免每个页面请求都打一次 UPDATE
type CounterService struct {
	mu       sync.Mutex
	views    map[string]int // postID -> 待写入的增量
	visitors int64          // 待写入的访客增量
	kick     chan struct{}
}

var (
	counterService *CounterService
	counterOnce    sync.Once
)

// GetCounterService 获取单例计数服务
func GetCounterService() *CounterService {
	counterOnce.Do(func() {
		counterService = &CounterService{
			views: make(map[string]int),
			kick:  make(chan struct{}, 1),
		}
		go counterService.worker()
	})
	return counterService
}

// ScheduleView 记一次文章阅读（非阻塞）
func (s *CounterService) ScheduleView(postID string) {
	s.mu.Lock()
	s.views[postID]++
	s.mu.Unlock()
	s.nudge()
}

// ScheduleVisitor 记一次站点访客（非阻塞）
func (s *CounterService) ScheduleVisitor() {
	s.mu.Lock()
	s.visitors++
	s.mu.Unlock()
	s.nudge()
}

func (s *CounterService) nudge() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// worker 每 2 秒或被唤醒后落盘一批增量
func (s *CounterService) worker() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
		case <-s.kick:
		}
		s.Flush()
	}
}

// Flush 将累积的增量写入数据库
func (s *CounterService) Flush() {
	s.mu.Lock()
	views := s.views
	visitors := s.visitors
	s.views = make(map[string]int)
	s.visitors = 0
	s.mu.Unlock()

	for postID, n := range views {
		if err := db.DB.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", n)).Error; err != nil {
			log.Printf("Failed to flush view count for post %s: %v", postID, err)
		}
	}

	if visitors > 0 {
		if err := db.DB.Model(&models.SiteStat{}).
			Where("id = ?", 1).
			UpdateColumn("total_visitors", gorm.Expr("total_visitors + ?", visitors)).Error; err != nil {
			log.Printf("Failed to flush visitor count: %v", err)
		}
	}
}

// TotalVisitors 当前累计访客数（后台统计用）
func TotalVisitors() int64 {
	var stat models.SiteStat
	if err := db.DB.First(&stat, 1).Error; err != nil {
		return 0
	}
	return stat.TotalVisitors
}
