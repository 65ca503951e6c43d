package storage

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostgresStore 基于 gorm 的评论存储实现
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListApproved(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Where("post_id = ? AND approved = ?", postID, true).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("Post").
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *PostgresStore) Insert(ctx context.Context, c *models.Comment, omitAvatar bool) error {
	tx := s.db.WithContext(ctx)
	if omitAvatar {
		tx = tx.Omit("avatar_url")
	}
	return tx.Create(c).Error
}

func (s *PostgresStore) SetApproved(ctx context.Context, id string, approved bool) error {
	res := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		Update("approved", approved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, id string) error {
	// 评论本体和直接子回复一条语句删掉，孙辈不动
	return s.db.WithContext(ctx).
		Where("id = ? OR parent_id = ?", id, id).
		Delete(&models.Comment{}).Error
}
