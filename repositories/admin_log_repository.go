package repositories

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"recipe-share/models"
)

// AdminLogFilter is the parsed form of the log viewer query.
type AdminLogFilter struct {
	Search     string
	ActionType string
	TargetType string
	ActorID    *uint
	From       *time.Time
	To         *time.Time
}

// AdminLogRepository is append-only: there is no update or delete.
type AdminLogRepository interface {
	Create(ctx context.Context, log *models.AdminLog) error
	List(ctx context.Context, filter AdminLogFilter, offset, limit int) ([]models.AdminLog, int64, error)
	Count(ctx context.Context, filter AdminLogFilter) (int64, error)
	ActionTypes(ctx context.Context) ([]string, error)
	TargetTypes(ctx context.Context) ([]string, error)
	Actors(ctx context.Context) ([]models.LogActorOption, error)
}

type adminLogRepository struct {
	db *gorm.DB
}

func NewAdminLogRepository(db *gorm.DB) AdminLogRepository {
	return &adminLogRepository{db: db}
}

func (r *adminLogRepository) Create(ctx context.Context, log *models.AdminLog) error {
	return r.db.WithContext(ctx).Omit("Actor").Create(log).Error
}

func (r *adminLogRepository) filtered(ctx context.Context, f AdminLogFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.AdminLog{})

	if s := strings.TrimSpace(f.Search); s != "" {
		like := containsPattern(s)
		query = query.
			Joins("LEFT JOIN users ON users.id = admin_logs.actor_id").
			Where(`(LOWER(admin_logs.description) LIKE ? ESCAPE '!'
				OR LOWER(users.username) LIKE ? ESCAPE '!'
				OR LOWER(users.email) LIKE ? ESCAPE '!'
				OR LOWER(admin_logs.target_type) LIKE ? ESCAPE '!'
				OR LOWER(admin_logs.action_type) LIKE ? ESCAPE '!'
				OR LOWER(admin_logs.ip_address) LIKE ? ESCAPE '!')`,
				like, like, like, like, like, like)
	}
	if f.ActionType != "" {
		query = query.Where("admin_logs.action_type = ?", f.ActionType)
	}
	if f.TargetType != "" {
		query = query.Where("admin_logs.target_type = ?", f.TargetType)
	}
	if f.ActorID != nil {
		query = query.Where("admin_logs.actor_id = ?", *f.ActorID)
	}
	if f.From != nil {
		query = query.Where("admin_logs.timestamp >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("admin_logs.timestamp <= ?", *f.To)
	}
	return query
}

func (r *adminLogRepository) Count(ctx context.Context, filter AdminLogFilter) (int64, error) {
	var total int64
	err := r.filtered(ctx, filter).Count(&total).Error
	return total, err
}

func (r *adminLogRepository) List(ctx context.Context, filter AdminLogFilter, offset, limit int) ([]models.AdminLog, int64, error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	var logs []models.AdminLog
	err = r.filtered(ctx, filter).
		Preload("Actor").
		Order("admin_logs.timestamp DESC, admin_logs.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&logs).Error
	return logs, total, err
}

func (r *adminLogRepository) ActionTypes(ctx context.Context) ([]string, error) {
	var types []string
	err := r.db.WithContext(ctx).Model(&models.AdminLog{}).
		Distinct().
		Order("action_type").
		Pluck("action_type", &types).Error
	return types, err
}

func (r *adminLogRepository) TargetTypes(ctx context.Context) ([]string, error) {
	var types []string
	err := r.db.WithContext(ctx).Model(&models.AdminLog{}).
		Where("target_type <> ''").
		Distinct().
		Order("target_type").
		Pluck("target_type", &types).Error
	return types, err
}

func (r *adminLogRepository) Actors(ctx context.Context) ([]models.LogActorOption, error) {
	var actors []models.LogActorOption
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("users.id, users.username").
		Where("users.id IN (?)", r.db.Model(&models.AdminLog{}).Select("actor_id").Where("actor_id IS NOT NULL")).
		Order("users.username").
		Scan(&actors).Error
	return actors, err
}
