package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/repository"
)

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetOrCreate(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var row profileRow
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ?", userID).First(&row).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = profileRow{ID: uuid.NewString(), UserID: userID, Level: 1}
		if err := db.Create(&row).Error; err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
	default:
		return nil, fmt.Errorf("find profile: %w", err)
	}
	profile := row.toDomain()
	return &profile, nil
}

func (r *profileRepository) GetByID(ctx context.Context, userID, id string) (*domain.UserProfile, error) {
	var row profileRow
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
		return nil, notFound(err, domain.ErrProfileNotFound)
	}
	profile := row.toDomain()
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context, userID string) ([]domain.UserProfile, error) {
	var rows []profileRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	profiles := make([]domain.UserProfile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, row.toDomain())
	}
	return profiles, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	if profile == nil {
		return domain.ErrInvalidPayload
	}
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	row := profileRow{ID: profile.ID, UserID: profile.UserID, Level: profile.Level, Experience: profile.Experience}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrProfileExists
		}
		return fmt.Errorf("create profile: %w", err)
	}
	profile.CreatedAt, profile.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	if profile == nil {
		return domain.ErrInvalidPayload
	}
	now := r.db.NowFunc()
	res := r.db.WithContext(ctx).Model(&profileRow{}).
		Where("id = ? AND user_id = ?", profile.ID, profile.UserID).
		Updates(map[string]interface{}{
			"level":      profile.Level,
			"experience": profile.Experience,
			"updated_at": now,
		})
	if res.Error != nil {
		return fmt.Errorf("update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrProfileNotFound
	}
	profile.UpdatedAt = now
	return nil
}

func (r *profileRepository) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&profileRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

type statusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) repository.StatusRepository {
	return &statusRepository{db: db}
}

func (r *statusRepository) GetOrCreate(ctx context.Context, userID string, statusType domain.StatusType) (*domain.UserStatus, error) {
	var row statusRow
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ? AND status_type = ?", userID, string(statusType)).First(&row).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = statusRow{ID: uuid.NewString(), UserID: userID, StatusType: string(statusType), Level: 1}
		if err := db.Create(&row).Error; err != nil {
			return nil, fmt.Errorf("create status: %w", err)
		}
	default:
		return nil, fmt.Errorf("find status: %w", err)
	}
	status := row.toDomain()
	return &status, nil
}

func (r *statusRepository) GetByID(ctx context.Context, userID, id string) (*domain.UserStatus, error) {
	var row statusRow
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
		return nil, notFound(err, domain.ErrStatusNotFound)
	}
	status := row.toDomain()
	return &status, nil
}

func (r *statusRepository) List(ctx context.Context, userID string) ([]domain.UserStatus, error) {
	var rows []statusRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("status_type").Find(&rows).Error; err != nil {
		return nil, err
	}
	statuses := make([]domain.UserStatus, 0, len(rows))
	for _, row := range rows {
		statuses = append(statuses, row.toDomain())
	}
	return statuses, nil
}

func (r *statusRepository) Create(ctx context.Context, status *domain.UserStatus) error {
	if status == nil {
		return domain.ErrInvalidPayload
	}
	if status.ID == "" {
		status.ID = uuid.NewString()
	}
	row := statusRow{
		ID:         status.ID,
		UserID:     status.UserID,
		StatusType: string(status.StatusType),
		Level:      status.Level,
		Experience: status.Experience,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrStatusExists
		}
		return fmt.Errorf("create status: %w", err)
	}
	status.CreatedAt, status.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return nil
}

func (r *statusRepository) Update(ctx context.Context, status *domain.UserStatus) error {
	if status == nil {
		return domain.ErrInvalidPayload
	}
	now := r.db.NowFunc()
	res := r.db.WithContext(ctx).Model(&statusRow{}).
		Where("id = ? AND user_id = ?", status.ID, status.UserID).
		Updates(map[string]interface{}{
			"status_type": string(status.StatusType),
			"level":       status.Level,
			"experience":  status.Experience,
			"updated_at":  now,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrStatusExists
		}
		return fmt.Errorf("update status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrStatusNotFound
	}
	status.UpdatedAt = now
	return nil
}

func (r *statusRepository) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&statusRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrStatusNotFound
	}
	return nil
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) repository.AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) GetByID(ctx context.Context, userID, id string) (*domain.Achievement, error) {
	var row achievementRow
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
		return nil, notFound(err, domain.ErrAchievementNotFound)
	}
	achievement := row.toDomain()
	return &achievement, nil
}

func (r *achievementRepository) List(ctx context.Context, userID string) ([]domain.Achievement, error) {
	var rows []achievementRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("achieved_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	achievements := make([]domain.Achievement, 0, len(rows))
	for _, row := range rows {
		achievements = append(achievements, row.toDomain())
	}
	return achievements, nil
}

func (r *achievementRepository) Create(ctx context.Context, achievement *domain.Achievement) error {
	if achievement == nil {
		return domain.ErrInvalidPayload
	}
	if achievement.ID == "" {
		achievement.ID = uuid.NewString()
	}
	row := achievementRow{
		ID:          achievement.ID,
		UserID:      achievement.UserID,
		Name:        achievement.Name,
		Description: achievement.Description,
		AchievedAt:  r.db.NowFunc(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create achievement: %w", err)
	}
	achievement.AchievedAt = row.AchievedAt
	return nil
}

func (r *achievementRepository) Update(ctx context.Context, achievement *domain.Achievement) error {
	if achievement == nil {
		return domain.ErrInvalidPayload
	}
	res := r.db.WithContext(ctx).Model(&achievementRow{}).
		Where("id = ? AND user_id = ?", achievement.ID, achievement.UserID).
		Updates(map[string]interface{}{
			"name":        achievement.Name,
			"description": achievement.Description,
		})
	if res.Error != nil {
		return fmt.Errorf("update achievement: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAchievementNotFound
	}
	current, err := r.GetByID(ctx, achievement.UserID, achievement.ID)
	if err != nil {
		return err
	}
	achievement.AchievedAt = current.AchievedAt
	return nil
}

func (r *achievementRepository) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&achievementRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAchievementNotFound
	}
	return nil
}
