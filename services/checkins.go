package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"checkin/db"
	"checkin/models"

	"gorm.io/gorm"
)

var (
	ErrActiveCheckIn   = errors.New("active check-in already exists")
	ErrCheckInNotFound = errors.New("check-in not found")
	ErrCheckInClosed   = errors.New("check-in already completed")
)

type CheckInService struct {
	db *db.Manager
}

func NewCheckInService(manager *db.Manager) *CheckInService {
	return &CheckInService{db: manager}
}

// Start открывает новый интервал. Пока у пользователя есть открытый чекин,
// второй не создается. Проверка и вставка - два отдельных запроса, под
// конкурентными стартами дубль возможен (как и в исходной системе).
func (s *CheckInService) Start(ctx context.Context, userID int64) (*models.CheckIn, error) {
	var openCount int64
	err := s.db.Read(ctx).Model(&models.CheckIn{}).
		Where("user_id = ? AND end_time IS NULL", userID).
		Count(&openCount).Error
	if err != nil {
		return nil, err
	}
	if openCount > 0 {
		return nil, ErrActiveCheckIn
	}

	checkIn := &models.CheckIn{
		UserID:    userID,
		StartTime: time.Now(),
	}
	if err := s.db.Write(ctx).Create(checkIn).Error; err != nil {
		return nil, err
	}
	return checkIn, nil
}

// Checkout закрывает интервал и фиксирует длительность в целых секундах.
// Чужой чекин для запрашивающего неотличим от несуществующего.
func (s *CheckInService) Checkout(ctx context.Context, checkInID, userID int64) (*models.CheckIn, error) {
	var checkIn models.CheckIn
	err := s.db.Read(ctx).First(&checkIn, checkInID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckInNotFound
		}
		return nil, err
	}

	if checkIn.UserID != userID {
		return nil, ErrCheckInNotFound
	}
	if checkIn.EndTime != nil {
		return nil, ErrCheckInClosed
	}

	now := time.Now()
	duration := int64(now.Sub(checkIn.StartTime).Seconds())
	checkIn.EndTime = &now
	checkIn.Duration = &duration

	if err := s.db.Write(ctx).Save(&checkIn).Error; err != nil {
		return nil, err
	}
	return &checkIn, nil
}

// Current возвращает открытый чекин пользователя или nil
func (s *CheckInService) Current(ctx context.Context, userID int64) (*models.CheckIn, error) {
	var checkIn models.CheckIn
	err := s.db.Read(ctx).
		Where("user_id = ? AND end_time IS NULL", userID).
		First(&checkIn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &checkIn, nil
}

// CloseOpen принудительно закрывает открытый чекин, если он есть.
// Вызывается при логине, не является пользовательской операцией.
func (s *CheckInService) CloseOpen(ctx context.Context, userID int64) error {
	checkIn, err := s.Current(ctx, userID)
	if err != nil {
		return err
	}
	if checkIn == nil {
		return nil
	}

	now := time.Now()
	duration := int64(now.Sub(checkIn.StartTime).Seconds())
	checkIn.EndTime = &now
	checkIn.Duration = &duration
	return s.db.Write(ctx).Save(checkIn).Error
}

// Stats собирает счетчики за день и за скользящую неделю, среднюю
// длительность по закрытым чекинам и пять последних записей.
func (s *CheckInService) Stats(ctx context.Context, userID int64) (*models.CheckInStats, error) {
	now := time.Now()
	// RecentCheckIns сериализуется как [], а не null, даже без записей
	stats := &models.CheckInStats{RecentCheckIns: []models.CheckIn{}}

	err := s.db.Read(ctx).Model(&models.CheckIn{}).
		Where("user_id = ? AND start_time >= ?", userID, startOfDay(now)).
		Count(&stats.DailyCount).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Read(ctx).Model(&models.CheckIn{}).
		Where("user_id = ? AND start_time >= ?", userID, now.AddDate(0, 0, -7)).
		Count(&stats.WeeklyCount).Error
	if err != nil {
		return nil, err
	}

	var avg sql.NullFloat64
	err = s.db.Read(ctx).Model(&models.CheckIn{}).
		Where("user_id = ? AND duration IS NOT NULL", userID).
		Select("AVG(duration)").
		Row().Scan(&avg)
	if err != nil {
		return nil, err
	}
	if avg.Valid {
		stats.AverageDuration = avg.Float64
	}

	err = s.db.Read(ctx).
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Limit(5).
		Find(&stats.RecentCheckIns).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
