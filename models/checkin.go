package models

import "time"

// CheckIn - один засеченный интервал пользователя.
// EndTime и Duration заполняются один раз при чекауте, после этого запись
// не меняется. На пользователя допускается максимум один открытый интервал,
// проверка выполняется на уровне приложения перед вставкой.
type CheckIn struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64      `gorm:"index" json:"userId"`
	StartTime time.Time  `gorm:"index" json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Duration  *int64     `json:"duration"` // секунды, floor(end - start)
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (CheckIn) TableName() string {
	return "check_ins"
}

// CheckInStats - ответ API для статистики чекинов
type CheckInStats struct {
	DailyCount      int64     `json:"dailyCount"`
	WeeklyCount     int64     `json:"weeklyCount"`
	AverageDuration float64   `json:"averageDuration"`
	RecentCheckIns  []CheckIn `json:"recentCheckIns"`
}
