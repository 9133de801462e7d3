package services

import (
	"context"
	"sort"
	"time"

	"checkin/db"
	"checkin/models"
)

const (
	TimeframeDaily  = "daily"
	TimeframeWeekly = "weekly"
)

type LeaderboardService struct {
	db *db.Manager
}

func NewLeaderboardService(manager *db.Manager) *LeaderboardService {
	return &LeaderboardService{db: manager}
}

// Compute строит таблицу лидеров по чекинам среди принятых друзей
// пользователя и его самого. В таблицу попадают и пользователи без
// чекинов за окно, с нулевым счетчиком.
func (s *LeaderboardService) Compute(ctx context.Context, userID int64, timeframe string) ([]models.LeaderboardEntry, error) {
	windowStart := leaderboardWindowStart(timeframe, time.Now())

	var friendIDs []int64
	err := s.db.Read(ctx).
		Model(&models.Friend{}).
		Where("(user_id = ? OR friend_id = ?) AND status = ?", userID, userID, models.FriendStatusAccepted).
		Select("CASE WHEN user_id = ? THEN friend_id ELSE user_id END", userID).
		Scan(&friendIDs).Error
	if err != nil {
		return nil, err
	}
	memberIDs := append(friendIDs, userID)

	type countRow struct {
		UserID int64
		Cnt    int64
	}
	var counts []countRow
	err = s.db.Read(ctx).
		Model(&models.CheckIn{}).
		Select("user_id, COUNT(id) AS cnt").
		Where("user_id IN ? AND start_time >= ?", memberIDs, windowStart).
		Group("user_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	countByUser := make(map[int64]int64, len(counts))
	for _, c := range counts {
		countByUser[c.UserID] = c.Cnt
	}

	var users []models.User
	err = s.db.Read(ctx).Where("id IN ?", memberIDs).Find(&users).Error
	if err != nil {
		return nil, err
	}

	leaderboard := make([]models.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		leaderboard = append(leaderboard, models.LeaderboardEntry{
			ID:            u.ID,
			Username:      u.Username,
			CheckInCount:  countByUser[u.ID],
			IsCurrentUser: u.ID == userID,
		})
	}

	sort.Slice(leaderboard, func(i, j int) bool {
		if leaderboard[i].CheckInCount != leaderboard[j].CheckInCount {
			return leaderboard[i].CheckInCount > leaderboard[j].CheckInCount
		}
		return leaderboard[i].ID < leaderboard[j].ID
	})

	return leaderboard, nil
}

// leaderboardWindowStart: daily - с местной полуночи, weekly - скользящие
// 7 дней. Неизвестный timeframe считается daily.
func leaderboardWindowStart(timeframe string, now time.Time) time.Time {
	if timeframe == TimeframeWeekly {
		return now.AddDate(0, 0, -7)
	}
	return startOfDay(now)
}
