package models

// LeaderboardEntry - строка таблицы лидеров. Сортировка: по количеству
// чекинов по убыванию, при равенстве - по id пользователя по возрастанию.
type LeaderboardEntry struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	CheckInCount  int64  `json:"checkInCount"`
	IsCurrentUser bool   `json:"isCurrentUser"`
}
