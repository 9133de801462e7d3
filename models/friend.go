package models

import "time"

// Статусы заявки в друзья. Заявка направленная: UserID - отправитель,
// FriendID - получатель. Из pending заявка переходит ровно один раз
// в accepted или rejected, оба статуса терминальные.
const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
	FriendStatusRejected = "rejected"
)

// Friend - модель для хранения дружбы между пользователями.
// JSON-поля всех ответов API именуются в camelCase.
type Friend struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index" json:"userId"`
	FriendID  int64     `gorm:"index" json:"friendId"`
	Status    string    `gorm:"size:20;index" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Friend) TableName() string {
	return "friends"
}

// FriendRequestView - заявка с данными обеих сторон для ответов API
type FriendRequestView struct {
	ID       int64   `json:"id"`
	Sender   UserRef `json:"sender"`
	Receiver UserRef `json:"receiver"`
	Status   string  `json:"status"`
}

// UserSearchResult - результат поиска с аннотацией отношения к текущему пользователю
type UserSearchResult struct {
	ID               int64   `json:"id"`
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	FriendshipStatus *string `json:"friendshipStatus"`
	FriendRequestID  *int64  `json:"friendRequestId"`
}
