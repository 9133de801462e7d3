package models

import "time"

// ShitChat - курируемый контент для отображения (факты и шутки).
// LastUsedAt двигает запись в конец ротации: при выборе из БД берется
// наименее недавно использованная.
type ShitChat struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Content    string     `gorm:"type:text" json:"content"`
	Type       string     `gorm:"size:20" json:"type"` // fact, joke
	Source     string     `gorm:"size:20" json:"source"`
	IsCurated  bool       `json:"isCurated"`
	LastUsedAt *time.Time `gorm:"index" json:"lastUsedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (ShitChat) TableName() string {
	return "shit_chat"
}

// ApiUsage - счетчик обращений к внешнему API по дням.
// Запасной вариант на случай недоступного Redis.
type ApiUsage struct {
	ID    int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Date  time.Time `gorm:"index" json:"date"`
	Count int64     `json:"count"`
}

func (ApiUsage) TableName() string {
	return "api_usage"
}

// ShitChatContent - ответ API: source показывает, откуда пришел контент
// (api, database, curated, fallback)
type ShitChatContent struct {
	Content string `json:"content"`
	Type    string `json:"type"`
	Source  string `json:"source"`
}
