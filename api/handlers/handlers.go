package handlers

import (
	"checkin/config"
	"checkin/db"
	"checkin/services"

	"github.com/go-redis/redis/v8"
)

// Handlers собирает все обработчики с их сервисами. Конструируется один раз
// в main и передается в регистрацию маршрутов.
type Handlers struct {
	Auth        *AuthHandler
	CheckIns    *CheckInHandler
	Friends     *FriendHandler
	Leaderboard *LeaderboardHandler
	ShitChat    *ShitChatHandler
	Health      *HealthHandler
	Admin       *AdminHandler
}

func New(manager *db.Manager, redisClient *redis.Client, shitChatConf config.ShitChatConfig) *Handlers {
	checkInService := services.NewCheckInService(manager)
	userService := services.NewUserService(manager, checkInService)
	friendService := services.NewFriendService(manager)
	leaderboardService := services.NewLeaderboardService(manager)
	shitChatService := services.NewShitChatService(manager, redisClient, shitChatConf)

	return &Handlers{
		Auth:        NewAuthHandler(userService),
		CheckIns:    NewCheckInHandler(checkInService),
		Friends:     NewFriendHandler(friendService),
		Leaderboard: NewLeaderboardHandler(leaderboardService),
		ShitChat:    NewShitChatHandler(shitChatService),
		Health:      NewHealthHandler(manager),
		Admin:       NewAdminHandler(userService),
	}
}

// ShitChatService отдает сервис контента (нужен для сидинга при старте)
func (h *Handlers) ShitChatService() *services.ShitChatService {
	return h.ShitChat.shitChat
}
