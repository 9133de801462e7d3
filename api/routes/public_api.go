package routes

import (
	"checkin/api/handlers"
	"checkin/api/middleware"
	"checkin/db"

	"github.com/gin-gonic/gin"
)

// PublicApi регистрирует все маршруты сервиса. Register, login, health
// и контент доступны без токена, остальное - за auth-middleware.
func PublicApi(router *gin.Engine, manager *db.Manager, h *handlers.Handlers) {
	public := router.Group("/api/")
	{
		public.POST("auth/register", h.Auth.Register)
		public.POST("auth/login", h.Auth.Login)
		public.GET("health", h.Health.Get)
		public.GET("shitchat", h.ShitChat.Get)
	}

	authorized := router.Group("/api/", middleware.AuthMiddleware(manager))
	{
		authorized.POST("auth/logout", h.Auth.Logout)

		// Чекины
		authorized.POST("checkins", h.CheckIns.Start)
		authorized.POST("checkins/:id/checkout", h.CheckIns.Checkout)
		authorized.GET("checkins/current", h.CheckIns.Current)
		authorized.GET("checkins/stats", h.CheckIns.Stats)

		// Друзья
		authorized.GET("friends", h.Friends.List)
		authorized.POST("friends/requests", h.Friends.CreateRequest)
		authorized.PUT("friends/requests/:id", h.Friends.Respond)
		authorized.GET("friends/requests", h.Friends.Requests)
		authorized.GET("friends/requests/sent", h.Friends.SentRequests)
		authorized.GET("friends/search", h.Friends.Search)

		authorized.GET("leaderboard", h.Leaderboard.Get)

		authorized.DELETE("admin/users", h.Admin.DeleteUsers)
	}
}
