package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"checkin/api/handlers"
	"checkin/api/middleware"
	"checkin/api/routes"
	"checkin/config"
	"checkin/db"
	"checkin/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	if err := config.LoadConfig(configPath); err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log.Println("Starting server...")

	manager, err := db.Connect(config.AppConfig)
	if err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}
	defer manager.Close()

	// Redis опционален: без него дневной лимит контентного API считается по БД
	var redisClient *redis.Client
	redisClient, err = services.NewRedisClient(config.AppConfig.Redis)
	if err != nil {
		log.Printf("Redis unavailable, continuing without it: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	h := handlers.New(manager, redisClient, config.AppConfig.ShitChat)

	if err := h.ShitChatService().SeedCuratedContent(context.Background()); err != nil {
		log.Printf("Failed to seed curated content: %v", err)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.PrometheusMiddleware())

	routes.PublicApi(router, manager, h)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%d", config.AppConfig.Backend.Host, config.AppConfig.Backend.Port)
	if config.AppConfig.Backend.Port == 0 {
		addr = ":8080"
	}
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}
