package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"checkin/config"
	"checkin/db"
	"checkin/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	shitChatAPITimeout    = 10 * time.Second
	shitChatUsageKey      = "shitchat:api_usage:" // + YYYY-MM-DD
	shitChatFallbackText  = "Why did the toilet paper roll down the hill? To get to the bottom!"
	shitChatSystemPrompt  = "You are a fun and engaging AI that provides interesting facts and jokes about bathroom activities. Keep it light-hearted and appropriate."
	shitChatRequestPrompt = "Give me a fun fact or joke about bathroom activities."
)

// curatedShitChat - встроенный контент на случай пустой таблицы
var curatedShitChat = []models.ShitChatContent{
	{Content: "Did you know? The average person spends about 3 years of their life on the toilet!", Type: "fact", Source: "curated"},
	{Content: "Why did the toilet paper roll down the hill? To get to the bottom!", Type: "joke", Source: "curated"},
	{Content: "The first flush toilet was invented in 1596 by Sir John Harington.", Type: "fact", Source: "curated"},
	{Content: "What did the toilet say to the plunger? 'You're really pushing my buttons!'", Type: "joke", Source: "curated"},
	{Content: "The world's most expensive toilet is made of solid gold and costs over $1 million!", Type: "fact", Source: "curated"},
}

// ShitChatService выбирает контент для отображения. Порядок источников:
// внешний API (в пределах дневного лимита) -> наименее недавно
// использованная запись из БД -> встроенный список -> фиксированная строка.
// Get никогда не возвращает ошибку.
type ShitChatService struct {
	db         *db.Manager
	redis      *redis.Client // может быть nil, тогда лимит считается по БД
	httpClient *http.Client
	conf       config.ShitChatConfig
}

func NewShitChatService(manager *db.Manager, redisClient *redis.Client, conf config.ShitChatConfig) *ShitChatService {
	return &ShitChatService{
		db:         manager,
		redis:      redisClient,
		httpClient: &http.Client{Timeout: shitChatAPITimeout},
		conf:       conf,
	}
}

func (s *ShitChatService) Get(ctx context.Context) models.ShitChatContent {
	if s.conf.ApiKey != "" && s.underDailyLimit(ctx) {
		content, err := s.fetchFromAPI(ctx)
		if err == nil {
			s.incrementUsage(ctx)
			return content
		}
		log.Printf("shitchat: API fetch failed, falling back to database: %v", err)
	}

	content, err := s.pickCurated(ctx)
	if err == nil {
		return content
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("shitchat: database pick failed: %v", err)
	}

	if len(curatedShitChat) > 0 {
		return curatedShitChat[rand.Intn(len(curatedShitChat))]
	}
	return models.ShitChatContent{Content: shitChatFallbackText, Type: "joke", Source: "fallback"}
}

// pickCurated берет запись, которую дольше всего не показывали,
// и помечает ее использованной
func (s *ShitChatService) pickCurated(ctx context.Context) (models.ShitChatContent, error) {
	var item models.ShitChat
	err := s.db.Read(ctx).
		Where("is_curated = ?", true).
		Order("last_used_at IS NOT NULL, last_used_at ASC").
		First(&item).Error
	if err != nil {
		return models.ShitChatContent{}, err
	}

	now := time.Now()
	err = s.db.Write(ctx).Model(&models.ShitChat{}).
		Where("id = ?", item.ID).
		Update("last_used_at", now).Error
	if err != nil {
		log.Printf("shitchat: failed to stamp last_used_at for item %d: %v", item.ID, err)
	}

	return models.ShitChatContent{Content: item.Content, Type: item.Type, Source: "database"}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Messages    []chatMessage `json:"messages"`
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (s *ShitChatService) fetchFromAPI(ctx context.Context) (models.ShitChatContent, error) {
	payload, err := json.Marshal(chatCompletionRequest{
		Messages: []chatMessage{
			{Role: "system", Content: shitChatSystemPrompt},
			{Role: "user", Content: shitChatRequestPrompt},
		},
		Model:       s.conf.Model,
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		return models.ShitChatContent{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.conf.ApiURL, bytes.NewReader(payload))
	if err != nil {
		return models.ShitChatContent{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.conf.ApiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.ShitChatContent{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ShitChatContent{}, fmt.Errorf("content API returned status %d", resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return models.ShitChatContent{}, err
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return models.ShitChatContent{}, errors.New("content API returned no choices")
	}

	return models.ShitChatContent{
		Content: completion.Choices[0].Message.Content,
		Type:    "text",
		Source:  "api",
	}, nil
}

func (s *ShitChatService) underDailyLimit(ctx context.Context) bool {
	if s.conf.DailyLimit <= 0 {
		return false
	}
	return s.usageToday(ctx) < int64(s.conf.DailyLimit)
}

func (s *ShitChatService) usageToday(ctx context.Context) int64 {
	today := startOfDay(time.Now())

	if s.redis != nil {
		count, err := s.redis.Get(ctx, shitChatUsageKey+today.Format("2006-01-02")).Int64()
		if err == nil {
			return count
		}
		if err != redis.Nil {
			log.Printf("shitchat: redis usage read failed: %v", err)
		}
		// При недоступном Redis считаем по БД
	}

	var usage models.ApiUsage
	err := s.db.Read(ctx).Where("date = ?", today).First(&usage).Error
	if err != nil {
		return 0
	}
	return usage.Count
}

func (s *ShitChatService) incrementUsage(ctx context.Context) {
	today := startOfDay(time.Now())

	if s.redis != nil {
		key := shitChatUsageKey + today.Format("2006-01-02")
		if err := s.redis.Incr(ctx, key).Err(); err == nil {
			s.redis.ExpireAt(ctx, key, today.AddDate(0, 0, 1))
			return
		}
	}

	var usage models.ApiUsage
	err := s.db.Write(ctx).Where("date = ?", today).First(&usage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.db.Write(ctx).Create(&models.ApiUsage{Date: today, Count: 1})
		return
	}
	if err != nil {
		log.Printf("shitchat: usage increment failed: %v", err)
		return
	}
	s.db.Write(ctx).Model(&models.ApiUsage{}).Where("id = ?", usage.ID).Update("count", usage.Count+1)
}

// SeedCuratedContent заполняет таблицу встроенным контентом, если она пуста
func (s *ShitChatService) SeedCuratedContent(ctx context.Context) error {
	var count int64
	if err := s.db.Read(ctx).Model(&models.ShitChat{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, item := range curatedShitChat {
		row := models.ShitChat{
			Content:   item.Content,
			Type:      item.Type,
			Source:    "curated",
			IsCurated: true,
		}
		if err := s.db.Write(ctx).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
