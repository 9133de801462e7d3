package services

import (
	"context"
	"errors"
	"strings"

	"checkin/db"
	"checkin/models"

	"gorm.io/gorm"
)

var (
	ErrSelfFriend      = errors.New("cannot add yourself as friend")
	ErrRelationExists  = errors.New("friend request already exists or users are already friends")
	ErrRequestNotFound = errors.New("friend request not found")
	ErrUserNotFound    = errors.New("user not found")
)

type FriendService struct {
	db *db.Manager
}

func NewFriendService(manager *db.Manager) *FriendService {
	return &FriendService{db: manager}
}

// SendRequest создает заявку в друзья. Между парой пользователей допускается
// не больше одной записи независимо от направления и статуса, проверка
// выполняется перед вставкой.
func (s *FriendService) SendRequest(ctx context.Context, userID, friendID int64) (*models.FriendRequestView, error) {
	if userID == friendID {
		return nil, ErrSelfFriend
	}

	var target models.User
	err := s.db.Read(ctx).First(&target, friendID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var existing models.Friend
	err = s.db.Read(ctx).Where(
		"(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
		userID, friendID, friendID, userID,
	).First(&existing).Error
	if err == nil {
		return nil, ErrRelationExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sender, err := s.userRef(ctx, userID)
	if err != nil {
		return nil, err
	}

	request := models.Friend{
		UserID:   userID,
		FriendID: friendID,
		Status:   models.FriendStatusPending,
	}
	if err := s.db.Write(ctx).Create(&request).Error; err != nil {
		return nil, err
	}

	return &models.FriendRequestView{
		ID:       request.ID,
		Sender:   sender,
		Receiver: models.UserRef{ID: target.ID, Username: target.Username, Email: target.Email},
		Status:   request.Status,
	}, nil
}

// Respond переводит pending-заявку в accepted или rejected. Ответить может
// только получатель: заявка, отправленная самим responderID, для него
// неотличима от несуществующей. Повторный ответ также дает not found -
// оба статуса терминальные.
func (s *FriendService) Respond(ctx context.Context, requestID, responderID int64, status string) (*models.Friend, error) {
	if status != models.FriendStatusAccepted && status != models.FriendStatusRejected {
		return nil, errors.New("invalid status")
	}

	var request models.Friend
	err := s.db.Read(ctx).Where(
		"id = ? AND friend_id = ? AND status = ?",
		requestID, responderID, models.FriendStatusPending,
	).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	request.Status = status
	if err := s.db.Write(ctx).Save(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// ListFriends возвращает друзей по принятым заявкам, направление записи
// не имеет значения
func (s *FriendService) ListFriends(ctx context.Context, userID int64) ([]models.UserRef, error) {
	var friends []models.UserRef
	err := s.db.Read(ctx).
		Table("users u").
		Joins("JOIN friends f ON (f.user_id = u.id AND f.friend_id = ?) OR (f.friend_id = u.id AND f.user_id = ?)", userID, userID).
		Where("f.status = ? AND u.id != ?", models.FriendStatusAccepted, userID).
		Select("u.id, u.username").
		Scan(&friends).Error
	if err != nil {
		return nil, err
	}
	return friends, nil
}

// PendingRequests возвращает входящие pending-заявки
func (s *FriendService) PendingRequests(ctx context.Context, userID int64) ([]models.FriendRequestView, error) {
	var requests []models.Friend
	err := s.db.Read(ctx).
		Where("friend_id = ? AND status = ?", userID, models.FriendStatusPending).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return s.requestViews(ctx, requests)
}

// SentRequests возвращает исходящие pending-заявки
func (s *FriendService) SentRequests(ctx context.Context, userID int64) ([]models.FriendRequestView, error) {
	var requests []models.Friend
	err := s.db.Read(ctx).
		Where("user_id = ? AND status = ?", userID, models.FriendStatusPending).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return s.requestViews(ctx, requests)
}

// Search ищет пользователей по подстроке в username или email без учета
// регистра, исключая самого пользователя. Каждый результат аннотируется
// существующим отношением, если оно есть.
func (s *FriendService) Search(ctx context.Context, userID int64, query string) ([]models.UserSearchResult, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var users []models.User
	err := s.db.Read(ctx).
		Where("(LOWER(username) LIKE ? OR LOWER(email) LIKE ?) AND id != ?", pattern, pattern, userID).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	if len(users) == 0 {
		return []models.UserSearchResult{}, nil
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	var relations []models.Friend
	err = s.db.Read(ctx).Where(
		"(user_id = ? AND friend_id IN ?) OR (friend_id = ? AND user_id IN ?)",
		userID, ids, userID, ids,
	).Find(&relations).Error
	if err != nil {
		return nil, err
	}

	relationByUser := make(map[int64]models.Friend, len(relations))
	for _, rel := range relations {
		other := rel.UserID
		if other == userID {
			other = rel.FriendID
		}
		relationByUser[other] = rel
	}

	results := make([]models.UserSearchResult, 0, len(users))
	for _, u := range users {
		result := models.UserSearchResult{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
		}
		if rel, ok := relationByUser[u.ID]; ok {
			status := rel.Status
			requestID := rel.ID
			result.FriendshipStatus = &status
			result.FriendRequestID = &requestID
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *FriendService) userRef(ctx context.Context, userID int64) (models.UserRef, error) {
	var user models.User
	if err := s.db.Read(ctx).First(&user, userID).Error; err != nil {
		return models.UserRef{}, err
	}
	return models.UserRef{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

// requestViews дополняет заявки данными отправителя и получателя
func (s *FriendService) requestViews(ctx context.Context, requests []models.Friend) ([]models.FriendRequestView, error) {
	views := make([]models.FriendRequestView, 0, len(requests))
	if len(requests) == 0 {
		return views, nil
	}

	ids := make([]int64, 0, len(requests)*2)
	for _, r := range requests {
		ids = append(ids, r.UserID, r.FriendID)
	}

	var users []models.User
	if err := s.db.Read(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	refByID := make(map[int64]models.UserRef, len(users))
	for _, u := range users {
		refByID[u.ID] = models.UserRef{ID: u.ID, Username: u.Username, Email: u.Email}
	}

	for _, r := range requests {
		views = append(views, models.FriendRequestView{
			ID:       r.ID,
			Sender:   refByID[r.UserID],
			Receiver: refByID[r.FriendID],
			Status:   r.Status,
		})
	}
	return views, nil
}
