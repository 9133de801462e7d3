package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"checkin/db"
	"checkin/models"

	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserService struct {
	db       *db.Manager
	checkIns *CheckInService
}

func NewUserService(manager *db.Manager, checkIns *CheckInService) *UserService {
	return &UserService{db: manager, checkIns: checkIns}
}

// Register создает пользователя. Уникальность email и username проверяется
// до вставки, пароль хранится как hex(salt)$hex(argon2id).
func (s *UserService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	if email == "" || username == "" || password == "" {
		return nil, errors.New("email, username and password are required")
	}

	var alreadyExists int64
	err := s.db.Read(ctx).Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&alreadyExists).Error
	if err != nil {
		return nil, err
	}
	if alreadyExists > 0 {
		return nil, ErrUserExists
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Username: username,
		Password: passwordHash,
	}
	if err := s.db.Write(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Login проверяет пароль по email или username, сбрасывает старые токены,
// принудительно закрывает открытый чекин и выдает новый токен.
// Закрытие чекина - часть контракта логина: новая сессия начинается без
// висящего интервала.
func (s *UserService) Login(ctx context.Context, login, password string) (string, *models.User, error) {
	var user models.User
	err := s.db.Read(ctx).
		Where("email = ? OR username = ?", login, login).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !verifyPassword(user.Password, password) {
		return "", nil, ErrInvalidCredentials
	}

	// Старые сессии пользователя завершаются
	err = s.db.Write(ctx).Where("user_id = ?", user.ID).Delete(&models.UserTokens{}).Error
	if err != nil {
		return "", nil, err
	}

	if err := s.checkIns.CloseOpen(ctx, user.ID); err != nil {
		return "", nil, err
	}

	tokenBytes := make([]byte, 32)
	if _, err = rand.Read(tokenBytes); err != nil {
		return "", nil, err
	}
	token := hex.EncodeToString(tokenBytes)

	err = s.db.Write(ctx).Create(&models.UserTokens{
		UserID: user.ID,
		Token:  token,
	}).Error
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// Logout удаляет предъявленный токен
func (s *UserService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("token is empty")
	}
	return s.db.Write(ctx).Where("token = ?", token).Delete(&models.UserTokens{}).Error
}

// GetUser возвращает пользователя по id
func (s *UserService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := s.db.Read(ctx).First(&user, userID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUsers удаляет пользователей по никнеймам вместе с заявками,
// чекинами и токенами. Административная операция.
func (s *UserService) DeleteUsers(ctx context.Context, usernames []string) (int64, error) {
	var users []models.User
	err := s.db.Read(ctx).Where("username IN ?", usernames).Find(&users).Error
	if err != nil {
		return 0, err
	}
	if len(users) == 0 {
		return 0, nil
	}

	userIDs := make([]int64, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}

	var deleted int64
	err = s.db.Write(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id IN ? OR friend_id IN ?", userIDs, userIDs).Delete(&models.Friend{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id IN ?", userIDs).Delete(&models.CheckIn{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id IN ?", userIDs).Delete(&models.UserTokens{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", userIDs).Delete(&models.User{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

func verifyPassword(stored, password string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(hash) == parts[1]
}
