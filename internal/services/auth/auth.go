// Package auth содержит логику регистрации, входа и обновления настроек
// учётной записи. Первый зарегистрированный пользователь становится
// администратором — это единственный путь первоначального назначения прав.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/lib/jwt"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/lib/password"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Repository описывает контракт для работы с пользователями в базе данных.
type Repository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	// Признак администратора вычисляется внутри INSERT.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername возвращает пользователя по имени.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// UpdatePINHash обновляет хэш PIN-кода пользователя.
	UpdatePINHash(ctx context.Context, userUID, pinHash string) error
}

// Service отвечает за регистрацию, авторизацию и настройки учётной записи.
type Service struct {
	repo      Repository
	jwtMaker  jwt.Maker
	log       *slog.Logger
	trialDays int
}

// New создает новый экземпляр Service.
func New(repo Repository, jwtMaker jwt.Maker, log *slog.Logger, trialDays int) *Service {
	return &Service{
		repo:      repo,
		jwtMaker:  jwtMaker,
		log:       log,
		trialDays: trialDays,
	}
}

// Register создает нового пользователя: пароль и PIN хэшируются, пробный
// период выставляется один раз при создании. Поля is_admin, coins и даты
// пробного периода из клиентского запроса не принимаются в принципе —
// их нет в схеме запроса.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (token, userUID string, err error) {
	passwordHash, err := password.GetHash(req.Password)
	if err != nil {
		return "", "", err
	}
	pinHash, err := password.GetHash(req.PIN)
	if err != nil {
		return "", "", err
	}

	now := time.Now().UTC()
	trialEndsAt := now.AddDate(0, 0, s.trialDays)
	user := models.User{
		Username:       req.Username,
		Email:          req.Email,
		PasswordHash:   passwordHash,
		PINHash:        pinHash,
		TrialStartedAt: &now,
		TrialEndsAt:    &trialEndsAt,
	}

	userUID, err = s.repo.CreateUser(ctx, user)
	if err != nil {
		return "", "", err
	}

	token, err = s.jwtMaker.GenerateToken(req.Username, userUID)
	if err != nil {
		return "", "", err
	}

	s.log.Info("user registered", slog.String("user_uid", userUID))
	return token, userUID, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (string, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.jwtMaker.GenerateToken(user.Username, user.UID)
}

// UpdateSettings применяет разрешённый набор полей настроек.
// Сейчас это только PIN: любые другие поля клиентского запроса
// игнорируются схемой и сюда не попадают.
func (s *Service) UpdateSettings(ctx context.Context, userUID string, req models.SettingsUpdateRequest) error {
	pinHash, err := password.GetHash(req.PIN)
	if err != nil {
		return err
	}
	return s.repo.UpdatePINHash(ctx, userUID, pinHash)
}
