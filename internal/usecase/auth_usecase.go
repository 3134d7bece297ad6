package usecase

import (
	"context"
	"fmt"
	"time"

	"careportal/internal/converter"
	"careportal/internal/delivery/dto"
	"careportal/internal/domain/entity"
	"careportal/internal/domain/repository"
	"careportal/pkg/apperror"
	"careportal/pkg/jwt"
	"careportal/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists   = apperror.Duplicate("email already registered")
	ErrInvalidCredentials   = apperror.Unauthorized("invalid email or password")
	ErrUserNotFound         = apperror.NotFound("user not found")
	ErrTooManyLoginAttempts = apperror.Unauthorized("too many login attempts")
	ErrInvalidSession       = apperror.Unauthorized("invalid or expired session")
)

// LoginLimiter throttles login attempts per account key.
type LoginLimiter interface {
	Allow(key string) bool
}

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error)
	Logout(ctx context.Context, token string) error
	ValidateSession(ctx context.Context, token string) (*dto.UserResponse, error)
	GetUserByEmail(ctx context.Context, email string) (*dto.UserResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, email string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, email string) error
	GetLoginHistory(ctx context.Context, email string) ([]dto.LoginHistoryResponse, error)
}

type authUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	validate         *validator.CustomValidator
	userRepo         repository.UserRepository
	loginHistoryRepo repository.LoginHistoryRepository
	jwtService       *jwt.Service
	redisClient      *redis.Client
	loginLimiter     LoginLimiter
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.CustomValidator,
	userRepo repository.UserRepository,
	loginHistoryRepo repository.LoginHistoryRepository,
	jwtService *jwt.Service,
	redisClient *redis.Client,
	loginLimiter LoginLimiter,
) AuthUsecase {
	return &authUsecase{
		db:               db,
		log:              log,
		validate:         validate,
		userRepo:         userRepo,
		loginHistoryRepo: loginHistoryRepo,
		jwtService:       jwtService,
		redisClient:      redisClient,
		loginLimiter:     loginLimiter,
	}
}

func sessionKey(userID int64, tokenID string) string {
	return fmt.Sprintf("careportal:session:%d:%s", userID, tokenID)
}

func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.UserResponse, error) {
	if err := u.validate.Validate(req); err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, "invalid register request", err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.userRepo.FindByEmail(tx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		UserType:     req.UserType,
		Name:         req.Name,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error) {
	if err := u.validate.Validate(req); err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, "invalid login request", err)
	}

	if u.loginLimiter != nil && !u.loginLimiter.Allow(req.Email) {
		u.recordLoginAttempt(ctx, req, false)
		return nil, ErrTooManyLoginAttempts
	}

	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil || user.UserType != req.UserType {
		u.recordLoginAttempt(ctx, req, false)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		u.recordLoginAttempt(ctx, req, false)
		return nil, ErrInvalidCredentials
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user.LastLogin = time.Now()
	if err := u.userRepo.Update(tx, user); err != nil {
		u.log.Warnf("Failed to update last login: %+v", err)
		return nil, err
	}

	entry := &entity.LoginHistoryEntry{
		Email:      req.Email,
		UserType:   req.UserType,
		LoginTime:  time.Now(),
		Success:    true,
		ClientAddr: req.ClientAddr,
	}
	if err := u.loginHistoryRepo.Create(tx, entry); err != nil {
		u.log.Warnf("Failed to record login: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	token, tokenID, err := u.jwtService.GenerateSessionToken(user.ID, user.Email, user.UserType)
	if err != nil {
		u.log.Warnf("Failed to generate session token: %+v", err)
		return nil, err
	}

	if u.redisClient != nil {
		key := sessionKey(user.ID, tokenID)
		if err := u.redisClient.Set(ctx, key, "valid", u.jwtService.SessionExpiry()).Err(); err != nil {
			u.log.Warnf("Failed to store session in Redis: %+v", err)
			return nil, err
		}
	}

	return &dto.SessionResponse{
		Token:     token,
		ExpiresIn: int64(u.jwtService.SessionExpiry().Seconds()),
		User:      *converter.UserToResponse(user),
	}, nil
}

// recordLoginAttempt appends a failed attempt outside the login transaction.
// A write failure here is logged but does not mask the login error.
func (u *authUsecase) recordLoginAttempt(ctx context.Context, req *dto.LoginRequest, success bool) {
	entry := &entity.LoginHistoryEntry{
		Email:      req.Email,
		UserType:   req.UserType,
		LoginTime:  time.Now(),
		Success:    success,
		ClientAddr: req.ClientAddr,
	}
	if err := u.loginHistoryRepo.Create(u.db.WithContext(ctx), entry); err != nil {
		u.log.Warnf("Failed to record login attempt: %+v", err)
	}
}

func (u *authUsecase) Logout(ctx context.Context, token string) error {
	claims, err := u.jwtService.ValidateToken(token)
	if err != nil {
		return ErrInvalidSession
	}

	if u.redisClient != nil {
		key := sessionKey(claims.UserID, claims.TokenID)
		if err := u.redisClient.Del(ctx, key).Err(); err != nil {
			u.log.Warnf("Failed to delete session from Redis: %+v", err)
			return err
		}
	}

	return nil
}

func (u *authUsecase) ValidateSession(ctx context.Context, token string) (*dto.UserResponse, error) {
	claims, err := u.jwtService.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	if u.redisClient != nil {
		key := sessionKey(claims.UserID, claims.TokenID)
		exists, err := u.redisClient.Exists(ctx, key).Result()
		if err != nil {
			u.log.Warnf("Failed to check session in Redis: %+v", err)
			return nil, err
		}
		if exists == 0 {
			return nil, ErrInvalidSession
		}
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by id: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidSession
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) GetUserByEmail(ctx context.Context, email string) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := u.userRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list users: %+v", err)
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *converter.UserToResponse(&users[i]))
	}
	return responses, nil
}

func (u *authUsecase) UpdateUser(ctx context.Context, email string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := u.validate.Validate(req); err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, "invalid update request", err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByEmail(tx, email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := u.userRepo.Update(tx, user); err != nil {
		u.log.Warnf("Failed to update user: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) DeleteUser(ctx context.Context, email string) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByEmail(tx, email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if _, err := u.userRepo.Delete(tx, user.ID); err != nil {
		u.log.Warnf("Failed to delete user: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *authUsecase) GetLoginHistory(ctx context.Context, email string) ([]dto.LoginHistoryResponse, error) {
	var (
		entries []entity.LoginHistoryEntry
		err     error
	)
	if email == "" {
		entries, err = u.loginHistoryRepo.FindAll(u.db.WithContext(ctx))
	} else {
		entries, err = u.loginHistoryRepo.FindByEmail(u.db.WithContext(ctx), email)
	}
	if err != nil {
		u.log.Warnf("Failed to load login history: %+v", err)
		return nil, err
	}

	responses := make([]dto.LoginHistoryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *converter.LoginHistoryToResponse(&entries[i]))
	}
	return responses, nil
}
