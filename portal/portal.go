// Package portal assembles the careportal store: a local-first data layer
// for a member/doctor messaging portal with login auditing, prescriptions,
// daily goal tracking and snapshot export. Everything is accessed through an
// explicitly constructed Portal value; there is no package-level state.
package portal

import (
	"context"
	"fmt"
	"os"

	"careportal/config"
	"careportal/internal/delivery/dto"
	"careportal/internal/infrastructure/cache"
	"careportal/internal/infrastructure/database"
	"careportal/internal/repository"
	"careportal/internal/service"
	"careportal/internal/usecase"
	"careportal/pkg/jwt"
	"careportal/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Portal holds all wired dependencies and exposes the store operations.
type Portal struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client

	log          *logrus.Logger
	broadcaster  *service.Broadcaster
	poller       *service.Poller
	loginLimiter *service.LoginLimiter

	authUsecase       usecase.AuthUsecase
	messagingUsecase  usecase.MessagingUsecase
	medicationUsecase usecase.MedicationUsecase
	progressUsecase   usecase.ProgressUsecase
	snapshotUsecase   usecase.SnapshotUsecase
}

// New opens the store described by cfg and wires every layer. On success the
// portal has already emitted a ready event and is usable immediately;
// background polling starts only on StartPolling.
func New(cfg *config.Config) (*Portal, error) {
	log := newLogger(cfg.App.LogLevel)

	db, err := database.Open(cfg.Storage, cfg.Messaging.MaxMessageLength, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	log.Info("Storage opened successfully")

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("Redis connected successfully")
	}

	jwtService := jwt.NewService(cfg.JWT)
	customValidator := validator.NewValidator()

	userRepo := repository.NewUserRepository()
	loginHistoryRepo := repository.NewLoginHistoryRepository()
	conversationRepo := repository.NewConversationRepository()
	messageRepo := repository.NewMessageRepository()
	medicationRepo := repository.NewMedicationRepository()
	progressRepo := repository.NewDailyProgressRepository()
	settingsRepo := repository.NewSettingsRepository()

	broadcaster := service.NewBroadcaster(log, redisClient, cfg.Messaging.BroadcastRetention)
	poller := service.NewPoller(db, log, messageRepo, conversationRepo, broadcaster, cfg.Sync.PollInterval)

	maxAttempts := 5
	if settings, err := settingsRepo.Get(db); err == nil && settings != nil && settings.MaxLoginAttempts > 0 {
		maxAttempts = settings.MaxLoginAttempts
	}
	loginLimiter := service.NewLoginLimiter(maxAttempts)

	p := &Portal{
		Config:       cfg,
		DB:           db,
		RedisClient:  redisClient,
		log:          log,
		broadcaster:  broadcaster,
		poller:       poller,
		loginLimiter: loginLimiter,

		authUsecase: usecase.NewAuthUsecase(
			db, log, customValidator, userRepo, loginHistoryRepo, jwtService, redisClient, loginLimiter,
		),
		messagingUsecase: usecase.NewMessagingUsecase(
			db, log, customValidator, cfg.Messaging, userRepo, conversationRepo, messageRepo, settingsRepo, broadcaster,
		),
		medicationUsecase: usecase.NewMedicationUsecase(
			db, log, customValidator, userRepo, medicationRepo,
		),
		progressUsecase: usecase.NewProgressUsecase(
			db, log, customValidator, userRepo, progressRepo,
		),
		snapshotUsecase: usecase.NewSnapshotUsecase(
			db, log, userRepo, loginHistoryRepo, conversationRepo, messageRepo, medicationRepo, progressRepo, settingsRepo,
		),
	}

	broadcaster.Publish(service.EventReady, nil)

	return p, nil
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

// StartPolling launches the periodic store sampling loop.
func (p *Portal) StartPolling() {
	p.poller.Start()
}

// StopPolling halts the sampling loop.
func (p *Portal) StopPolling() {
	p.poller.Stop()
}

// Subscribe registers a change-notification listener.
func (p *Portal) Subscribe() (int64, <-chan service.Event) {
	return p.broadcaster.Subscribe()
}

// Unsubscribe removes a listener and closes its channel.
func (p *Portal) Unsubscribe(id int64) {
	p.broadcaster.Unsubscribe(id)
}

// RequestOpenConversation asks listeners (including other collaborators when
// Redis is wired) to bring the given conversation into view.
func (p *Portal) RequestOpenConversation(conversationID string, userID int64) {
	p.broadcaster.Publish(service.EventOpenConversation, map[string]interface{}{
		"conversationId": conversationID,
		"userId":         userID,
	})
}

// Close stops background work and releases connections.
func (p *Portal) Close() {
	p.poller.Stop()
	p.broadcaster.Stop()
	p.loginLimiter.Stop()

	if p.DB != nil {
		if sqlDB, err := p.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if p.RedisClient != nil {
		p.RedisClient.Close()
	}
}

// Accounts and sessions.

func (p *Portal) Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.UserResponse, error) {
	return p.authUsecase.Register(ctx, req)
}

func (p *Portal) Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error) {
	return p.authUsecase.Login(ctx, req)
}

func (p *Portal) Logout(ctx context.Context, token string) error {
	return p.authUsecase.Logout(ctx, token)
}

func (p *Portal) ValidateSession(ctx context.Context, token string) (*dto.UserResponse, error) {
	return p.authUsecase.ValidateSession(ctx, token)
}

func (p *Portal) GetUserByEmail(ctx context.Context, email string) (*dto.UserResponse, error) {
	return p.authUsecase.GetUserByEmail(ctx, email)
}

func (p *Portal) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	return p.authUsecase.ListUsers(ctx)
}

func (p *Portal) UpdateUser(ctx context.Context, email string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	return p.authUsecase.UpdateUser(ctx, email, req)
}

func (p *Portal) DeleteUser(ctx context.Context, email string) error {
	return p.authUsecase.DeleteUser(ctx, email)
}

func (p *Portal) GetLoginHistory(ctx context.Context, email string) ([]dto.LoginHistoryResponse, error) {
	return p.authUsecase.GetLoginHistory(ctx, email)
}

// Messaging.

func (p *Portal) GetOrCreateConversation(ctx context.Context, userA, userB int64) (*dto.ConversationResponse, error) {
	return p.messagingUsecase.GetOrCreateConversation(ctx, userA, userB)
}

func (p *Portal) GetConversationBetweenUsers(ctx context.Context, userA, userB int64) (*dto.ConversationResponse, error) {
	return p.messagingUsecase.GetConversationBetweenUsers(ctx, userA, userB)
}

func (p *Portal) GetConversationsForUser(ctx context.Context, userID int64) ([]dto.ConversationSummary, error) {
	return p.messagingUsecase.GetConversationsForUser(ctx, userID)
}

func (p *Portal) SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	return p.messagingUsecase.SendMessage(ctx, req)
}

func (p *Portal) GetMessagesForConversation(ctx context.Context, conversationID string, limit, offset int) ([]dto.MessageResponse, error) {
	return p.messagingUsecase.GetMessagesForConversation(ctx, conversationID, limit, offset)
}

func (p *Portal) MarkMessagesAsRead(ctx context.Context, req *dto.MarkReadRequest) (int, error) {
	return p.messagingUsecase.MarkMessagesAsRead(ctx, req)
}

func (p *Portal) GetUnreadMessageCount(ctx context.Context, userID int64) (int, error) {
	return p.messagingUsecase.GetUnreadMessageCount(ctx, userID)
}

func (p *Portal) GetRecentMessages(ctx context.Context, userID int64, limit int) ([]dto.MessageResponse, error) {
	return p.messagingUsecase.GetRecentMessages(ctx, userID, limit)
}

func (p *Portal) SearchMessages(ctx context.Context, userID int64, query, conversationID string) ([]dto.MessageResponse, error) {
	return p.messagingUsecase.SearchMessages(ctx, userID, query, conversationID)
}

func (p *Portal) DeleteConversation(ctx context.Context, userID int64, conversationID string) error {
	return p.messagingUsecase.DeleteConversation(ctx, userID, conversationID)
}

func (p *Portal) GetConversationStats(ctx context.Context, conversationID string) (*dto.ConversationStatsResponse, error) {
	return p.messagingUsecase.GetConversationStats(ctx, conversationID)
}

func (p *Portal) ExportConversationForTraining(ctx context.Context, conversationID string) (*dto.TrainingExport, error) {
	return p.messagingUsecase.ExportConversationForTraining(ctx, conversationID)
}

// Prescriptions.

func (p *Portal) PrescribeMedication(ctx context.Context, doctorID int64, req *dto.PrescribeMedicationRequest) (*dto.MedicationResponse, error) {
	return p.medicationUsecase.Prescribe(ctx, doctorID, req)
}

func (p *Portal) GetMedicationsForPatient(ctx context.Context, patientID int64) ([]dto.MedicationResponse, error) {
	return p.medicationUsecase.ListForPatient(ctx, patientID)
}

func (p *Portal) DiscontinueMedication(ctx context.Context, doctorID, medicationID int64) (*dto.MedicationResponse, error) {
	return p.medicationUsecase.Discontinue(ctx, doctorID, medicationID)
}

// Daily goals.

func (p *Portal) SaveDailyProgress(ctx context.Context, req *dto.SaveDailyProgressRequest) (*dto.DailyProgressResponse, error) {
	return p.progressUsecase.SaveDailyProgress(ctx, req)
}

func (p *Portal) GetDailyProgress(ctx context.Context, userID int64, date string) (*dto.DailyProgressResponse, error) {
	return p.progressUsecase.GetDailyProgress(ctx, userID, date)
}

func (p *Portal) ListDailyProgress(ctx context.Context, userID int64, from, to string) ([]dto.DailyProgressResponse, error) {
	return p.progressUsecase.ListDailyProgress(ctx, userID, from, to)
}

// Snapshots and stats.

func (p *Portal) ExportData(ctx context.Context) ([]byte, error) {
	return p.snapshotUsecase.ExportData(ctx)
}

func (p *Portal) ImportData(ctx context.Context, data []byte) error {
	return p.snapshotUsecase.ImportData(ctx, data)
}

func (p *Portal) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	return p.snapshotUsecase.GetStats(ctx)
}
