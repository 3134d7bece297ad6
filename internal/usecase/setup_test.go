package usecase

import (
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"careportal/config"
	"careportal/internal/domain/entity"
	"careportal/internal/domain/repository"
	"careportal/internal/infrastructure/database"
	repoimpl "careportal/internal/repository"
	"careportal/pkg/jwt"
	"careportal/pkg/validator"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// eventRecorder captures published events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	Type    string
	Payload map[string]interface{}
}

func (r *eventRecorder) Publish(eventType string, payload map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Type: eventType, Payload: payload})
}

func (r *eventRecorder) byType(eventType string) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []recordedEvent
	for _, event := range r.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

type testEnv struct {
	db     *gorm.DB
	log    *logrus.Logger
	events *eventRecorder

	userRepo         repository.UserRepository
	loginHistoryRepo repository.LoginHistoryRepository
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
	medicationRepo   repository.MedicationRepository
	progressRepo     repository.DailyProgressRepository
	settingsRepo     repository.SettingsRepository

	jwtService *jwt.Service

	auth       AuthUsecase
	messaging  MessagingUsecase
	medication MedicationUsecase
	progress   ProgressUsecase
	snapshot   SnapshotUsecase

	member *entity.User
	doctor *entity.User
}

// newTestEnv opens a seeded throwaway sqlite store and wires the usecases
// against it. Redis and the login limiter stay unset; tests that exercise
// them construct their own variants.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	storagePath := filepath.Join(t.TempDir(), "portal.db")
	db, err := database.Open(config.StorageConfig{Driver: "sqlite", Path: storagePath}, 2000, log)
	require.NoError(t, err)

	env := &testEnv{
		db:     db,
		log:    log,
		events: &eventRecorder{},

		userRepo:         repoimpl.NewUserRepository(),
		loginHistoryRepo: repoimpl.NewLoginHistoryRepository(),
		conversationRepo: repoimpl.NewConversationRepository(),
		messageRepo:      repoimpl.NewMessageRepository(),
		medicationRepo:   repoimpl.NewMedicationRepository(),
		progressRepo:     repoimpl.NewDailyProgressRepository(),
		settingsRepo:     repoimpl.NewSettingsRepository(),

		jwtService: jwt.NewService(config.JWTConfig{Secret: "test-secret", SessionExpiry: time.Hour}),
	}

	customValidator := validator.NewValidator()
	messagingConfig := config.MessagingConfig{MaxMessageLength: 2000, BroadcastRetention: 10}

	env.auth = NewAuthUsecase(db, log, customValidator, env.userRepo, env.loginHistoryRepo, env.jwtService, nil, nil)
	env.messaging = NewMessagingUsecase(db, log, customValidator, messagingConfig, env.userRepo, env.conversationRepo, env.messageRepo, env.settingsRepo, env.events)
	env.medication = NewMedicationUsecase(db, log, customValidator, env.userRepo, env.medicationRepo)
	env.progress = NewProgressUsecase(db, log, customValidator, env.userRepo, env.progressRepo)
	env.snapshot = NewSnapshotUsecase(db, log, env.userRepo, env.loginHistoryRepo, env.conversationRepo, env.messageRepo, env.medicationRepo, env.progressRepo, env.settingsRepo)

	env.member, err = env.userRepo.FindByEmail(db, database.SeedMemberEmail)
	require.NoError(t, err)
	require.NotNil(t, env.member)

	env.doctor, err = env.userRepo.FindByEmail(db, database.SeedDoctorEmail)
	require.NoError(t, err)
	require.NotNil(t, env.doctor)

	return env
}
