package usecase

import (
	"context"
	"encoding/json"

	"careportal/internal/converter"
	"careportal/internal/delivery/dto"
	"careportal/internal/domain/entity"
	"careportal/internal/domain/repository"
	"careportal/pkg/apperror"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidSnapshot = apperror.Validation("invalid snapshot payload")

// SnapshotUsecase exports the whole store as one JSON document and restores
// it. Import is wipe-and-replace: nothing of the current contents survives.
type SnapshotUsecase interface {
	ExportData(ctx context.Context) ([]byte, error)
	ImportData(ctx context.Context, data []byte) error
	GetStats(ctx context.Context) (*dto.StatsResponse, error)
}

type snapshotUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	userRepo         repository.UserRepository
	loginHistoryRepo repository.LoginHistoryRepository
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
	medicationRepo   repository.MedicationRepository
	progressRepo     repository.DailyProgressRepository
	settingsRepo     repository.SettingsRepository
}

func NewSnapshotUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	loginHistoryRepo repository.LoginHistoryRepository,
	conversationRepo repository.ConversationRepository,
	messageRepo repository.MessageRepository,
	medicationRepo repository.MedicationRepository,
	progressRepo repository.DailyProgressRepository,
	settingsRepo repository.SettingsRepository,
) SnapshotUsecase {
	return &snapshotUsecase{
		db:               db,
		log:              log,
		userRepo:         userRepo,
		loginHistoryRepo: loginHistoryRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		medicationRepo:   medicationRepo,
		progressRepo:     progressRepo,
		settingsRepo:     settingsRepo,
	}
}

func (u *snapshotUsecase) ExportData(ctx context.Context) ([]byte, error) {
	db := u.db.WithContext(ctx)

	users, err := u.userRepo.FindAll(db)
	if err != nil {
		u.log.Warnf("Failed to load users: %+v", err)
		return nil, err
	}
	history, err := u.loginHistoryRepo.FindAll(db)
	if err != nil {
		u.log.Warnf("Failed to load login history: %+v", err)
		return nil, err
	}
	conversations, err := u.conversationRepo.FindAll(db)
	if err != nil {
		u.log.Warnf("Failed to load conversations: %+v", err)
		return nil, err
	}
	messages, err := u.messageRepo.FindAll(db)
	if err != nil {
		u.log.Warnf("Failed to load messages: %+v", err)
		return nil, err
	}
	medications, err := u.medicationRepo.FindAll(db)
	if err != nil {
		u.log.Warnf("Failed to load medications: %+v", err)
		return nil, err
	}
	progress, err := u.progressRepo.FindAll(db)
	if err != nil {
		u.log.Warnf("Failed to load progress entries: %+v", err)
		return nil, err
	}
	settings, err := u.settingsRepo.Get(db)
	if err != nil {
		u.log.Warnf("Failed to load settings: %+v", err)
		return nil, err
	}

	snapshot := dto.RootSnapshot{
		Users:         make([]dto.SnapshotUser, 0, len(users)),
		LoginHistory:  history,
		Conversations: conversations,
		Messages:      messages,
		Medications:   medications,
		DailyProgress: progress,
		Settings:      settings,
	}
	for i := range users {
		snapshot.Users = append(snapshot.Users, *converter.UserToSnapshot(&users[i]))
	}

	return json.MarshalIndent(snapshot, "", "  ")
}

func (u *snapshotUsecase) ImportData(ctx context.Context, data []byte) error {
	var snapshot dto.RootSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return ErrInvalidSnapshot
	}
	if snapshot.Users == nil {
		return ErrInvalidSnapshot
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{
		&entity.Message{},
		&entity.Conversation{},
		&entity.Medication{},
		&entity.DailyProgress{},
		&entity.LoginHistoryEntry{},
		&entity.User{},
		&entity.Settings{},
	} {
		if err := wipe.Delete(model).Error; err != nil {
			u.log.Warnf("Failed to clear table: %+v", err)
			return err
		}
	}

	for i := range snapshot.Users {
		if err := u.userRepo.Create(tx, converter.SnapshotToUser(&snapshot.Users[i])); err != nil {
			u.log.Warnf("Failed to import user: %+v", err)
			return err
		}
	}
	for i := range snapshot.LoginHistory {
		if err := u.loginHistoryRepo.Create(tx, &snapshot.LoginHistory[i]); err != nil {
			u.log.Warnf("Failed to import login history entry: %+v", err)
			return err
		}
	}
	for i := range snapshot.Conversations {
		conversation := &snapshot.Conversations[i]
		// The normalized pair columns are not part of the JSON shape.
		if conversation.ParticipantLowID == 0 && conversation.ParticipantHighID == 0 && len(conversation.ParticipantIDs) == 2 {
			conversation.ParticipantLowID, conversation.ParticipantHighID = entity.PairKey(conversation.ParticipantIDs[0], conversation.ParticipantIDs[1])
		}
		if err := u.conversationRepo.Create(tx, conversation); err != nil {
			u.log.Warnf("Failed to import conversation: %+v", err)
			return err
		}
	}
	for i := range snapshot.Messages {
		if err := u.messageRepo.Create(tx, &snapshot.Messages[i]); err != nil {
			u.log.Warnf("Failed to import message: %+v", err)
			return err
		}
	}
	for i := range snapshot.Medications {
		if err := u.medicationRepo.Create(tx, &snapshot.Medications[i]); err != nil {
			u.log.Warnf("Failed to import medication: %+v", err)
			return err
		}
	}
	for i := range snapshot.DailyProgress {
		if err := u.progressRepo.Create(tx, &snapshot.DailyProgress[i]); err != nil {
			u.log.Warnf("Failed to import progress entry: %+v", err)
			return err
		}
	}

	settings := snapshot.Settings
	if settings == nil {
		settings = entity.DefaultSettings(0)
	}
	settings.ID = 1
	if err := u.settingsRepo.Save(tx, settings); err != nil {
		u.log.Warnf("Failed to import settings: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *snapshotUsecase) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	db := u.db.WithContext(ctx)

	stats := &dto.StatsResponse{}
	var err error

	if stats.TotalUsers, err = u.userRepo.Count(db); err != nil {
		return nil, err
	}
	if stats.MemberUsers, err = u.userRepo.CountByType(db, entity.UserTypeMember); err != nil {
		return nil, err
	}
	if stats.DoctorUsers, err = u.userRepo.CountByType(db, entity.UserTypeDoctor); err != nil {
		return nil, err
	}
	if stats.TotalLogins, err = u.loginHistoryRepo.Count(db); err != nil {
		return nil, err
	}
	if stats.SuccessfulLogins, err = u.loginHistoryRepo.CountBySuccess(db, true); err != nil {
		return nil, err
	}
	if stats.FailedLogins, err = u.loginHistoryRepo.CountBySuccess(db, false); err != nil {
		return nil, err
	}
	if stats.TotalConversations, err = u.conversationRepo.Count(db); err != nil {
		return nil, err
	}
	if stats.TotalMessages, err = u.messageRepo.Count(db); err != nil {
		return nil, err
	}
	if stats.TotalMedications, err = u.medicationRepo.Count(db); err != nil {
		return nil, err
	}
	if stats.ProgressEntries, err = u.progressRepo.Count(db); err != nil {
		return nil, err
	}

	return stats, nil
}
