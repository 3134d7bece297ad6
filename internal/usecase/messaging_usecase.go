package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"careportal/config"
	"careportal/internal/converter"
	"careportal/internal/delivery/dto"
	"careportal/internal/domain/entity"
	"careportal/internal/domain/repository"
	"careportal/pkg/apperror"
	"careportal/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrConversationNotFound = apperror.NotFound("conversation not found")
	ErrSenderNotFound       = apperror.NotFound("sender not found")
	ErrParticipantNotFound  = apperror.NotFound("participant not found")
	ErrNotParticipant       = apperror.Unauthorized("user is not a conversation participant")
	ErrEmptyMessage         = apperror.Validation("message content is empty")
	ErrMessageTooLong       = apperror.Validation("message content exceeds the maximum length")
	ErrInvalidPriority      = apperror.Validation("invalid message priority")
	ErrSameParticipant      = apperror.Validation("a conversation needs two distinct participants")
)

const (
	defaultMessagePageSize  = 50
	defaultRecentMessageCap = 10
)

// EventPublisher receives change notifications emitted by the usecases.
type EventPublisher interface {
	Publish(eventType string, payload map[string]interface{})
}

type MessagingUsecase interface {
	GetOrCreateConversation(ctx context.Context, userA, userB int64) (*dto.ConversationResponse, error)
	GetConversationBetweenUsers(ctx context.Context, userA, userB int64) (*dto.ConversationResponse, error)
	GetConversationsForUser(ctx context.Context, userID int64) ([]dto.ConversationSummary, error)
	SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	GetMessagesForConversation(ctx context.Context, conversationID string, limit, offset int) ([]dto.MessageResponse, error)
	MarkMessagesAsRead(ctx context.Context, req *dto.MarkReadRequest) (int, error)
	GetUnreadMessageCount(ctx context.Context, userID int64) (int, error)
	GetRecentMessages(ctx context.Context, userID int64, limit int) ([]dto.MessageResponse, error)
	SearchMessages(ctx context.Context, userID int64, query, conversationID string) ([]dto.MessageResponse, error)
	DeleteConversation(ctx context.Context, userID int64, conversationID string) error
	GetConversationStats(ctx context.Context, conversationID string) (*dto.ConversationStatsResponse, error)
	ExportConversationForTraining(ctx context.Context, conversationID string) (*dto.TrainingExport, error)
}

type messagingUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	validate         *validator.CustomValidator
	messagingConfig  config.MessagingConfig
	userRepo         repository.UserRepository
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
	settingsRepo     repository.SettingsRepository
	publisher        EventPublisher
}

func NewMessagingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.CustomValidator,
	messagingConfig config.MessagingConfig,
	userRepo repository.UserRepository,
	conversationRepo repository.ConversationRepository,
	messageRepo repository.MessageRepository,
	settingsRepo repository.SettingsRepository,
	publisher EventPublisher,
) MessagingUsecase {
	return &messagingUsecase{
		db:               db,
		log:              log,
		validate:         validate,
		messagingConfig:  messagingConfig,
		userRepo:         userRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		settingsRepo:     settingsRepo,
		publisher:        publisher,
	}
}

func (u *messagingUsecase) GetOrCreateConversation(ctx context.Context, userA, userB int64) (*dto.ConversationResponse, error) {
	if userA == userB {
		return nil, ErrSameParticipant
	}

	lowID, highID := entity.PairKey(userA, userB)
	existing, err := u.conversationRepo.FindByPair(u.db.WithContext(ctx), lowID, highID)
	if err != nil {
		u.log.Warnf("Failed to find conversation by pair: %+v", err)
		return nil, err
	}
	if existing != nil {
		return converter.ConversationToResponse(existing), nil
	}

	first, err := u.userRepo.FindByID(u.db.WithContext(ctx), userA)
	if err != nil {
		u.log.Warnf("Failed to find user by id: %+v", err)
		return nil, err
	}
	second, err := u.userRepo.FindByID(u.db.WithContext(ctx), userB)
	if err != nil {
		u.log.Warnf("Failed to find user by id: %+v", err)
		return nil, err
	}
	if first == nil || second == nil {
		return nil, ErrParticipantNotFound
	}

	now := time.Now()
	conversation := &entity.Conversation{
		ID:                "conv_" + uuid.New().String(),
		ParticipantLowID:  lowID,
		ParticipantHighID: highID,
		ParticipantIDs:    entity.Int64Slice{userA, userB},
		ParticipantEmails: entity.StringSlice{first.Email, second.Email},
		ParticipantNames:  entity.StringSlice{first.Name, second.Name},
		CreatedAt:         now,
		LastMessageAt:     now,
		UnreadCount:       entity.CountMap{userA: 0, userB: 0},
	}

	if err := u.conversationRepo.Create(u.db.WithContext(ctx), conversation); err != nil {
		// A concurrent caller may have created the pair first; the unique
		// index turns the race into a lookup.
		if isDuplicateKeyError(err) {
			existing, findErr := u.conversationRepo.FindByPair(u.db.WithContext(ctx), lowID, highID)
			if findErr != nil {
				return nil, findErr
			}
			if existing != nil {
				return converter.ConversationToResponse(existing), nil
			}
		}
		u.log.Warnf("Failed to create conversation: %+v", err)
		return nil, err
	}

	return converter.ConversationToResponse(conversation), nil
}

func (u *messagingUsecase) GetConversationBetweenUsers(ctx context.Context, userA, userB int64) (*dto.ConversationResponse, error) {
	lowID, highID := entity.PairKey(userA, userB)
	conversation, err := u.conversationRepo.FindByPair(u.db.WithContext(ctx), lowID, highID)
	if err != nil {
		u.log.Warnf("Failed to find conversation by pair: %+v", err)
		return nil, err
	}
	return converter.ConversationToResponse(conversation), nil
}

func (u *messagingUsecase) GetConversationsForUser(ctx context.Context, userID int64) ([]dto.ConversationSummary, error) {
	conversations, err := u.conversationRepo.FindByParticipant(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to list conversations: %+v", err)
		return nil, err
	}

	summaries := make([]dto.ConversationSummary, 0, len(conversations))
	for i := range conversations {
		conversation := &conversations[i]

		summary := dto.ConversationSummary{
			ConversationResponse: *converter.ConversationToResponse(conversation),
			Unread:               conversation.UnreadCount[userID],
		}

		for _, otherID := range conversation.OtherParticipantIDs(userID) {
			other, err := u.userRepo.FindByID(u.db.WithContext(ctx), otherID)
			if err != nil {
				u.log.Warnf("Failed to find participant: %+v", err)
				return nil, err
			}
			if other != nil {
				summary.OtherParticipants = append(summary.OtherParticipants, *converter.UserToParticipantInfo(other))
				continue
			}
			// The account was deleted; fall back to the creation snapshot.
			info := dto.ParticipantInfo{ID: otherID}
			for idx, id := range conversation.ParticipantIDs {
				if id == otherID {
					if idx < len(conversation.ParticipantEmails) {
						info.Email = conversation.ParticipantEmails[idx]
					}
					if idx < len(conversation.ParticipantNames) {
						info.Name = conversation.ParticipantNames[idx]
					}
				}
			}
			summary.OtherParticipants = append(summary.OtherParticipants, info)
		}

		latest, err := u.messageRepo.FindLatestByConversation(u.db.WithContext(ctx), conversation.ID)
		if err != nil {
			u.log.Warnf("Failed to find latest message: %+v", err)
			return nil, err
		}
		summary.LastMessage = converter.MessageToResponse(latest)

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (u *messagingUsecase) maxMessageLength(ctx context.Context) int {
	settings, err := u.settingsRepo.Get(u.db.WithContext(ctx))
	if err == nil && settings != nil && settings.MaxMessageLength > 0 {
		return settings.MaxMessageLength
	}
	if err != nil {
		u.log.Warnf("Failed to load settings: %+v", err)
	}
	if u.messagingConfig.MaxMessageLength > 0 {
		return u.messagingConfig.MaxMessageLength
	}
	return 2000
}

func (u *messagingUsecase) SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if err := u.validate.Validate(req); err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, "invalid send request", err)
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > u.maxMessageLength(ctx) {
		return nil, ErrMessageTooLong
	}

	conversation, err := u.conversationRepo.FindByID(u.db.WithContext(ctx), req.ConversationID)
	if err != nil {
		u.log.Warnf("Failed to find conversation: %+v", err)
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}
	if !conversation.HasParticipant(req.SenderID) {
		return nil, ErrNotParticipant
	}

	sender, err := u.userRepo.FindByID(u.db.WithContext(ctx), req.SenderID)
	if err != nil {
		u.log.Warnf("Failed to find sender: %+v", err)
		return nil, err
	}
	if sender == nil {
		return nil, ErrSenderNotFound
	}

	metadata := entity.JSON{}
	for key, value := range req.Metadata {
		metadata[key] = value
	}
	if _, ok := metadata[entity.MetadataKeyContext]; !ok {
		metadata[entity.MetadataKeyContext] = entity.DefaultMessageContext
	}
	if _, ok := metadata[entity.MetadataKeyPriority]; !ok {
		metadata[entity.MetadataKeyPriority] = entity.PriorityNormal
	}
	if _, ok := metadata[entity.MetadataKeyTags]; !ok {
		metadata[entity.MetadataKeyTags] = []string{}
	}
	switch metadata[entity.MetadataKeyPriority] {
	case entity.PriorityNormal, entity.PriorityHigh, entity.PriorityUrgent:
	default:
		return nil, ErrInvalidPriority
	}

	messageType := req.MessageType
	if messageType == "" {
		messageType = entity.MessageTypeText
	}

	message := &entity.Message{
		ID:             "msg_" + uuid.New().String(),
		ConversationID: conversation.ID,
		SenderID:       sender.ID,
		SenderEmail:    sender.Email,
		SenderName:     sender.Name,
		SenderType:     sender.UserType,
		Content:        content,
		Timestamp:      time.Now(),
		ReadBy:         entity.Int64Set{sender.ID},
		MessageType:    messageType,
		Metadata:       metadata,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.messageRepo.Create(tx, message); err != nil {
		u.log.Warnf("Failed to create message: %+v", err)
		return nil, err
	}

	conversation.LastMessageAt = message.Timestamp
	if conversation.UnreadCount == nil {
		conversation.UnreadCount = entity.CountMap{}
	}
	for _, otherID := range conversation.OtherParticipantIDs(sender.ID) {
		conversation.UnreadCount[otherID]++
	}

	if err := u.conversationRepo.Update(tx, conversation); err != nil {
		u.log.Warnf("Failed to update conversation: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	response := converter.MessageToResponse(message)

	if u.publisher != nil {
		u.publisher.Publish("new_message", map[string]interface{}{
			"conversationId": conversation.ID,
			"messageId":      message.ID,
			"senderId":       sender.ID,
			"message":        response,
			"unreadCount":    map[int64]int(conversation.UnreadCount),
		})
	}

	return response, nil
}

func (u *messagingUsecase) GetMessagesForConversation(ctx context.Context, conversationID string, limit, offset int) ([]dto.MessageResponse, error) {
	if limit <= 0 {
		limit = defaultMessagePageSize
	}
	if offset < 0 {
		offset = 0
	}

	conversation, err := u.conversationRepo.FindByID(u.db.WithContext(ctx), conversationID)
	if err != nil {
		u.log.Warnf("Failed to find conversation: %+v", err)
		return nil, err
	}
	if conversation == nil {
		// A deleted or unknown conversation reads as empty.
		return []dto.MessageResponse{}, nil
	}

	messages, err := u.messageRepo.FindByConversation(u.db.WithContext(ctx), conversationID, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to load messages: %+v", err)
		return nil, err
	}

	return converter.MessagesToResponses(messages), nil
}

func (u *messagingUsecase) MarkMessagesAsRead(ctx context.Context, req *dto.MarkReadRequest) (int, error) {
	if err := u.validate.Validate(req); err != nil {
		return 0, apperror.Wrap(apperror.KindValidation, "invalid mark-read request", err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	conversation, err := u.conversationRepo.FindByID(tx, req.ConversationID)
	if err != nil {
		u.log.Warnf("Failed to find conversation: %+v", err)
		return 0, err
	}
	if conversation == nil {
		return 0, ErrConversationNotFound
	}

	messages, err := u.messageRepo.FindAllByConversation(tx, req.ConversationID)
	if err != nil {
		u.log.Warnf("Failed to load messages: %+v", err)
		return 0, err
	}

	var wanted map[string]bool
	if len(req.MessageIDs) > 0 {
		wanted = make(map[string]bool, len(req.MessageIDs))
		for _, id := range req.MessageIDs {
			wanted[id] = true
		}
	}

	updated := 0
	for i := range messages {
		message := &messages[i]
		if wanted != nil && !wanted[message.ID] {
			continue
		}
		if message.ReadBy.Contains(req.UserID) {
			continue
		}
		message.ReadBy = message.ReadBy.Add(req.UserID)
		if err := u.messageRepo.Update(tx, message); err != nil {
			u.log.Warnf("Failed to update read receipt: %+v", err)
			return 0, err
		}
		updated++
	}

	// The counter resets outright rather than decrementing per message,
	// and only for actual participants so stray ids never gain an entry.
	if conversation.HasParticipant(req.UserID) {
		if conversation.UnreadCount == nil {
			conversation.UnreadCount = entity.CountMap{}
		}
		conversation.UnreadCount[req.UserID] = 0
		if err := u.conversationRepo.Update(tx, conversation); err != nil {
			u.log.Warnf("Failed to reset unread count: %+v", err)
			return 0, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return 0, err
	}

	return updated, nil
}

func (u *messagingUsecase) GetUnreadMessageCount(ctx context.Context, userID int64) (int, error) {
	conversations, err := u.conversationRepo.FindByParticipant(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to list conversations: %+v", err)
		return 0, err
	}

	total := 0
	for i := range conversations {
		total += conversations[i].UnreadCount[userID]
	}
	return total, nil
}

func (u *messagingUsecase) GetRecentMessages(ctx context.Context, userID int64, limit int) ([]dto.MessageResponse, error) {
	if limit <= 0 {
		limit = defaultRecentMessageCap
	}

	conversationIDs, err := u.conversationIDsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(conversationIDs) == 0 {
		return []dto.MessageResponse{}, nil
	}

	messages, err := u.messageRepo.FindRecentFromOthers(u.db.WithContext(ctx), conversationIDs, userID, limit)
	if err != nil {
		u.log.Warnf("Failed to load recent messages: %+v", err)
		return nil, err
	}

	return converter.MessagesToResponses(messages), nil
}

// SearchMessages scans the user's conversations, or just conversationID when
// given, for a case-insensitive substring of the content, sender name or tags.
func (u *messagingUsecase) SearchMessages(ctx context.Context, userID int64, query, conversationID string) ([]dto.MessageResponse, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []dto.MessageResponse{}, nil
	}

	var conversationIDs []string
	if conversationID != "" {
		conversation, err := u.conversationRepo.FindByID(u.db.WithContext(ctx), conversationID)
		if err != nil {
			u.log.Warnf("Failed to find conversation: %+v", err)
			return nil, err
		}
		if conversation == nil {
			return nil, ErrConversationNotFound
		}
		if !conversation.HasParticipant(userID) {
			return nil, ErrNotParticipant
		}
		conversationIDs = []string{conversationID}
	} else {
		var err error
		conversationIDs, err = u.conversationIDsForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
	}
	if len(conversationIDs) == 0 {
		return []dto.MessageResponse{}, nil
	}

	messages, err := u.messageRepo.FindByConversationIDs(u.db.WithContext(ctx), conversationIDs)
	if err != nil {
		u.log.Warnf("Failed to load messages for search: %+v", err)
		return nil, err
	}

	matches := make([]dto.MessageResponse, 0)
	for i := range messages {
		message := &messages[i]
		if messageMatches(message, needle) {
			matches = append(matches, *converter.MessageToResponse(message))
		}
	}
	return matches, nil
}

func messageMatches(message *entity.Message, needle string) bool {
	if strings.Contains(strings.ToLower(message.Content), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(message.SenderName), needle) {
		return true
	}
	for _, tag := range message.Tags() {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func (u *messagingUsecase) conversationIDsForUser(ctx context.Context, userID int64) ([]string, error) {
	conversations, err := u.conversationRepo.FindByParticipant(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to list conversations: %+v", err)
		return nil, err
	}

	ids := make([]string, 0, len(conversations))
	for i := range conversations {
		ids = append(ids, conversations[i].ID)
	}
	return ids, nil
}

func (u *messagingUsecase) DeleteConversation(ctx context.Context, userID int64, conversationID string) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	conversation, err := u.conversationRepo.FindByID(tx, conversationID)
	if err != nil {
		u.log.Warnf("Failed to find conversation: %+v", err)
		return err
	}
	if conversation == nil {
		return ErrConversationNotFound
	}
	if !conversation.HasParticipant(userID) {
		return ErrNotParticipant
	}

	if _, err := u.messageRepo.DeleteByConversation(tx, conversationID); err != nil {
		u.log.Warnf("Failed to delete messages: %+v", err)
		return err
	}
	if _, err := u.conversationRepo.Delete(tx, conversationID); err != nil {
		u.log.Warnf("Failed to delete conversation: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *messagingUsecase) GetConversationStats(ctx context.Context, conversationID string) (*dto.ConversationStatsResponse, error) {
	conversation, err := u.conversationRepo.FindByID(u.db.WithContext(ctx), conversationID)
	if err != nil {
		u.log.Warnf("Failed to find conversation: %+v", err)
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	messages, err := u.messageRepo.FindAllByConversation(u.db.WithContext(ctx), conversationID)
	if err != nil {
		u.log.Warnf("Failed to load messages: %+v", err)
		return nil, err
	}

	stats := &dto.ConversationStatsResponse{
		ConversationID:   conversation.ID,
		TotalMessages:    len(messages),
		MessagesByType:   map[string]int{},
		MessagesBySender: map[int64]int{},
		CreatedAt:        conversation.CreatedAt,
		LastMessageAt:    conversation.LastMessageAt,
		Participants:     append([]string(nil), conversation.ParticipantNames...),
	}
	for i := range messages {
		stats.MessagesByType[messages[i].MessageType]++
		stats.MessagesBySender[messages[i].SenderID]++
	}

	return stats, nil
}

func (u *messagingUsecase) ExportConversationForTraining(ctx context.Context, conversationID string) (*dto.TrainingExport, error) {
	conversation, err := u.conversationRepo.FindByID(u.db.WithContext(ctx), conversationID)
	if err != nil {
		u.log.Warnf("Failed to find conversation: %+v", err)
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	messages, err := u.messageRepo.FindAllByConversation(u.db.WithContext(ctx), conversationID)
	if err != nil {
		u.log.Warnf("Failed to load messages: %+v", err)
		return nil, err
	}

	participantTypes := make([]string, 0, len(conversation.ParticipantIDs))
	for _, id := range conversation.ParticipantIDs {
		user, err := u.userRepo.FindByID(u.db.WithContext(ctx), id)
		if err != nil {
			u.log.Warnf("Failed to find participant: %+v", err)
			return nil, err
		}
		if user != nil {
			participantTypes = append(participantTypes, user.UserType)
		} else {
			participantTypes = append(participantTypes, "unknown")
		}
	}

	stats, err := u.GetConversationStats(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	export := &dto.TrainingExport{
		Conversation: dto.TrainingConversation{
			ID:               conversation.ID,
			Participants:     append([]string(nil), conversation.ParticipantNames...),
			ParticipantTypes: participantTypes,
			DurationMS:       conversation.LastMessageAt.Sub(conversation.CreatedAt).Milliseconds(),
			CreatedAt:        conversation.CreatedAt,
			LastMessageAt:    conversation.LastMessageAt,
		},
		Messages:   make([]dto.TrainingMessage, 0, len(messages)),
		Statistics: *stats,
		ExportedAt: time.Now(),
	}
	for i := range messages {
		export.Messages = append(export.Messages, *converter.MessageToTraining(&messages[i]))
	}

	return export, nil
}

var _ fmt.Stringer = (*entity.Conversation)(nil)
