package usecase

import (
	"context"
	"math"
	"time"

	"careportal/internal/converter"
	"careportal/internal/delivery/dto"
	"careportal/internal/domain/entity"
	"careportal/internal/domain/repository"
	"careportal/pkg/apperror"
	"careportal/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ProgressUsecase interface {
	SaveDailyProgress(ctx context.Context, req *dto.SaveDailyProgressRequest) (*dto.DailyProgressResponse, error)
	GetDailyProgress(ctx context.Context, userID int64, date string) (*dto.DailyProgressResponse, error)
	ListDailyProgress(ctx context.Context, userID int64, from, to string) ([]dto.DailyProgressResponse, error)
}

type progressUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	validate     *validator.CustomValidator
	userRepo     repository.UserRepository
	progressRepo repository.DailyProgressRepository
}

func NewProgressUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.CustomValidator,
	userRepo repository.UserRepository,
	progressRepo repository.DailyProgressRepository,
) ProgressUsecase {
	return &progressUsecase{
		db:           db,
		log:          log,
		validate:     validate,
		userRepo:     userRepo,
		progressRepo: progressRepo,
	}
}

func (u *progressUsecase) SaveDailyProgress(ctx context.Context, req *dto.SaveDailyProgressRequest) (*dto.DailyProgressResponse, error) {
	if err := u.validate.Validate(req); err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, "invalid progress request", err)
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, ErrInvalidDateFormat
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), req.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	completed := 0
	for _, done := range req.Completion {
		if done {
			completed++
		}
	}
	total := len(req.Goals) + len(req.LifestyleGoals)
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(completed) / float64(total) * 100))
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	progress, err := u.progressRepo.FindByUserAndDate(tx, req.UserID, req.Date)
	if err != nil {
		u.log.Warnf("Failed to find progress entry: %+v", err)
		return nil, err
	}

	if progress == nil {
		progress = &entity.DailyProgress{
			UserID: req.UserID,
			Date:   req.Date,
		}
	}
	progress.Goals = entity.StringSlice(req.Goals)
	progress.LifestyleGoals = entity.StringSlice(req.LifestyleGoals)
	progress.Completion = entity.BoolMap(req.Completion)
	progress.CompletedCount = completed
	progress.TotalCount = total
	progress.Percentage = percentage
	progress.SavedAt = time.Now()

	if progress.ID == 0 {
		err = u.progressRepo.Create(tx, progress)
	} else {
		err = u.progressRepo.Update(tx, progress)
	}
	if err != nil {
		u.log.Warnf("Failed to save progress entry: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DailyProgressToResponse(progress), nil
}

func (u *progressUsecase) GetDailyProgress(ctx context.Context, userID int64, date string) (*dto.DailyProgressResponse, error) {
	progress, err := u.progressRepo.FindByUserAndDate(u.db.WithContext(ctx), userID, date)
	if err != nil {
		u.log.Warnf("Failed to find progress entry: %+v", err)
		return nil, err
	}
	return converter.DailyProgressToResponse(progress), nil
}

func (u *progressUsecase) ListDailyProgress(ctx context.Context, userID int64, from, to string) ([]dto.DailyProgressResponse, error) {
	entries, err := u.progressRepo.FindByUserRange(u.db.WithContext(ctx), userID, from, to)
	if err != nil {
		u.log.Warnf("Failed to list progress entries: %+v", err)
		return nil, err
	}

	responses := make([]dto.DailyProgressResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *converter.DailyProgressToResponse(&entries[i]))
	}
	return responses, nil
}
