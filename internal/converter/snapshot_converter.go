package converter

import (
	"careportal/internal/delivery/dto"
	"careportal/internal/domain/entity"
)

// UserToSnapshot converts a User entity to its snapshot shape, password hash
// included
func UserToSnapshot(user *entity.User) *dto.SnapshotUser {
	if user == nil {
		return nil
	}

	return &dto.SnapshotUser{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		UserType:     user.UserType,
		Name:         user.Name,
		CreatedAt:    user.CreatedAt,
		LastLogin:    user.LastLogin,
	}
}

// SnapshotToUser converts a snapshot user back to the entity shape
func SnapshotToUser(snapshot *dto.SnapshotUser) *entity.User {
	if snapshot == nil {
		return nil
	}

	return &entity.User{
		ID:           snapshot.ID,
		Email:        snapshot.Email,
		PasswordHash: snapshot.PasswordHash,
		UserType:     snapshot.UserType,
		Name:         snapshot.Name,
		CreatedAt:    snapshot.CreatedAt,
		LastLogin:    snapshot.LastLogin,
	}
}
