package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"careportal/internal/delivery/dto"
	"careportal/internal/infrastructure/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	conversation, err := env.messaging.GetOrCreateConversation(ctx, env.member.ID, env.doctor.ID)
	require.NoError(t, err)
	sendText(t, env, conversation.ID, env.member.ID, "keep this message")

	_, err = env.medication.Prescribe(ctx, env.doctor.ID, &dto.PrescribeMedicationRequest{
		PatientID: env.member.ID,
		Name:      "Atorvastatin",
	})
	require.NoError(t, err)

	exported, err := env.snapshot.ExportData(ctx)
	require.NoError(t, err)
	assert.True(t, json.Valid(exported))

	// Mutate the store after the export.
	sendText(t, env, conversation.ID, env.doctor.ID, "this one gets rolled back")
	_, err = env.auth.Register(ctx, &dto.RegisterUserRequest{
		Email:    "extra@example.com",
		Password: "supersecret",
		UserType: "member",
		Name:     "Extra",
	})
	require.NoError(t, err)

	require.NoError(t, env.snapshot.ImportData(ctx, exported))

	stats, err := env.snapshot.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalConversations)
	assert.Equal(t, int64(1), stats.TotalMessages)
	assert.Equal(t, int64(1), stats.TotalMedications)

	messages, err := env.messaging.GetMessagesForConversation(ctx, conversation.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "keep this message", messages[0].Content)

	// Password hashes survive the round trip, so logins keep working.
	_, err = env.auth.Login(ctx, &dto.LoginRequest{
		Email:    database.SeedMemberEmail,
		Password: "password123",
		UserType: "member",
	})
	require.NoError(t, err)
}

func TestImportDataRejectsInvalidPayloads(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.snapshot.ImportData(ctx, []byte("not json at all"))
	assert.ErrorIs(t, err, ErrInvalidSnapshot)

	err = env.snapshot.ImportData(ctx, []byte(`{"settings": {}}`))
	assert.ErrorIs(t, err, ErrInvalidSnapshot)

	// A rejected import leaves the store untouched.
	stats, err := env.snapshot.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
}

func TestGetStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	conversation, err := env.messaging.GetOrCreateConversation(ctx, env.member.ID, env.doctor.ID)
	require.NoError(t, err)
	sendText(t, env, conversation.ID, env.member.ID, "hello")
	sendText(t, env, conversation.ID, env.doctor.ID, "hi")

	_, err = env.auth.Login(ctx, &dto.LoginRequest{
		Email:    database.SeedMemberEmail,
		Password: "password123",
		UserType: "member",
	})
	require.NoError(t, err)
	_, err = env.auth.Login(ctx, &dto.LoginRequest{
		Email:    database.SeedMemberEmail,
		Password: "nope-nope",
		UserType: "member",
	})
	require.Error(t, err)

	stats, err := env.snapshot.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.MemberUsers)
	assert.Equal(t, int64(1), stats.DoctorUsers)
	assert.Equal(t, int64(2), stats.TotalLogins)
	assert.Equal(t, int64(1), stats.SuccessfulLogins)
	assert.Equal(t, int64(1), stats.FailedLogins)
	assert.Equal(t, int64(1), stats.TotalConversations)
	assert.Equal(t, int64(2), stats.TotalMessages)
}
