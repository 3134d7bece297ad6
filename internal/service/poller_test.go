package service

import (
	"path/filepath"
	"testing"
	"time"

	"careportal/config"
	"careportal/internal/infrastructure/database"
	"careportal/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollerPublishesStoreCounts(t *testing.T) {
	log := newTestLogger()

	db, err := database.Open(config.StorageConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "portal.db"),
	}, 2000, log)
	require.NoError(t, err)

	b := NewBroadcaster(log, nil, 10)
	defer b.Stop()

	p := NewPoller(db, log, repository.NewMessageRepository(), repository.NewConversationRepository(), b, 10*time.Millisecond)

	_, ch := b.Subscribe()

	p.Start()
	p.Start() // second Start is a no-op

	event := waitForEvent(t, ch, EventPollingUpdate)
	assert.Equal(t, int64(0), event.Payload["messages"])
	assert.Equal(t, int64(0), event.Payload["conversations"])

	p.Stop()
	p.Stop()
}
