package service

import (
	"sync"
	"sync/atomic"
	"time"

	"careportal/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Poller periodically samples store totals and broadcasts them as
// polling_update events, so listeners notice changes made by other
// collaborators without watching every table themselves.
type Poller struct {
	db               *gorm.DB
	log              *logrus.Logger
	messageRepo      repository.MessageRepository
	conversationRepo repository.ConversationRepository
	broadcaster      *Broadcaster
	interval         time.Duration

	// A tick is skipped when the previous one is still running.
	inFlight atomic.Bool

	stopChan chan struct{}
	wg       sync.WaitGroup
	started  atomic.Bool
	stopped  atomic.Bool
}

func NewPoller(
	db *gorm.DB,
	log *logrus.Logger,
	messageRepo repository.MessageRepository,
	conversationRepo repository.ConversationRepository,
	broadcaster *Broadcaster,
	interval time.Duration,
) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{
		db:               db,
		log:              log,
		messageRepo:      messageRepo,
		conversationRepo: conversationRepo,
		broadcaster:      broadcaster,
		interval:         interval,
		stopChan:         make(chan struct{}),
	}
}

// Start launches the polling loop. Calling Start twice is a no-op.
func (p *Poller) Start() {
	if !p.started.CompareAndSwap(false, true) {
		return
	}

	p.wg.Add(1)
	go p.loop()
	p.log.Infof("Poller started with interval %s", p.interval)
}

// Stop halts the polling loop. Safe to call multiple times.
func (p *Poller) Stop() {
	if !p.started.Load() {
		return
	}
	if p.stopped.CompareAndSwap(false, true) {
		close(p.stopChan)
		p.wg.Wait()
		p.log.Info("Poller stopped")
	}
}

func (p *Poller) loop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

func (p *Poller) tick() {
	if !p.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer p.inFlight.Store(false)

	messageCount, err := p.messageRepo.Count(p.db)
	if err != nil {
		p.log.Warnf("Failed to count messages: %+v", err)
		return
	}
	conversationCount, err := p.conversationRepo.Count(p.db)
	if err != nil {
		p.log.Warnf("Failed to count conversations: %+v", err)
		return
	}

	p.broadcaster.Publish(EventPollingUpdate, map[string]interface{}{
		"messages":      messageCount,
		"conversations": conversationCount,
	})
}
