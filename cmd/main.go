package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"careportal/config"
	"careportal/portal"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	p, err := portal.New(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize portal: %v", err)
	}
	defer p.Close()

	p.StartPolling()

	stats, err := p.GetStats(context.Background())
	if err != nil {
		logrus.Fatalf("Failed to read store stats: %v", err)
	}
	logrus.Infof("Portal ready: %d users, %d conversations, %d messages",
		stats.TotalUsers, stats.TotalConversations, stats.TotalMessages)

	waitForShutdown()
	logrus.Info("Shutting down...")
}

// waitForShutdown blocks until an interrupt signal is received
func waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
