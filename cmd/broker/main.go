package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"kraftbroker/internal/broker"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg := broker.LoadConfig()
	brk := broker.New(cfg, logger)

	go func() {
		if err := brk.Start(); err != nil {
			logger.Error("broker failed to start", "err", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down broker")
	brk.Stop()
	logger.Info("broker stopped")
}
