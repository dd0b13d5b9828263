package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/wfunc/boidserver/config"
	"github.com/wfunc/boidserver/logger"
	"github.com/wfunc/boidserver/server"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load config: %v", err)
	}

	gameServer := server.NewGameServer(cfg)

	// 优雅关闭
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Log.Info("Shutting down...")
		gameServer.Shutdown()
		os.Exit(0)
	}()

	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Server error: %v", err)
	}
}
