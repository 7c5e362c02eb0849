package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/apparts-js/apparts-login-server/internal/app"
	"github.com/apparts-js/apparts-login-server/internal/config"
	"github.com/apparts-js/apparts-login-server/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	container, err := app.Run(ctx, cfg, services.Hooks{})
	if err != nil {
		log.Fatalf("app: %v", err)
	}
	defer container.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down")
}
