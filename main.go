package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Scrimzay/breadducks/internal/config"
	"github.com/Scrimzay/breadducks/internal/server"
	"github.com/Scrimzay/breadducks/internal/world"
)

func main() {
	log.Println("=== STARTING BREADDUCKS SERVER ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Config error:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init world
	log.Println("Creating world...")
	gameWorld := world.New(world.Options{
		DefaultLobby:  cfg.DefaultLobby,
		RoundDuration: cfg.RoundDuration,
	})
	log.Printf("World created! Default lobby %q", gameWorld.DefaultLobby())

	// Tick loop owns all game state from here on
	go gameWorld.Run(ctx)

	log.Println("Setting up router...")
	r := server.SetupRouter(gameWorld)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Println("Server shutdown error:", err)
		}
	}()

	log.Printf("Server starting at port %s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Server failed:", err)
	}
	<-gameWorld.Done()
	log.Println("=== BREADDUCKS SERVER STOPPED ===")
}
