// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/jason-s-yu/hearts/internal/auth"
	"github.com/jason-s-yu/hearts/internal/cache"
	"github.com/jason-s-yu/hearts/internal/database"
	"github.com/jason-s-yu/hearts/internal/handlers"
	"github.com/jason-s-yu/hearts/internal/middleware"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	auth.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// Postgres and Redis are optional. Without them the server still runs;
	// accounts answer 503 and action history is skipped.
	if err := database.ConnectDB(); err != nil {
		logger.Warnf("Postgres unavailable, running without persistence: %v", err)
	}
	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("Redis unavailable, running without action history: %v", err)
	}

	mux := http.NewServeMux()

	// user endpoints
	mux.HandleFunc("/user/create", handlers.CreateUserHandler)
	mux.HandleFunc("/user/login", handlers.LoginHandler)

	srv := handlers.NewGameServer()

	// room endpoints
	mux.Handle("/room/create", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.CreateRoomHandler(srv),
	)))
	mux.Handle("/room/join", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.JoinRoomHandler(srv),
	)))

	// game websocket
	mux.Handle("/ws/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GameWSHandler(logger, srv),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
