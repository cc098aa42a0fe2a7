package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/qa-forum/internal/config"
	"github.com/iliyamo/qa-forum/internal/database"
	"github.com/iliyamo/qa-forum/internal/handler"
	"github.com/iliyamo/qa-forum/internal/notify"
	"github.com/iliyamo/qa-forum/internal/queue"
	"github.com/iliyamo/qa-forum/internal/repository"
	"github.com/iliyamo/qa-forum/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tags := repository.NewTagRepo(db)
	questions := repository.NewQuestionRepo(db, tags)
	answers := repository.NewAnswerRepo(db)
	notifications := repository.NewNotificationRepo(db)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	questionHandler := handler.NewQuestionHandler(questions, tags)
	answerHandler := handler.NewAnswerHandler(answers, questions, users, notify.NewNotifier(users, notifications))
	notificationHandler := handler.NewNotificationHandler(notifications)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterForum(e, questionHandler, answerHandler, notificationHandler, cfg.JWTSecret)

	// Background consumer that mirrors notification events to a log
	// file. Runs its own reconnect loop; a broker outage never takes
	// the API down.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
