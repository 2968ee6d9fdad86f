package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/sepeiunido/plataforma/internal/adapters/handler/http"
	"github.com/sepeiunido/plataforma/internal/adapters/notifier"
	"github.com/sepeiunido/plataforma/internal/adapters/repository/postgres"
	"github.com/sepeiunido/plataforma/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	pollRepo := postgres.NewPollRepository(db)
	ballotRepo := postgres.NewBallotRepository(db)
	memberRepo := postgres.NewMemberRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)

	notify := notifier.NewLogNotifier(slog.Default())

	authSvc := services.NewAuthService(memberRepo, sessionRepo)
	pollSvc := services.NewPollService(pollRepo, ballotRepo, notify)
	voteSvc := services.NewVoteService(pollRepo, ballotRepo)
	memberSvc := services.NewMemberService(memberRepo)

	handler := http.NewHandler(
		authSvc,
		http.NewAuthHandler(authSvc),
		http.NewPollHandler(pollSvc),
		http.NewVoteHandler(voteSvc),
		http.NewMemberHandler(memberSvc),
		allowedOrigins(),
	)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8080"
	}
	server := &stdhttp.Server{Addr: addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

func allowedOrigins() []string {
	raw := os.Getenv("CORS_ALLOWED_ORIGINS")
	if raw == "" {
		return []string{"*"}
	}
	return strings.Split(raw, ",")
}

func dbConnString() string {
	dbName := os.Getenv("POSTGRES_DB")
	user := os.Getenv("POSTGRES_USER")
	password := os.Getenv("POSTGRES_PASSWORD")
	host := os.Getenv("POSTGRES_HOST")
	port := os.Getenv("POSTGRES_PORT")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbName)
}
