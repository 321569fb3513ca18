package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/linemk/maizy-store/internal/config"
	"github.com/linemk/maizy-store/internal/events"
	"github.com/linemk/maizy-store/internal/events/rabbitmq"
)

// App владеет долгоживущими ресурсами процесса: пулом соединений и издателем событий.
// Создаётся один раз при старте и закрывается через Close при остановке.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	DB        *sql.DB
	Publisher events.Publisher
}

// BuildDSN собирает строку подключения к Postgres.
func BuildDSN(db config.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.SSLMode,
	)
}

// NewApp создаёт новый экземпляр App
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := sql.Open("postgres", BuildDSN(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.AMQPURL != "" {
		p, err := rabbitmq.NewPublisher(log, cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to init publisher: %w", err)
		}
		publisher = p
	} else {
		log.Warn("AMQP_URL is not set, order events are disabled")
	}

	app := &App{
		Config:    cfg,
		Logger:    log,
		DB:        db,
		Publisher: publisher,
	}

	return app, nil
}

// Close освобождает ресурсы в порядке, обратном созданию.
func (a *App) Close() error {
	if err := a.Publisher.Close(); err != nil {
		a.Logger.Error("failed to close publisher", slog.Any("error", err))
	}
	return a.DB.Close()
}
