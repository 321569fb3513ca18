package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/linemk/maizy-store/internal/config"
	"github.com/linemk/maizy-store/internal/domain/models"
	security "github.com/linemk/maizy-store/internal/jwt-new"
)

// Выпускает токен тем же секретом, что проверяет сервер. Нужен для ручной
// проверки API и для администраторов, пока сервис авторизации недоступен.
func main() {
	var (
		userID int64
		role   string
		ttl    time.Duration
	)
	flag.Int64Var(&userID, "user-id", 0, "user id (sub claim)")
	flag.StringVar(&role, "role", models.RoleCustomer, "customer or admin")
	flag.DurationVar(&ttl, "ttl", time.Hour, "token lifetime")

	// config.MustLoad сам вызывает flag.Parse
	cfg := config.MustLoad()

	if userID <= 0 {
		log.Fatal("user-id is required")
	}
	if role != models.RoleCustomer && role != models.RoleAdmin {
		log.Fatalf("unknown role %q", role)
	}

	token, err := security.NewToken(&models.User{ID: userID, Role: role}, cfg.JWT.Secret, ttl)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}
	fmt.Println(token)
}
