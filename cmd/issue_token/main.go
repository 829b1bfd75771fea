package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yungbote/aet-studio-backend/internal/app"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
	"github.com/yungbote/aet-studio-backend/internal/services"
)

// issue_token mints a bearer token for local development against JWT_SECRET_KEY.
func main() {
	var teacher string
	var ttl time.Duration
	flag.StringVar(&teacher, "teacher", "", "teacher id to put in the token subject")
	flag.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if strings.TrimSpace(teacher) == "" {
		fmt.Println("-teacher is required")
		os.Exit(2)
	}

	log, err := logger.New("development")
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := app.LoadConfig(log)
	tok, err := services.NewAuthService(log, cfg.JWTSecretKey).IssueToken(teacher, ttl)
	if err != nil {
		fmt.Printf("issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
