// Command devtoken prints a signed identity token for local development when the server runs
// with IDENTITY_PROVIDER=jwt.
//
//	go run ./cmd/devtoken -sub guardian-1 -email parent@example.com
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"youthevents/internal/adapters/auth"
	"youthevents/internal/domain"
)

func main() {
	_ = godotenv.Load()

	sub := flag.String("sub", "", "external identity subject (required)")
	emailAddr := flag.String("email", "", "email claim")
	name := flag.String("name", "", "display name claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	secret := flag.String("secret", os.Getenv("JWT_SECRET"), "HS256 signing secret (defaults to JWT_SECRET)")
	flag.Parse()

	if *sub == "" || *secret == "" {
		flag.Usage()
		os.Exit(2)
	}

	token, err := auth.NewJWTIssuer(*secret, *ttl).Issue(domain.Identity{
		ExternalID:  *sub,
		Email:       *emailAddr,
		DisplayName: *name,
	})
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(token)
}
