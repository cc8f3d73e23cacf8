// Tokencheck es un diagnóstico de autenticación: decodifica el payload
// de un token sin verificar y luego lo verifica con el secret
// configurado, reportando la causa exacta del rechazo.
// Uso: go run ./cmd/tokencheck <token>
package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"shop-api/internal/cache"
	"shop-api/internal/config"
	"shop-api/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: tokencheck <token>")
	}
	token := strings.TrimSpace(os.Args[1])

	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		log.Fatalf("malformed token: expected 3 segments, got %d", len(segments))
	}

	for i, name := range []string{"header", "payload"} {
		raw, err := base64.RawURLEncoding.DecodeString(segments[i])
		if err != nil {
			log.Fatalf("decode %s: %v", name, err)
		}
		var pretty map[string]any
		if err := json.Unmarshal(raw, &pretty); err != nil {
			log.Fatalf("parse %s: %v", name, err)
		}
		out, _ := json.MarshalIndent(pretty, "", "  ")
		fmt.Printf("%s:\n%s\n", name, out)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ttl, err := cache.ParseTTL(cfg.JWTTTL)
	if err != nil {
		log.Fatalf("config: jwt ttl: %v", err)
	}

	tokens := service.NewTokenService(cfg.JWTSecret, ttl)
	claims, err := tokens.Verify(token)
	switch {
	case errors.Is(err, service.ErrTokenExpired):
		fmt.Println("verdict: EXPIRED (signature may still be valid)")
	case err != nil:
		fmt.Println("verdict: INVALID (bad signature or structure)")
	default:
		fmt.Printf("verdict: VALID for subject %s <%s> roles=%v\n", claims.UserID, claims.Email, claims.Roles)
	}
}
