// Command devtoken signs a bearer token for local testing. Production tokens
// are issued by the identity service with the same secret and claims.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gestoreventos/internal/config"
	"gestoreventos/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func main() {
	rol := flag.String("rol", middleware.RolAdministrador, "administrador | finanzas | coordinador | recepcion")
	nombre := flag.String("nombre", "Dev", "display name")
	userID := flag.String("user", uuid.NewString(), "user UUID")
	ttl := flag.Duration("ttl", 8*time.Hour, "token lifetime")
	flag.Parse()

	switch *rol {
	case middleware.RolAdministrador, middleware.RolFinanzas, middleware.RolCoordinador, middleware.RolRecepcion:
	default:
		fmt.Fprintf(os.Stderr, "unknown rol %q\n", *rol)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	now := time.Now()
	claims := middleware.JWTClaims{
		UserID: *userID,
		Nombre: *nombre,
		Rol:    *rol,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   *userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}
	fmt.Println(signed)
}
