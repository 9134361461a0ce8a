// Command migrate applies the embedded SQL migrations by hand.
//
//	migrate up | down | steps <n> | version
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"gestoreventos/internal/config"
	"gestoreventos/internal/infra"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	dsn := flag.String("dsn", "", "Postgres DSN (default: DATABASE_URL)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	if *dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
		*dsn = cfg.DatabaseURL
	}

	sqlDB, err := sql.Open("postgres", *dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open postgres")
	}
	defer sqlDB.Close()
	if err := sqlDB.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to wrap connection")
	}

	mg, err := infra.NewMigrator(db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build migrator")
	}

	switch args[0] {
	case "up":
		err = mg.Up()
	case "down":
		err = mg.Down()
	case "steps":
		if len(args) < 2 {
			log.Fatal().Msg("usage: migrate steps <n>")
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil || n == 0 {
			log.Fatal().Str("n", args[1]).Msg("steps must be a non-zero integer")
		}
		err = mg.Steps(n)
	case "version":
		v, dirty, verr := mg.Version()
		if verr != nil {
			log.Fatal().Err(verr).Msg("failed to read version")
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)
		return
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", args[0]).Msg("migration failed")
	}
	log.Info().Str("command", args[0]).Msg("migration finished")
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: migrate [-dsn DSN] <command>

commands:
  up          apply every pending migration
  down        revert every migration
  steps <n>   apply (n>0) or revert (n<0) n migrations
  version     print the current schema version`)
}
