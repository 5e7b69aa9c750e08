package main

import (
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/staffplan/backend/internal/models"
	"github.com/staffplan/backend/internal/router"
)

// This is set at build time, see Makefile.
var version = "0.0.0"

func main() {
	// Load a .env file if one exists. Variables that are already
	// set take precedence over the file
	_ = godotenv.Load()

	// gin defaults to debug mode, the backend only uses it when it is
	// requested explicitly
	if mode, ok := os.LookupEnv("GIN_MODE"); ok {
		gin.SetMode(mode)
	} else {
		gin.SetMode("release")
	}

	// Logs are written as JSON unless LOG_FORMAT=human is set or the
	// backend runs in debug mode
	output := io.Writer(os.Stdout)
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	// The database lives below ./data unless DB_PATH points elsewhere
	dataDir := filepath.Join(".", "data")
	err := os.MkdirAll(dataDir, os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	dbPath, ok := os.LookupEnv("DB_PATH")
	if !ok {
		dbPath = filepath.Join(dataDir, "staffplan.db")
	}
	err = models.Connect(dbPath)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Seed the system roles, permissions and settings
	err = models.InitDefaults(models.DB)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Resources reference themselves with absolute URLs, so the URL
	// the backend is reachable at needs to be known
	apiURL, ok := os.LookupEnv("API_URL")
	if !ok {
		log.Fatal().Msg("the API_URL environment variable must be set")
	}

	url, err := url.Parse(apiURL)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	r, teardown, err := router.Config(url, version)
	defer teardown()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(version, r.Group("/"))

	// With no explicit configuration, gin serves on :8080 and honors
	// the PORT environment variable
	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
