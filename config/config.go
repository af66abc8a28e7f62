package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

const (
	connectRetries    = 3
	connectRetryDelay = 2 * time.Second
)

// Connect loads the environment and opens the process-wide database handle.
// The connection is retried a fixed number of times before the process is
// allowed to fail.
func Connect() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	dsn := os.Getenv("DB_DSN")

	var err error
	for attempt := 1; attempt <= connectRetries; attempt++ {
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			log.Println("Database connected successfully")
			return nil
		}
		log.Printf("Database connection failed (attempt %d/%d): %v", attempt, connectRetries, err)
		if attempt < connectRetries {
			time.Sleep(connectRetryDelay)
		}
	}
	return fmt.Errorf("failed to connect to database after %d attempts: %w", connectRetries, err)
}

// PythonServiceURL is the base URL of the external analytics/ML service.
func PythonServiceURL() string {
	if url := os.Getenv("PYTHON_SERVICE_URL"); url != "" {
		return url
	}
	return "http://localhost:8000"
}

// ATUsername returns the Africa's Talking account username.
func ATUsername() string { return os.Getenv("AT_USERNAME") }

// ATAPIKey returns the Africa's Talking API key.
func ATAPIKey() string { return os.Getenv("AT_API_KEY") }

// ATServiceCode returns the sender id used for outbound SMS.
func ATServiceCode() string {
	if code := os.Getenv("AT_SERVICE_CODE"); code != "" {
		return code
	}
	return "FarmNav"
}
