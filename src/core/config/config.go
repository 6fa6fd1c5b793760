package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func SetupEnv() {
	// Load environment variables from the .env file; deployed environments
	// provide them through the process environment instead.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, reading from process environment")
	}
}

// Config returns the environment variable or defaults to empty string
func Config(key string) string {
	return os.Getenv(key)
}
