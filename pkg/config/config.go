package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	GitHub   GitHubConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

type DatabaseConfig struct {
	Path          string
	MigrationsDir string
}

type GitHubConfig struct {
	Token           string
	GraphQLEndpoint string
	APIBaseURL      string
	RequestTimeout  int // seconds
	MaxRetries      int
	MaxPages        int
	RequestsPerHour int
}

type MetricsConfig struct {
	// Collaborators are known non-student identities (names or emails)
	// whose commits never count toward team metrics.
	Collaborators     []string
	InstitutionDomain string
	TeamParallelism   int
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
		},
		Database: DatabaseConfig{
			Path:          getEnv("DB_PATH", "./expertiza.db"),
			MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		},
		GitHub: GitHubConfig{
			Token:           getEnv("GITHUB_TOKEN", ""),
			GraphQLEndpoint: getEnv("GITHUB_GRAPHQL_ENDPOINT", "https://api.github.com/graphql"),
			APIBaseURL:      getEnv("GITHUB_API_BASE_URL", ""),
			RequestTimeout:  getEnvAsInt("GITHUB_REQUEST_TIMEOUT", 30),
			MaxRetries:      getEnvAsInt("GITHUB_MAX_RETRIES", 3),
			MaxPages:        getEnvAsInt("GITHUB_MAX_PAGES", 50),
			RequestsPerHour: getEnvAsInt("GITHUB_REQUESTS_PER_HOUR", 4500),
		},
		Metrics: MetricsConfig{
			Collaborators:     getEnvAsSlice("COLLABORATORS", nil),
			InstitutionDomain: getEnv("INSTITUTION_DOMAIN", "ncsu.edu"),
			TeamParallelism:   getEnvAsInt("TEAM_PARALLELISM", 4),
		},
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsSlice gets a comma-separated environment variable as a string slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
