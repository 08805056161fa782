package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// ✅ Redis Config
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ✅ Kafka Config
	KafkaBrokers string
	KafkaTopic   string

	// Campaign stats cache refresh interval (minutes)
	StatsRefreshMinutes int
	StatsCacheTTLMins   int
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	refreshMins, _ := strconv.Atoi(os.Getenv("STATS_REFRESH_MINUTES"))
	if refreshMins <= 0 {
		refreshMins = 10
	}
	cacheTTL, _ := strconv.Atoi(os.Getenv("STATS_CACHE_TTL_MINUTES"))
	if cacheTTL <= 0 {
		cacheTTL = 15
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port: port,

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:   os.Getenv("KAFKA_TOPIC"),

		StatsRefreshMinutes: refreshMins,
		StatsCacheTTLMins:   cacheTTL,
	}
}
