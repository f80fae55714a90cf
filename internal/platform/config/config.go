package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	APIPort     string

	// TokenSecret signs bearer tokens and keys the credential hash. Every
	// service loads the same value; only Identity uses it.
	TokenSecret []byte

	// InternalKey authenticates service-to-service calls. Internal endpoints
	// reject requests that do not present it.
	InternalKey string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	IdentityURL     string
	AvailabilityURL string
	PaymentsURL     string
	ReservationsURL string

	// PeerTimeout bounds every synchronous call to a peer service.
	PeerTimeout time.Duration
}

var AppConfig *Config

// Load populates AppConfig for the named service. Each binary owns one
// database; the default database name is derived from the service name.
func Load(serviceName string) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		ServiceName:     serviceName,
		APIPort:         getEnv("API_PORT", "8080"),
		TokenSecret:     []byte(getEnv("TOKEN_SECRET", "defaultsecret")),
		InternalKey:     getEnv("INTERNAL_API_KEY", "internal-dev-key"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "user"),
		DBPassword:      getEnv("DB_PASSWORD", "password"),
		DBName:          getEnv("DB_NAME", serviceName+"_db"),
		DBSslMode:       getEnv("DB_SSLMODE", "disable"),
		IdentityURL:     getEnv("IDENTITY_URL", "http://identity:8080"),
		AvailabilityURL: getEnv("AVAILABILITY_URL", "http://availability:8080"),
		PaymentsURL:     getEnv("PAYMENTS_URL", "http://payments:8080"),
		ReservationsURL: getEnv("RESERVATIONS_URL", "http://reservations:8080"),
		PeerTimeout:     time.Duration(getEnvAsInt("PEER_TIMEOUT_MS", 2000)) * time.Millisecond,
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
