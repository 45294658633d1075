package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level

	// Firebase project credentials shared by the agent and the mirror.
	APIKey       string
	DatabaseURL  string
	UserEmail    string
	UserPassword string

	UploadInterval time.Duration

	BME280Address uint16
	GPSDevice     string
	GPSBaud       int

	// Connectivity probe policy for the agent's Connecting state.
	NetRetryMax     int
	NetRetryInitial time.Duration
	NetRetryMaxWait time.Duration

	// Optional local MQTT republish; disabled when MQTTBroker is empty.
	MQTTBroker   string
	MQTTPort     int
	MQTTClientID string
	StationID    string

	// Mirror daemon settings.
	SQLitePath     string
	MirrorInterval time.Duration
	WeatherAPIKey  string
	WeatherAPIURL  string
	WeatherUnits   string

	// Dashboard listen address.
	HTTPAddr string
}

// LoadFromEnv reads configuration from the environment, loading a .env file
// first when one exists. Firebase credentials are required; everything else
// has a default.
func LoadFromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	apiKey := strings.TrimSpace(os.Getenv("FIREBASE_API_KEY"))
	if apiKey == "" {
		return Config{}, fmt.Errorf("FIREBASE_API_KEY is required")
	}

	dbURL := strings.TrimSpace(os.Getenv("FIREBASE_URL"))
	if dbURL == "" {
		return Config{}, fmt.Errorf("FIREBASE_URL is required")
	}
	if _, err := url.ParseRequestURI(dbURL); err != nil {
		return Config{}, fmt.Errorf("invalid FIREBASE_URL %q: %w", dbURL, err)
	}
	dbURL = strings.TrimRight(dbURL, "/")

	userEmail := strings.TrimSpace(os.Getenv("FIREBASE_USER_EMAIL"))
	if userEmail == "" {
		return Config{}, fmt.Errorf("FIREBASE_USER_EMAIL is required")
	}
	userPassword := os.Getenv("FIREBASE_USER_PASSWORD")
	if userPassword == "" {
		return Config{}, fmt.Errorf("FIREBASE_USER_PASSWORD is required")
	}

	uploadInterval, err := getenvDuration("UPLOAD_INTERVAL", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	if uploadInterval <= 0 {
		return Config{}, fmt.Errorf("UPLOAD_INTERVAL must be positive, got %v", uploadInterval)
	}

	bme280AddressStr := getenvDefault("BME280_ADDRESS", "0x76")
	bme280Address, err := strconv.ParseUint(bme280AddressStr, 0, 16)
	if err != nil {
		return Config{}, fmt.Errorf("invalid BME280_ADDRESS %q: %w", bme280AddressStr, err)
	}

	gpsDevice := getenvDefault("GPS_DEVICE", "/dev/ttyAMA0")
	gpsBaudStr := getenvDefault("GPS_BAUD", "9600")
	gpsBaud, err := strconv.Atoi(gpsBaudStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid GPS_BAUD %q: %w", gpsBaudStr, err)
	}

	netRetryMaxStr := getenvDefault("NET_RETRY_MAX", "30")
	netRetryMax, err := strconv.Atoi(netRetryMaxStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid NET_RETRY_MAX %q: %w", netRetryMaxStr, err)
	}
	netRetryInitial, err := getenvDuration("NET_RETRY_INITIAL", 300*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	netRetryMaxWait, err := getenvDuration("NET_RETRY_MAX_WAIT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}

	mqttBroker := strings.TrimSpace(os.Getenv("MQTT_BROKER"))
	mqttPortStr := getenvDefault("MQTT_PORT", "1883")
	mqttPort, err := strconv.Atoi(mqttPortStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %q: %w", mqttPortStr, err)
	}
	mqttClientID := getenvDefault("MQTT_CLIENT_ID", "weather-drone-agent")
	stationID := getenvDefault("STATION_ID", "drone")

	sqlitePath := getenvDefault("SQLITE_PATH", "weather_drone_data.db")
	mirrorInterval, err := getenvDuration("MIRROR_INTERVAL", time.Minute)
	if err != nil {
		return Config{}, err
	}
	if mirrorInterval <= 0 {
		return Config{}, fmt.Errorf("MIRROR_INTERVAL must be positive, got %v", mirrorInterval)
	}

	weatherUnits := getenvDefault("WEATHER_UNITS", "METRIC")
	switch weatherUnits {
	case "METRIC", "IMPERIAL":
	default:
		return Config{}, fmt.Errorf("invalid WEATHER_UNITS %q (allowed: METRIC, IMPERIAL)", weatherUnits)
	}

	return Config{
		AppEnv:          appEnv,
		LogLevel:        level,
		APIKey:          apiKey,
		DatabaseURL:     dbURL,
		UserEmail:       userEmail,
		UserPassword:    userPassword,
		UploadInterval:  uploadInterval,
		BME280Address:   uint16(bme280Address),
		GPSDevice:       gpsDevice,
		GPSBaud:         gpsBaud,
		NetRetryMax:     netRetryMax,
		NetRetryInitial: netRetryInitial,
		NetRetryMaxWait: netRetryMaxWait,
		MQTTBroker:      mqttBroker,
		MQTTPort:        mqttPort,
		MQTTClientID:    mqttClientID,
		StationID:       stationID,
		SQLitePath:      sqlitePath,
		MirrorInterval:  mirrorInterval,
		WeatherAPIKey:   strings.TrimSpace(os.Getenv("WEATHER_API_KEY")),
		WeatherAPIURL:   getenvDefault("WEATHER_API_URL", "https://weather.googleapis.com/v1/currentConditions:lookup"),
		WeatherUnits:    weatherUnits,
		HTTPAddr:        getenvDefault("HTTP_ADDR", ":8080"),
	}, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
