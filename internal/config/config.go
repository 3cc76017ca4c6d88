package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/kapu/campus-meal-alarm-go/internal/constants"
	"github.com/kapu/campus-meal-alarm-go/pkg/errors"
)

// Config: 학식 알림 배치 서비스의 전체 동작에 필요한 설정을 담는 구조체
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Valkey   ValkeyConfig
	FCM      FCMConfig
	Alarm    AlarmConfig
	Logging  LoggingConfig
	Version  string
}

// ServerConfig: 관리자용 API 서버 설정
type ServerConfig struct {
	Port          int
	AdminUser     string
	AdminPassHash string // bcrypt 해시
}

// PostgresConfig: PostgreSQL 접속 정보를 담는 설정 구조체
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// ValkeyConfig: Valkey(Redis) 연결 설정
type ValkeyConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// FCMConfig: Firebase Cloud Messaging 인증 설정
type FCMConfig struct {
	CredentialsFile string // 서비스 계정 JSON 경로
	ProjectID       string
}

// AlarmConfig: 알림 배치 실행 스케줄 및 동작 설정
type AlarmConfig struct {
	ChunkSize int  // 사용자 스트림 청크 크기
	BatchSize int  // FCM 호출 1회당 최대 메시지 수
	RunLock   bool // 같은 카테고리 중복 실행 방지 락 사용 여부

	// 카테고리별 cron 스펙 (KST 기준). 빈 문자열이면 해당 카테고리는 스케줄링하지 않는다.
	DailySpec     string
	BreakfastSpec string
	LunchSpec     string
	DinnerSpec    string
}

// LoggingConfig: 로그 레벨 및 파일 로테이션 설정
type LoggingConfig struct {
	Level      string
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Load: 환경변수(.env 포함)에서 설정을 읽어 Config를 구성한다.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:          getEnvInt("SERVER_PORT", 30011),
			AdminUser:     getEnv("ADMIN_USER", "admin"),
			AdminPassHash: getEnv("ADMIN_PASS_HASH", ""),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "cafeteria"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "cafeteria"),
		},
		Valkey: ValkeyConfig{
			Host:     getEnv("CACHE_HOST", "localhost"),
			Port:     getEnvInt("CACHE_PORT", 6379),
			Password: getEnv("CACHE_PASSWORD", ""),
			DB:       getEnvInt("CACHE_DB", 0),
		},
		FCM: FCMConfig{
			CredentialsFile: getEnv("FCM_CREDENTIALS_FILE", ""),
			ProjectID:       getEnv("FCM_PROJECT_ID", ""),
		},
		Alarm: AlarmConfig{
			ChunkSize: getEnvInt("ALARM_CHUNK_SIZE", constants.PipelineConfig.UserChunkSize),
			BatchSize: getEnvInt("ALARM_BATCH_SIZE", constants.PipelineConfig.PushBatchSize),
			RunLock:   getEnvBool("ALARM_RUN_LOCK_ENABLED", true),

			DailySpec:     getEnv("ALARM_CRON_DAILY", "0 7 * * *"),
			BreakfastSpec: getEnv("ALARM_CRON_BREAKFAST", "30 7 * * *"),
			LunchSpec:     getEnv("ALARM_CRON_LUNCH", "30 11 * * *"),
			DinnerSpec:    getEnv("ALARM_CRON_DINNER", "30 17 * * *"),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Dir:        getEnv("LOG_DIR", "logs"),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 30),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
		Version: strings.TrimSpace(getEnv("APP_VERSION", "1.0.0-go")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate: 필수 설정값이 누락되지 않았는지 검증한다.
func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		return errors.NewValidationError("SERVER_PORT", "required")
	}
	if c.Postgres.Password == "" {
		return errors.NewValidationError("POSTGRES_PASSWORD", "required")
	}
	if c.FCM.CredentialsFile == "" {
		return errors.NewValidationError("FCM_CREDENTIALS_FILE", "required")
	}
	if c.Alarm.ChunkSize <= 0 {
		return errors.NewValidationError("ALARM_CHUNK_SIZE", "must be positive")
	}
	if c.Alarm.BatchSize <= 0 || c.Alarm.BatchSize > 500 {
		return errors.NewValidationError("ALARM_BATCH_SIZE", "must be within (0, 500]")
	}
	if c.Server.AdminPassHash == "" {
		return errors.NewValidationError("ADMIN_PASS_HASH", "required for the admin endpoint")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}
