package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
)

var hexHashRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Config хранит настройки HTTP-сервера и файлового хранилища новостей.
type Config struct {
	ListenAddr   string `json:"listen_addr"`
	DataFile     string `json:"data_file"`
	BackupDir    string `json:"backup_dir"`
	MaxBackups   int    `json:"max_backups"`
	PasswordHash string `json:"password_hash"`
	WebRoot      string `json:"web_root"`
	PublicLimit  int    `json:"public_limit"`
}

// Validate проверяет, что указан файл данных, PasswordHash — hex-строка
// SHA-256 (64 символа в нижнем регистре), а MaxBackups не меньше 1.
func (cfg *Config) Validate() error {
	if cfg.DataFile == "" {
		return errors.New("data_file is required")
	}
	if !hexHashRe.MatchString(cfg.PasswordHash) {
		return errors.New("password_hash must be a lowercase hex SHA-256 string")
	}
	if cfg.MaxBackups < 1 {
		return fmt.Errorf("max_backups must be ≥ 1, got %d", cfg.MaxBackups)
	}
	return nil
}

// LoadConfig читает JSON-файл по пути path, декодирует его в Config
// и подставляет значения по умолчанию для незаполненных полей.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.BackupDir == "" {
		cfg.BackupDir = "data/backups"
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 10
	}
	if cfg.WebRoot == "" {
		cfg.WebRoot = "web"
	}
}

// FromEnv накладывает переменные окружения NEWS_ADMIN_* поверх конфигурации.
func (cfg *Config) FromEnv() {
	if v := os.Getenv("NEWS_ADMIN_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("NEWS_ADMIN_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("NEWS_ADMIN_BACKUP_DIR"); v != "" {
		cfg.BackupDir = v
	}
	if v := os.Getenv("NEWS_ADMIN_PASSWORD_HASH"); v != "" {
		cfg.PasswordHash = v
	}
	if v := os.Getenv("NEWS_ADMIN_WEB_ROOT"); v != "" {
		cfg.WebRoot = v
	}
}
