package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath        = "config/config.yaml"
	TwilioSandboxFrom  = "whatsapp:+14155238886"
	defaultVerifyToken = "feiraja_webhook_token"
)

type WhatsAppConfig struct {
	AccessToken   string `yaml:"access_token"`
	PhoneNumberID string `yaml:"phone_number_id"`
	VerifyToken   string `yaml:"verify_token"`
	AppSecret     string `yaml:"app_secret"`
	GraphBaseURL  string `yaml:"graph_base_url"`
}

// Configured — Meta отправка возможна только при паре токен + phone number id.
func (w WhatsAppConfig) Configured() bool {
	return w.AccessToken != "" && w.PhoneNumberID != ""
}

type TwilioConfig struct {
	AccountSID   string `yaml:"account_sid"`
	AuthToken    string `yaml:"auth_token"`
	WhatsAppFrom string `yaml:"whatsapp_from"`
	BaseURL      string `yaml:"base_url"`
}

func (t TwilioConfig) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.WhatsAppFrom != ""
}

func (t TwilioConfig) IsSandbox() bool {
	return t.WhatsAppFrom == TwilioSandboxFrom
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
}

func (e EmailConfig) Configured() bool {
	return e.SMTPHost != "" && e.FromEmail != ""
}

type TelegramConfig struct {
	BotToken  string `yaml:"bot_token"`
	OpsChatID int64  `yaml:"ops_chat_id"`
}

// CloudinaryConfig — хранилище картинок товаров; без него картинка сохраняется data URL.
type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Folder    string `yaml:"folder"`
}

func (c CloudinaryConfig) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type VerificationConfig struct {
	CodeTTL            time.Duration `yaml:"code_ttl"`
	RateWindow         time.Duration `yaml:"rate_window"`
	MaxPerWindow       int           `yaml:"max_per_window"`
	RegistrationWindow time.Duration `yaml:"registration_window"`
	JanitorSchedule    string        `yaml:"janitor_schedule"`
}

type Config struct {
	Server struct {
		Port           int           `yaml:"port"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	JWT struct {
		Secret string        `yaml:"secret"`
		TTL    time.Duration `yaml:"ttl"`
	} `yaml:"jwt"`
	Log struct {
		Env string `yaml:"env"`
	} `yaml:"log"`
	WhatsApp     WhatsAppConfig     `yaml:"whatsapp"`
	Twilio       TwilioConfig       `yaml:"twilio"`
	Email        EmailConfig        `yaml:"email"`
	Telegram     TelegramConfig     `yaml:"telegram"`
	Cloudinary   CloudinaryConfig   `yaml:"cloudinary"`
	Verification VerificationConfig `yaml:"verification"`
}

// Load читает .env (если есть), затем YAML (если есть), затем переменные окружения.
// Отсутствующий файл — не ошибка, битый — ошибка.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}
	if path == "" {
		path = getEnv("CONFIG_PATH", DefaultPath)
	}

	var cfg Config
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// только окружение
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrideInt(&c.Server.Port, "PORT")
	overrideString(&c.Database.DSN, "DATABASE_URL")
	overrideString(&c.JWT.Secret, "JWT_SECRET")
	overrideString(&c.Log.Env, "APP_ENV")

	overrideString(&c.WhatsApp.AccessToken, "WHATSAPP_TOKEN")
	overrideString(&c.WhatsApp.AccessToken, "WHATSAPP_ACCESS_TOKEN")
	overrideString(&c.WhatsApp.PhoneNumberID, "WHATSAPP_PHONE_NUMBER_ID")
	overrideString(&c.WhatsApp.VerifyToken, "WHATSAPP_WEBHOOK_SECRET")
	overrideString(&c.WhatsApp.VerifyToken, "WHATSAPP_VERIFY_TOKEN")
	overrideString(&c.WhatsApp.AppSecret, "WHATSAPP_APP_SECRET")

	overrideString(&c.Twilio.AccountSID, "TWILIO_ACCOUNT_SID")
	overrideString(&c.Twilio.AuthToken, "TWILIO_AUTH_TOKEN")
	overrideString(&c.Twilio.WhatsAppFrom, "TWILIO_WHATSAPP_FROM")

	overrideString(&c.Email.SMTPHost, "SMTP_HOST")
	overrideInt(&c.Email.SMTPPort, "SMTP_PORT")
	overrideString(&c.Email.SMTPUser, "SMTP_USER")
	overrideString(&c.Email.SMTPPassword, "SMTP_PASSWORD")
	overrideString(&c.Email.FromEmail, "SMTP_FROM")

	overrideString(&c.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	overrideString(&c.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	overrideString(&c.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")

	overrideString(&c.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	if v, ok := os.LookupEnv("TELEGRAM_OPS_CHAT_ID"); ok {
		if id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			c.Telegram.OpsChatID = id
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3001
	}
	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = 30 * time.Second
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{
			"http://localhost:3000",
			"http://localhost:3001",
			"http://localhost:3002",
			"https://feiraja.vercel.app",
			"https://feiraja-api.vercel.app",
		}
	}
	if c.JWT.Secret == "" {
		c.JWT.Secret = "your-secret-key-change-in-production"
	}
	if c.JWT.TTL <= 0 {
		c.JWT.TTL = 24 * time.Hour
	}
	if c.Log.Env == "" {
		c.Log.Env = "development"
	}
	if c.WhatsApp.VerifyToken == "" {
		c.WhatsApp.VerifyToken = defaultVerifyToken
	}
	if c.WhatsApp.GraphBaseURL == "" {
		c.WhatsApp.GraphBaseURL = "https://graph.facebook.com/v18.0"
	}
	if c.Twilio.BaseURL == "" {
		c.Twilio.BaseURL = "https://api.twilio.com"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Cloudinary.Folder == "" {
		c.Cloudinary.Folder = "feiraja/products"
	}

	v := &c.Verification
	if v.CodeTTL <= 0 {
		v.CodeTTL = 5 * time.Minute
	}
	if v.RateWindow <= 0 {
		v.RateWindow = time.Hour
	}
	if v.MaxPerWindow <= 0 {
		v.MaxPerWindow = 3
	}
	if v.RegistrationWindow <= 0 {
		v.RegistrationWindow = 10 * time.Minute
	}
	if v.JanitorSchedule == "" {
		v.JanitorSchedule = "@every 30m"
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func overrideString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func overrideInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		*dst = n
	}
}
