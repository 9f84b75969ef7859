package config

import (
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Shop      ShopConfig
	Email     EmailConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Driver   string // postgres or sqlite
	Path     string // sqlite file
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// PrinterConfig selects the thermal printer backend.
type PrinterConfig struct {
	Type      string // usb, network, memory, none
	USBPath   string
	Address   string
	Width     int // characters per line
	AutoPrint bool
}

// ShopConfig is the café identity printed on receipts and used for day boundaries.
type ShopConfig struct {
	Name           string
	Tagline        string
	Address        string
	Phone          string
	Footer         string
	CurrencySymbol string
	Timezone       string
	DefaultCashier string
	OrderPrefix    string
}

// Location resolves the shop timezone, falling back to UTC.
func (s ShopConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", s.Timezone).Msg("Unknown shop timezone, using UTC")
		return time.UTC
	}
	return loc
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// AdminConfig seeds the first administrator account.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg(".env file not found, using environment variables")
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Path:     viper.GetString("DB_PATH"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("PRINTER_TYPE"),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			Width:     viper.GetInt("PRINTER_WIDTH"),
			AutoPrint: viper.GetBool("PRINTER_AUTO_PRINT"),
		},
		Shop: ShopConfig{
			Name:           viper.GetString("SHOP_NAME"),
			Tagline:        viper.GetString("SHOP_TAGLINE"),
			Address:        viper.GetString("SHOP_ADDRESS"),
			Phone:          viper.GetString("SHOP_PHONE"),
			Footer:         viper.GetString("SHOP_FOOTER"),
			CurrencySymbol: viper.GetString("SHOP_CURRENCY"),
			Timezone:       viper.GetString("SHOP_TIMEZONE"),
			DefaultCashier: viper.GetString("SHOP_DEFAULT_CASHIER"),
			OrderPrefix:    viper.GetString("SHOP_ORDER_PREFIX"),
		},
		Email: EmailConfig{
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUsername: viper.GetString("SMTP_USERNAME"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("SMTP_FROM_NAME"),
			FromEmail:    viper.GetString("SMTP_FROM_EMAIL"),
		},
		Admin: AdminConfig{
			Name:     viper.GetString("ADMIN_NAME"),
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "cafe-pos")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_PATH", "cafe-pos.db")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "cafe_pos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)

	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_WIDTH", 32)
	viper.SetDefault("PRINTER_AUTO_PRINT", false)

	viper.SetDefault("SHOP_NAME", "HADIR'S CAFE")
	viper.SetDefault("SHOP_TAGLINE", "Love at first sip")
	viper.SetDefault("SHOP_ADDRESS", "No.8/117, Sudha Residency, Metro Nagar 4th Avenue, Alapakkam, Chennai, Tamil Nadu 600116")
	viper.SetDefault("SHOP_PHONE", "+91 99418 39385")
	viper.SetDefault("SHOP_FOOTER", "Thank you for visiting! / Visit us again soon.")
	viper.SetDefault("SHOP_CURRENCY", "₹")
	viper.SetDefault("SHOP_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("SHOP_DEFAULT_CASHIER", "Mohammed Haris T A")
	viper.SetDefault("SHOP_ORDER_PREFIX", "ORD")

	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM_NAME", "HADIR'S CAFE")

	viper.SetDefault("ADMIN_NAME", "Administrator")
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
