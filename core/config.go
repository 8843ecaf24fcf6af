package core

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	serverConfig struct {
		Host            string
		Address         string
		DebugAddress    string
		ShutdownTimeout time.Duration
		SessionCookie   string
		SessionTTL      time.Duration
		ReceiptLinkTTL  time.Duration
	}

	backendConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	sessionConfig struct {
		Store     string // memory | redis | postgres
		RedisAddr string
		RedisDB   int
	}

	databaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	// SchoolConfig identifies the school on printed receipts.
	SchoolConfig struct {
		Name     string
		Address  string
		Phone    string
		Email    string
		LogoPath string
		Currency string
	}

	Config struct {
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		AppName          string
		SecretKey        string
		DefaultFromEmail string
		SendgridAPIKey   string
		RollbarToken     string
		PageSize         int
		WorkDir          string

		Server   serverConfig
		Backend  backendConfig
		Session  sessionConfig
		Database databaseConfig
		School   SchoolConfig
	}
)

func (db databaseConfig) Address() string {
	return net.JoinHostPort(db.Host, db.Port)
}

// NewConfig loads the configuration for the current ENV (DEV by default).
// Values come from ENV-prefixed environment variables, optionally seeded from config/.env.<env>.
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	conf.SetDefault("debug", true)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "Masomo Portal")
	conf.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("sendgridAPIKey", "")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("pageSize", 20)

	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverAddress", ":8080")
	conf.SetDefault("serverDebugAddress", ":4000")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("serverSessionCookie", "masomo_session")
	conf.SetDefault("serverSessionTTL", 7*24*time.Hour)
	conf.SetDefault("serverReceiptLinkTTL", time.Hour)

	conf.SetDefault("backendBaseURL", "http://localhost:8000/api")
	conf.SetDefault("backendTimeout", 15*time.Second)

	conf.SetDefault("sessionStore", "memory")
	conf.SetDefault("sessionRedisAddr", "localhost:6379")
	conf.SetDefault("sessionRedisDB", 0)

	conf.SetDefault("databaseEngine", "postgres")
	conf.SetDefault("databaseHost", "localhost")
	conf.SetDefault("databasePort", "5432")
	conf.SetDefault("databaseName", "masomo_portal")
	conf.SetDefault("databaseUser", "masomo")
	conf.SetDefault("databasePassword", "masomo")
	conf.SetDefault("databaseAdminUser", "")
	conf.SetDefault("databaseAdminPassword", "")
	conf.SetDefault("databaseDisableTLS", true)

	conf.SetDefault("schoolName", "Masomo School")
	conf.SetDefault("schoolAddress", "School Address")
	conf.SetDefault("schoolPhone", "N/A")
	conf.SetDefault("schoolEmail", "info@school.local")
	conf.SetDefault("schoolLogoPath", "")
	conf.SetDefault("schoolCurrency", "USD")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	workDir := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:              env,
		Build:            conf.GetString("build"),
		Debug:            conf.GetBool("debug"),
		TestMode:         conf.GetBool("testMode"),
		AppName:          conf.GetString("appName"),
		SecretKey:        conf.GetString("secretKey"),
		DefaultFromEmail: conf.GetString("defaultFromEmail"),
		SendgridAPIKey:   conf.GetString("sendgridAPIKey"),
		RollbarToken:     conf.GetString("rollbarToken"),
		PageSize:         conf.GetInt("pageSize"),
		WorkDir:          workDir,
		Server: serverConfig{
			Host:            conf.GetString("serverHost"),
			Address:         conf.GetString("serverAddress"),
			DebugAddress:    conf.GetString("serverDebugAddress"),
			ShutdownTimeout: conf.GetDuration("serverShutdownTimeout"),
			SessionCookie:   conf.GetString("serverSessionCookie"),
			SessionTTL:      conf.GetDuration("serverSessionTTL"),
			ReceiptLinkTTL:  conf.GetDuration("serverReceiptLinkTTL"),
		},
		Backend: backendConfig{
			BaseURL: strings.TrimRight(conf.GetString("backendBaseURL"), "/"),
			Timeout: conf.GetDuration("backendTimeout"),
		},
		Session: sessionConfig{
			Store:     strings.ToLower(conf.GetString("sessionStore")),
			RedisAddr: conf.GetString("sessionRedisAddr"),
			RedisDB:   conf.GetInt("sessionRedisDB"),
		},
		Database: databaseConfig{
			Engine:        conf.GetString("databaseEngine"),
			Host:          conf.GetString("databaseHost"),
			Port:          conf.GetString("databasePort"),
			Name:          conf.GetString("databaseName"),
			User:          conf.GetString("databaseUser"),
			Password:      conf.GetString("databasePassword"),
			AdminUser:     conf.GetString("databaseAdminUser"),
			AdminPassword: conf.GetString("databaseAdminPassword"),
			DisableTLS:    conf.GetBool("databaseDisableTLS"),
		},
		School: SchoolConfig{
			Name:     conf.GetString("schoolName"),
			Address:  conf.GetString("schoolAddress"),
			Phone:    conf.GetString("schoolPhone"),
			Email:    conf.GetString("schoolEmail"),
			LogoPath: conf.GetString("schoolLogoPath"),
			Currency: conf.GetString("schoolCurrency"),
		},
	}
}

// NewTestConfig returns a Config suitable for tests: no .env lookup, no external services.
func NewTestConfig() *Config {
	return &Config{
		Env:              "TEST",
		Build:            "test",
		TestMode:         true,
		AppName:          "Masomo Portal",
		SecretKey:        "secret",
		DefaultFromEmail: "noreply@localhost",
		PageSize:         20,
		Server: serverConfig{
			Host:            "localhost",
			ShutdownTimeout: time.Second,
			SessionCookie:   "masomo_session",
			SessionTTL:      time.Hour,
			ReceiptLinkTTL:  time.Hour,
		},
		Backend: backendConfig{Timeout: 5 * time.Second},
		Session: sessionConfig{Store: "memory"},
		School: SchoolConfig{
			Name:     "Masomo School",
			Address:  "School Address",
			Phone:    "N/A",
			Email:    "info@school.local",
			Currency: "USD",
		},
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("%s (%s) env=%s debug=%v", c.AppName, c.Build, c.Env, c.Debug)
}
