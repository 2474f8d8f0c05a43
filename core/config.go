package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env             string // DEV (local; default), TEST, QA, PROD
		Build           string
		Debug           bool
		TestMode        bool
		AppName         string
		SecretKey       string
		WorkDir         string
		FrontendBaseURL string
		TimeZone        *time.Location
		RollbarToken    string
		SendgridApiKey  string

		defaultFromEmail string

		Server   ServerConfig
		Database DatabaseConfig
		Redis    RedisConfig
		Auth     AuthConfig
	}

	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
		SecureCookies   bool
	}

	DatabaseConfig struct {
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

	RedisConfig struct {
		Enabled  bool
		Address  string
		Password string
		DB       int
	}

	AuthConfig struct {
		TokenIssuer        string
		TokenExpiration    time.Duration
		SessionCookieName  string
		LanguageCookieName string
	}
)

func (dbc DatabaseConfig) Address() string {
	return net.JoinHostPort(dbc.Host, dbc.Port)
}

func (conf *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(conf.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: conf.AppName, Address: "noreply@localhost"}
	}
	return *addr
}

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file and the environment.
// Environment variables are prefixed with the upper-cased env name, e.g. DEV_DATABASE_HOST.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("build", "develop")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Tadika")
	v.SetDefault("secretKey", "x3n$8q@l2+-vzq_9k#h0t^b!m6o(w4d&uj5e7yri1gfs*cpna")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "Tadika <noreply@localhost>")
	v.SetDefault("timeZone", "Asia/Kuala_Lumpur")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", "localhost:4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("server.secureCookies", false)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "tadika")
	v.SetDefault("database.user", "tadika")
	v.SetDefault("database.password", "tadika")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.tokenIssuer", "Tadika")
	v.SetDefault("auth.tokenExpiration", 7*24*time.Hour)
	v.SetDefault("auth.sessionCookieName", "tadika_session")
	v.SetDefault("auth.languageCookieName", "language")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

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
	v.AutomaticEnv()

	tz, err := time.LoadLocation(v.GetString("timeZone"))
	if err != nil {
		tz = time.UTC
	}

	return &Config{
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		WorkDir:          workDir,
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		TimeZone:         tz,
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		defaultFromEmail: v.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
			SecureCookies:   v.GetBool("server.secureCookies"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			TokenIssuer:        v.GetString("auth.tokenIssuer"),
			TokenExpiration:    v.GetDuration("auth.tokenExpiration"),
			SessionCookieName:  v.GetString("auth.sessionCookieName"),
			LanguageCookieName: v.GetString("auth.languageCookieName"),
		},
	}
}

// NewTestConfig returns a Config suitable for tests: no .env lookup, no external services.
func NewTestConfig() *Config {
	return &Config{
		Env:              "TEST",
		Build:            "test",
		TestMode:         true,
		AppName:          "Tadika",
		SecretKey:        "secret",
		FrontendBaseURL:  "http://localhost:3000",
		TimeZone:         time.UTC,
		defaultFromEmail: "Tadika <noreply@localhost>",
		Server: ServerConfig{
			Host:            "localhost",
			ShutdownTimeout: time.Second,
			DisableReqLogs:  true,
		},
		Auth: AuthConfig{
			TokenIssuer:        "Tadika",
			TokenExpiration:    time.Hour,
			SessionCookieName:  "tadika_session",
			LanguageCookieName: "language",
		},
	}
}
