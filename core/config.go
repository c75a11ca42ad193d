package core

import (
	"log"
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
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		AppName          string
		SecretKey        string
		FrontendBaseURL  string
		RollbarToken     string
		SendgridApiKey   string
		DefaultFromEmail mail.Address
		RedisURL         string
		Server           ServerConfig
		Database         DatabaseConfig
	}

	ServerConfig struct {
		Host                      string
		Address                   string
		DebugAddress              string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		SessionCookie             string
	}

	DatabaseConfig struct {
		Path        string
		BusyTimeout time.Duration
		Seed        bool
	}
)

func newViper(env string) *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("build", "develop")
	v.SetDefault("debug", true)
	v.SetDefault("test_mode", false)
	v.SetDefault("app_name", "Campus")
	v.SetDefault("secret_key", "w9)c2r$+x!y3tq@5-kfa&8v(zj4=mb#1pl6o^e0hn7_ud%sg*i")
	v.SetDefault("frontend_base_url", "http://localhost:3000")
	v.SetDefault("rollbar_token", "")
	v.SetDefault("sendgrid_api_key", "")
	v.SetDefault("default_from_name", "Campus")
	v.SetDefault("default_from_email", "noreply@localhost")
	v.SetDefault("redis_url", "")

	v.SetDefault("server_host", "localhost")
	v.SetDefault("server_address", ":8080")
	v.SetDefault("server_debug_address", ":4000")
	v.SetDefault("server_shutdown_timeout", 5*time.Second)
	v.SetDefault("jwt_expiration_delta", 24*time.Hour)
	v.SetDefault("jwt_refresh_expiration_delta", 7*24*time.Hour)
	v.SetDefault("session_cookie", "session")

	v.SetDefault("database_path", "./database.db")
	v.SetDefault("database_busy_timeout", 5*time.Second)
	v.SetDefault("database_seed", true)

	if env == "TEST" {
		v.SetDefault("test_mode", true)
	}
	v.SetEnvPrefix(env)
	v.AutomaticEnv()
	return v
}

// NewConfig loads the configuration for the current ENV (DEV by default; TEST, QA, PROD).
// Values come from defaults, an optional `config/.env.<env>` file and `<ENV>_*` environment variables.
func NewConfig() *Config {
	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	return configFromViper(env, newViper(env))
}

func configFromViper(env string, v *viper.Viper) *Config {
	return &Config{
		Env:             env,
		Build:           v.GetString("build"),
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("test_mode"),
		AppName:         v.GetString("app_name"),
		SecretKey:       v.GetString("secret_key"),
		FrontendBaseURL: v.GetString("frontend_base_url"),
		RollbarToken:    v.GetString("rollbar_token"),
		SendgridApiKey:  v.GetString("sendgrid_api_key"),
		DefaultFromEmail: mail.Address{
			Name:    v.GetString("default_from_name"),
			Address: v.GetString("default_from_email"),
		},
		RedisURL: v.GetString("redis_url"),
		Server: ServerConfig{
			Host:                      v.GetString("server_host"),
			Address:                   v.GetString("server_address"),
			DebugAddress:              v.GetString("server_debug_address"),
			ShutdownTimeout:           v.GetDuration("server_shutdown_timeout"),
			JWTExpirationDelta:        v.GetDuration("jwt_expiration_delta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwt_refresh_expiration_delta"),
			SessionCookie:             v.GetString("session_cookie"),
		},
		Database: DatabaseConfig{
			Path:        v.GetString("database_path"),
			BusyTimeout: v.GetDuration("database_busy_timeout"),
			Seed:        v.GetBool("database_seed"),
		},
	}
}

// NewTestConfig returns a TEST configuration backed by the database file at dbPath.
func NewTestConfig(dbPath string) *Config {
	conf := configFromViper("TEST", newViper("TEST"))
	conf.Database.Path = dbPath
	return conf
}
