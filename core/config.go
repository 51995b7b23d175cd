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

var Conf *Config

type Config struct {
	Debug    bool
	TestMode bool
	Env      string // DEV (default), TEST, QA, PROD
	AppName  string
	Build    string
	WorkDir  string

	SecretKey       []byte
	SessionLifetime time.Duration

	DatabaseURL string

	Server struct {
		Addr            string
		FrontendBaseURL string
	}

	DefaultFromEmail mail.Address
	SendgridApiKey   string
	RollbarToken     string

	Upload struct {
		Dir     string
		BaseURL string
	}
}

func init() {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "EduLeave")
	v.SetDefault("secretKey", "x#2b&1v)z@edu-leave-dev-only-g$8q(w!m5^t7=k9+r3&c0o")
	v.SetDefault("sessionLifetime", 4*time.Hour)
	v.SetDefault("addr", ":8000")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("uploadDir", "uploads")
	v.SetDefault("uploadBaseURL", "http://localhost:8000/uploads")

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	Conf = &Config{
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		Env:             env,
		AppName:         v.GetString("appName"),
		Build:           v.GetString("build"),
		WorkDir:         Getwd(),
		SecretKey:       []byte(v.GetString("secretKey")),
		SessionLifetime: v.GetDuration("sessionLifetime"),
		DatabaseURL:     v.GetString("databaseURL"),
		SendgridApiKey:  v.GetString("sendgridApiKey"),
		RollbarToken:    v.GetString("rollbarToken"),
		DefaultFromEmail: mail.Address{
			Name:    v.GetString("appName"),
			Address: v.GetString("defaultFromEmail"),
		},
	}
	Conf.Server.Addr = v.GetString("addr")
	Conf.Server.FrontendBaseURL = v.GetString("frontendBaseURL")
	Conf.Upload.Dir = v.GetString("uploadDir")
	Conf.Upload.BaseURL = v.GetString("uploadBaseURL")
}
