package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		DisableTLS    bool
	}

	Config struct {
		AppName  string
		Debug    bool
		TestMode bool
		Env      string
		Build    string
		WorkDir  string

		SecretKey        string
		FrontendBaseURL  string
		DefaultFromEmail string

		// accreditation cycle being reported on
		AcademicYear string // eg. "2024-2025"
		Semester     string // eg. "Fall 2024"

		// recipients of critical compliance alerts
		ComplianceAlertEmails []string

		SendgridAPIKey string
		RollbarToken   string

		Server   ServerConfig
		Database DatabaseConfig
	}
)

// NewConfig loads the app configuration from the environment,
// with an optional `config/.env.<env>` dotenv file as a base.
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "AccredHub")
	conf.SetDefault("build", "develop")
	conf.SetDefault("secretKey", "v#2b)0q8_+7y=d5&(4c^a9!uxh$ozh3(mw*eg1!s$pkr&yn-t2")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("academicYear", "2024-2025")
	conf.SetDefault("semester", "Fall 2024")
	conf.SetDefault("serverHost", "0.0.0.0:8000")
	conf.SetDefault("serverDebugHost", "0.0.0.0:4000")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	conf.SetDefault("dbEngine", "postgres")
	conf.SetDefault("dbName", "accredhub")
	conf.SetDefault("dbUser", "postgres")
	conf.SetDefault("dbHost", "localhost:5432")
	conf.SetDefault("dbDisableTLS", true)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	testMode := false
	switch strings.ToUpper(env) {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	conf.SetEnvPrefix(env)

	wd := getWorkDir()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		AppName:               conf.GetString("appName"),
		Debug:                 conf.GetBool("debug"),
		TestMode:              testMode,
		Env:                   env,
		Build:                 conf.GetString("build"),
		WorkDir:               wd,
		SecretKey:             conf.GetString("secretKey"),
		FrontendBaseURL:       conf.GetString("frontendBaseUrl"),
		DefaultFromEmail:      conf.GetString("defaultFromEmail"),
		AcademicYear:          conf.GetString("academicYear"),
		Semester:              conf.GetString("semester"),
		ComplianceAlertEmails: conf.GetStringSlice("complianceAlertEmails"),
		SendgridAPIKey:        conf.GetString("sendgridApiKey"),
		RollbarToken:          conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:                      conf.GetString("serverHost"),
			DebugHost:                 conf.GetString("serverDebugHost"),
			ShutdownTimeout:           conf.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:        conf.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: conf.GetDuration("jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("dbEngine"),
			Name:          conf.GetString("dbName"),
			User:          conf.GetString("dbUser"),
			Password:      conf.GetString("dbPassword"),
			AdminUser:     conf.GetString("dbAdminUser"),
			AdminPassword: conf.GetString("dbAdminPassword"),
			Host:          conf.GetString("dbHost"),
			DisableTLS:    conf.GetBool("dbDisableTLS"),
		},
	}
}

// getWorkDir tries to find the project root (the dir containing go.mod).
// go-test changes the working directory to the test package being run during tests,
// so relative paths cannot be trusted.
// see: https://stackoverflow.com/questions/23847003/golang-tests-and-working-directory
func getWorkDir() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if _, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			// deployed binaries live outside the source tree
			return wd
		}
		currDir = newDir
	}
}
