package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Configuration holds the static settings needed to run the service.
type Configuration struct {
	Address   string `env:"ADDRESS" envDefault:"8080"`     // listen port
	JwtSecret string `env:"JWT_SECRET,required"`           // HS256 signing secret for bearer tokens
	JwtIssuer string `env:"JWT_ISSUER" envDefault:"avian"` // expected iss claim

	StoreDriver           string `env:"STORE_DRIVER" envDefault:"mongo"` // mongo or memory
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"avian"`
	MongoDB_ConnectRetry  int    `env:"MONGODB_CONNECT_RETRY" envDefault:"5"` // attempts before giving up

	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"` // seconds
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	Row_DefaultLimit int `env:"ROW_DEFAULT_LIMIT" envDefault:"50"`
	Row_MaxLimit     int `env:"ROW_MAX_LIMIT" envDefault:"1000"`

	Report_Locale          string `env:"REPORT_LOCALE" envDefault:"en"` // BCP 47 tag used to collate text sorts
	Report_DefaultPageSize int    `env:"REPORT_DEFAULT_PAGE_SIZE" envDefault:"25"`
	Report_VisibleColumns  int    `env:"REPORT_VISIBLE_COLUMNS" envDefault:"8"`

	Permission_MaxRetries int `env:"PERMISSION_MAX_RETRIES" envDefault:"5"` // version-conflict retries

	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`
}

// getEnvPath returns config/env/<GO_ENV>.env from the closest ancestor of the
// working directory that has a config/env folder.
func getEnvPath() string {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", goEnv))
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig loads the given env files (or config/env/<GO_ENV>.env when none
// are given) and parses the environment into a Configuration. Variables
// already set in the process win over file values. It returns nil when
// parsing fails.
func NewConfig(files ...string) *Configuration {
	if len(files) == 0 {
		if envPath := getEnvPath(); envPath != "" {
			if _, err := os.Stat(envPath); err == nil {
				files = append(files, envPath)
			}
		}
	}

	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			// logger is not initialised yet
			fmt.Printf("Could not load env files %v: %v\n", files, err)
			return nil
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Could not parse config: %+v\n", err)
		return nil
	}
	return &cfg
}
