package configng

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	FlavorAWS    = "aws"
	FlavorMinio  = "minio"
	FlavorOVH    = "ovh"
	FlavorMemory = "memory"

	// BucketEnv overrides the configured storage bucket name.
	BucketEnv = "UPLOAD_BUCKET"
)

type S3Config struct {
	Flavor       string
	Endpoint     string
	Region       string
	Bucket       string
	Key, Secret  string
	VerifyBucket bool
}

type AuthConfig struct {
	FirebaseProjectID       string
	FailedAttemptsPerMinute int
}

type Config struct {
	V *viper.Viper
}

// Read loads the named config file from path. Keys can be overridden
// by ANKAPI_-prefixed environment variables (Storage.Bucket -> ANKAPI_STORAGE_BUCKET).
func Read(path, name, format string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType(format)
	v.AddConfigPath(path)
	setDefaults(v)
	err := v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return &Config{V: v}, nil
}

// New returns configuration consisting only of defaults and environment overrides.
func New() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{V: v}
}

func setDefaults(v *viper.Viper) {
	v.SetEnvPrefix("ANKAPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("Address", ":8080")
	v.SetDefault("Environment", "develop")
	v.SetDefault("GracefulShutdown", 5*time.Second)
	v.SetDefault("CORSDomains", []string{"*"})
	v.SetDefault("Storage.Flavor", FlavorAWS)
	v.SetDefault("Auth.FailedAttemptsPerMinute", 10)
}

// ReadS3Config reads storage settings found under key name.
// Each field can be set by environment (Storage.Endpoint -> ANKAPI_STORAGE_ENDPOINT),
// and a non-empty UPLOAD_BUCKET takes precedence over any other bucket setting.
func (c *Config) ReadS3Config(name string) (S3Config, error) {
	s3cfg := S3Config{
		Flavor:       c.V.GetString(name + ".Flavor"),
		Endpoint:     c.V.GetString(name + ".Endpoint"),
		Region:       c.V.GetString(name + ".Region"),
		Bucket:       c.V.GetString(name + ".Bucket"),
		Key:          c.V.GetString(name + ".Key"),
		Secret:       c.V.GetString(name + ".Secret"),
		VerifyBucket: c.V.GetBool(name + ".VerifyBucket"),
	}
	if b := strings.TrimSpace(os.Getenv(BucketEnv)); b != "" {
		s3cfg.Bucket = b
	}
	return s3cfg, nil
}

// ReadAuthConfig reads authentication settings found under key name.
// An explicit FailedAttemptsPerMinute of zero is kept as is.
func (c *Config) ReadAuthConfig(name string) (AuthConfig, error) {
	return AuthConfig{
		FirebaseProjectID:       c.V.GetString(name + ".FirebaseProjectID"),
		FailedAttemptsPerMinute: c.V.GetInt(name + ".FailedAttemptsPerMinute"),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.V.GetString("Environment") == "production"
}
