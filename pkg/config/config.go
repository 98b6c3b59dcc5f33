package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Port               string `mapstructure:"PORT"`
	GRPCPort           string `mapstructure:"GRPC_PORT"`
	ServiceName        string `mapstructure:"SERVICE_NAME"`
	LogLevel           string `mapstructure:"LOG_LEVEL"`
	DatabaseURL        string `mapstructure:"DATABASE_URL"`
	RabbitMQURL        string `mapstructure:"RABBITMQ_URL"`
	AWSEndpoint        string `mapstructure:"AWS_ENDPOINT"`
	AWSBucket          string `mapstructure:"AWS_S3_BUCKET"`
	AWSRegion          string `mapstructure:"AWS_REGION"`
	AWSAccessKeyID     string `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `mapstructure:"AWS_SECRET_ACCESS_KEY"`
}

var keys = []string{
	"PORT",
	"GRPC_PORT",
	"SERVICE_NAME",
	"LOG_LEVEL",
	"DATABASE_URL",
	"RABBITMQ_URL",
	"AWS_ENDPOINT",
	"AWS_S3_BUCKET",
	"AWS_REGION",
	"AWS_ACCESS_KEY_ID",
	"AWS_SECRET_ACCESS_KEY",
}

// Read loads configuration from an optional .env file and the environment.
// Environment variables win over the file.
func Read() (*AppConfig, error) {
	return ReadFile(".env")
}

func ReadFile(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()

	bindEnvVariables(v)
	setDefaults(v)

	var appConfig AppConfig
	if err := v.Unmarshal(&appConfig); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &appConfig, nil
}

// Validate reports every missing required setting at once.
func (c *AppConfig) Validate() error {
	required := map[string]string{
		"DATABASE_URL":          c.DatabaseURL,
		"AWS_S3_BUCKET":         c.AWSBucket,
		"AWS_REGION":            c.AWSRegion,
		"AWS_ACCESS_KEY_ID":     c.AWSAccessKeyID,
		"AWS_SECRET_ACCESS_KEY": c.AWSSecretAccessKey,
	}

	var missing []string
	for _, key := range keys {
		value, ok := required[key]
		if ok && strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}

func bindEnvVariables(v *viper.Viper) {
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GRPC_PORT", "9090")
	v.SetDefault("SERVICE_NAME", "lostfound")
	v.SetDefault("LOG_LEVEL", "info")
}
