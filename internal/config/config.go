package config

import (
	"log"
	"sync"
	"time"

	"github.com/readshelf/library-service/pkg/kafka"
	"github.com/readshelf/library-service/pkg/logger"
	"github.com/readshelf/library-service/pkg/postgres"

	"github.com/kelseyhightower/envconfig"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"30s"`
	WriteTimeout time.Duration
}

type JWT struct {
	SecretKey                string `envconfig:"JWT_SECRET_KEY" required:"true"`
	TokenPrefix              string `envconfig:"JWT_TOKEN_PREFIX" default:"Bearer "`
	TokenExpirationAfterDays int    `envconfig:"JWT_TOKEN_EXPIRATION_DAYS" default:"14"`
}

type Config struct {
	Server   HTTPServer   `yaml:"server"`
	Database postgres.DB  `yaml:"db"`
	JWT      JWT          `yaml:"jwt"`
	Kafka    kafka.Config `yaml:"kafka"`
	Log      logger.Log   `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
	})

	return cfg
}
