package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort          string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort        string        `yaml:"socket-port" env:"SOCKET_PORT" env-default:"7777"`
	StorageDriver     string        `yaml:"storage-driver" env:"STORAGE_DRIVER" env-default:"redis"`
	Redis             Redis         `yaml:"redis"`
	SQLiteStoragePath string        `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH"`
	JWTSecretKey      string        `yaml:"jwt-secret-key" env:"JWT_SECRET_KEY"`
	SessionTTL        time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"24h"`
	PresenceTTL       time.Duration `yaml:"presence-ttl" env:"PRESENCE_TTL" env-default:"45s"`
	Matchmaking       Matchmaking   `yaml:"matchmaking"`
	Challenge         Challenge     `yaml:"challenge"`
	Timelines         Timelines     `yaml:"timelines"`
	RecentGamesLimit  int           `yaml:"recent-games-limit" env:"RECENT_GAMES_LIMIT" env-default:"20"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Matchmaking struct {
	LiveTimeout  time.Duration `yaml:"live-timeout" env:"MATCHMAKING_LIVE_TIMEOUT" env-default:"60s"`
	AsyncTimeout time.Duration `yaml:"async-timeout" env:"MATCHMAKING_ASYNC_TIMEOUT" env-default:"24h"`
}

type Challenge struct {
	LiveTTL  time.Duration `yaml:"live-ttl" env:"CHALLENGE_LIVE_TTL" env-default:"60s"`
	AsyncTTL time.Duration `yaml:"async-ttl" env:"CHALLENGE_ASYNC_TTL" env-default:"72h"`
}

type Timelines struct {
	GhostChance float64 `yaml:"ghost-chance" env:"TIMELINES_GHOST_CHANCE" env-default:"0.5"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
