package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Sizing     SizingConfig
	Database   DatabaseConfig
	Kubernetes KubernetesConfig
	Deploy     DeployConfig
	Logger     LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type SizingConfig struct {
	URL     string
	Timeout time.Duration
	Retries int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type KubernetesConfig struct {
	Enabled        bool
	InCluster      bool
	KubeConfigPath string
	ClusterName    string
	Provider       string
	Region         string
	CacheTTL       time.Duration
}

type DeployConfig struct {
	StageTimeout time.Duration
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SIZING_URL", "http://localhost:8085")
	v.SetDefault("SIZING_TIMEOUT", "30s")
	v.SetDefault("SIZING_RETRIES", 3)
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_NAME", "tenant_provisioning")
	v.SetDefault("DATABASE_SSL_MODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("KUBERNETES_ENABLED", false)
	v.SetDefault("KUBERNETES_IN_CLUSTER", false)
	v.SetDefault("KUBERNETES_KUBECONFIG", "")
	v.SetDefault("KUBERNETES_CLUSTER_NAME", "local")
	v.SetDefault("KUBERNETES_PROVIDER", "aws")
	v.SetDefault("KUBERNETES_REGION", "us-east-1")
	v.SetDefault("KUBERNETES_CACHE_TTL", "30s")
	v.SetDefault("DEPLOY_STAGE_TIMEOUT", "2m")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Sizing: SizingConfig{
			URL:     v.GetString("SIZING_URL"),
			Timeout: parseDuration(v, "SIZING_TIMEOUT", 30*time.Second),
			Retries: v.GetInt("SIZING_RETRIES"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DATABASE_HOST"),
			Port:            v.GetInt("DATABASE_PORT"),
			User:            v.GetString("DATABASE_USER"),
			Password:        v.GetString("DATABASE_PASSWORD"),
			Name:            v.GetString("DATABASE_NAME"),
			SSLMode:         v.GetString("DATABASE_SSL_MODE"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: parseDuration(v, "DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Kubernetes: KubernetesConfig{
			Enabled:        v.GetBool("KUBERNETES_ENABLED"),
			InCluster:      v.GetBool("KUBERNETES_IN_CLUSTER"),
			KubeConfigPath: v.GetString("KUBERNETES_KUBECONFIG"),
			ClusterName:    v.GetString("KUBERNETES_CLUSTER_NAME"),
			Provider:       v.GetString("KUBERNETES_PROVIDER"),
			Region:         v.GetString("KUBERNETES_REGION"),
			CacheTTL:       parseDuration(v, "KUBERNETES_CACHE_TTL", 30*time.Second),
		},
		Deploy: DeployConfig{
			StageTimeout: parseDuration(v, "DEPLOY_STAGE_TIMEOUT", 2*time.Minute),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}
