package config

import (
	"os"
	"sync"

	"gearbook/logutils"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Postgres struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		DBName   string `yaml:"dbname"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		SSLMode  string `yaml:"sslmode"`
		TimeZone string `yaml:"TimeZone"`
		// Lock wait bound for the confirm transaction, e.g. "5s".
		// Exceeding it surfaces as a retryable busy error.
		LockTimeout string `yaml:"lockTimeout"`
	} `yaml:"postgres"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Auth struct {
		TokenSecret     string `yaml:"tokenSecret"`
		TokenExpiryHour int    `yaml:"tokenExpiryHour"`
		AdminEmail      string `yaml:"adminEmail"`
		AdminPassword   string `yaml:"adminPassword"`
	} `yaml:"auth"`
}

var (
	once   sync.Once
	config *Config
)

func GetConfig() *Config {
	once.Do(func() {
		config = initConfig()
	})
	return config
}

// initConfig reads the configuration file from ./etc/config.yaml, or from
// GEARBOOK_CONFIG when set. It panics on a missing or malformed file since
// nothing can run without the database settings.
func initConfig() *Config {
	config := &Config{}
	configPath := "./etc/config.yaml"
	if p := os.Getenv("GEARBOOK_CONFIG"); p != "" {
		configPath = p
	}

	err := readConfig(configPath, config)
	if err != nil {
		logutils.Log.Error("init config", err)
		panic(err)
	}
	if config.Server.Port == "" {
		config.Server.Port = "3000"
	}
	if config.Auth.TokenExpiryHour == 0 {
		config.Auth.TokenExpiryHour = 8
	}
	return config
}

func readConfig(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return err
	}
	return nil
}
