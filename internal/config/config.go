package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Listen struct {
	BindIp string `yaml:"bind_ip" env-default:"0.0.0.0"`
	Port   string `yaml:"port" env-default:"8080"`
}

// AuthConfig is the single static credential pair of the organizer
type AuthConfig struct {
	Username string `yaml:"username" env-default:"admin"`
	Password string `yaml:"password" env-default:"admin123"`
}

// StorageConfig selects the snapshot backend: file, mongo, mysql or memory
type StorageConfig struct {
	Driver string `yaml:"driver" env-default:"file"`
	Path   string `yaml:"path" env-default:"data"`
}

type MongoConfig struct {
	Enabled  bool   `yaml:"enabled" env-default:"false"`
	Host     string `yaml:"host" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env-default:"27017"`
	User     string `yaml:"user" env-default:""`
	Password string `yaml:"password" env-default:""`
	Database string `yaml:"database" env-default:"checkin"`
}

type MySQLConfig struct {
	Enabled  bool   `yaml:"enabled" env-default:"false"`
	HostName string `yaml:"hostname" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env-default:"3306"`
	UserName string `yaml:"username" env-default:""`
	Password string `yaml:"password" env-default:""`
	Database string `yaml:"database" env-default:"checkin"`
}

type QRConfig struct {
	Size int `yaml:"size" env-default:"256"`
}

// ScannerConfig points at a line-oriented scanner device (keyboard-wedge
// reader or a named pipe); empty disables live scanning
type ScannerConfig struct {
	Device string `yaml:"device" env-default:""`
}

type TelegramConfig struct {
	Enabled  bool    `yaml:"enabled" env-default:"false"`
	ApiKey   string  `yaml:"api_key" env-default:""`
	AdminIds []int64 `yaml:"admin_ids"`
	LogLevel string  `yaml:"log_level" env-default:"error"`
}

type Config struct {
	Env      string         `yaml:"env" env-default:"local"`
	Listen   Listen         `yaml:"listen"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Mongo    MongoConfig    `yaml:"mongo"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	QR       QRConfig       `yaml:"qr"`
	Scanner  ScannerConfig  `yaml:"scanner"`
	Telegram TelegramConfig `yaml:"telegram"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance, err = Load(path)
		if err != nil {
			log.Fatal(err)
		}
	})
	return instance
}

// Load reads the yaml file at path, applying env-default values
// for anything the file leaves out
func Load(path string) (*Config, error) {
	conf := &Config{}
	if err := cleanenv.ReadConfig(path, conf); err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return nil, fmt.Errorf("config: %s; %s", err, desc)
	}
	return conf, nil
}
