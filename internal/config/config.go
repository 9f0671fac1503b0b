package config

import (
	"fmt"
	"log"
	"sync"
	"time"
	_ "time/tzdata" // scratch images ship without zoneinfo

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string `yaml:"env" env:"ENV" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env-default:""`
		AdminId int64  `yaml:"admin_id" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"VisitBotAlerts"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	Message struct {
		Prefix         string `yaml:"prefix" env:"MESSAGE_PREFIX" env-default:"."`
		MinAppointment int64  `yaml:"min_appointment" env-default:"3000"`
		Timezone       string `yaml:"timezone" env-default:"Asia/Jakarta"`
	} `yaml:"message"`
	WhatsApp struct {
		BaseURL       string `yaml:"base_url" env:"WHATSAPP_URL" env-default:"http://127.0.0.1:3000"`
		Token         string `yaml:"token" env:"WHATSAPP_TOKEN" env-default:""`
		DeviceID      string `yaml:"device_id" env:"WHATSAPP_DEVICE_ID" env-default:""`
		WebhookSecret string `yaml:"webhook_secret" env:"WHATSAPP_WEBHOOK_SECRET" env-default:""`
	} `yaml:"whatsapp"`
	Session struct {
		Backend string        `yaml:"backend" env:"SESSION_BACKEND" env-default:"memory"`
		TTL     time.Duration `yaml:"ttl" env-default:"0s"`
	} `yaml:"session"`
	Redis struct {
		URL string `yaml:"url" env:"REDIS_URL" env-default:"redis://127.0.0.1:6379/0"`
	} `yaml:"redis"`
	Mongo struct {
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:""`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
		Database string `yaml:"database" env-default:"tagihan"`
	} `yaml:"mongo"`
	Reminder struct {
		Enabled bool   `yaml:"enabled" env-default:"true"`
		At      string `yaml:"at" env-default:"07:30"`
	} `yaml:"reminder"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"9100"`
		ApiKey string `yaml:"key" env:"API_KEY" env-default:""`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	once.Do(func() {
		conf, err := Load(path)
		if err != nil {
			log.Fatal(err)
		}
		instance = conf
	})
	return instance
}

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	conf := &Config{}
	if err := cleanenv.ReadConfig(path, conf); err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return nil, fmt.Errorf("%s; %s", err, desc)
	}
	if _, err := conf.Location(); err != nil {
		return nil, err
	}
	if _, _, err := conf.ReminderClock(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Location resolves message.timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Message.Timezone)
	if err != nil {
		return nil, fmt.Errorf("message.timezone %q: %w", c.Message.Timezone, err)
	}
	return loc, nil
}

// ReminderClock parses reminder.at as HH:MM.
func (c *Config) ReminderClock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", c.Reminder.At)
	if err != nil {
		return 0, 0, fmt.Errorf("reminder.at %q: %w", c.Reminder.At, err)
	}
	return t.Hour(), t.Minute(), nil
}
