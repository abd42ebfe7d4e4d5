// Package config предоставляет структуры и функции для парсинга и загрузки конфига member-gate.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gosimple/slug"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/magabrotheeeer/member-gate/internal/models"
)

// Допустимые значения драйверов и транспортов.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"

	SessionMemory = "memory"
	SessionRedis  = "redis"

	MailLog  = "log"
	MailSMTP = "smtp"
	MailAMQP = "amqp"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env             string          `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer      HTTPServer      `yaml:"http_server"`
	Gate            Gate            `yaml:"gate"`
	Site            Site            `yaml:"site"`
	Storage         Storage         `yaml:"storage"`
	Session         Session         `yaml:"session"`
	RedisConnection RedisConnection `yaml:"redis_connection"`
	SMTP            SMTP            `yaml:"smtp"`
	RabbitMQ        RabbitMQ        `yaml:"rabbitmq"`
	Mail            Mail            `yaml:"mail"`
	Admin           Admin           `yaml:"admin"`
	Hooks           Hooks           `yaml:"hooks"`
	Upstream        Upstream        `yaml:"upstream"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Gate хранит настройки шлюза доступа.
// Enable и AllowRegistration — указатели, чтобы явное false в файле не подменялось значением по умолчанию.
type Gate struct {
	Enable            *bool  `yaml:"enable"`
	AllowRegistration *bool  `yaml:"allow_registration"`
	LoginPageSlug     string `yaml:"login_page_slug" env:"GATE_LOGIN_SLUG" env-default:"member-login"`
	RegisterPageSlug  string `yaml:"register_page_slug" env:"GATE_REGISTER_SLUG" env-default:"member-register"`
	LogoutPageSlug    string `yaml:"logout_page_slug" env:"GATE_LOGOUT_SLUG" env-default:"member-logout"`
	RequiredDomain    string `yaml:"required_domain" env:"GATE_REQUIRED_DOMAIN" env-default:"afripoli.org"`
}

// Site описывает сайт, который защищает шлюз.
type Site struct {
	Title  string `yaml:"title" env:"SITE_TITLE" env-default:"Members"`
	Domain string `yaml:"domain" env:"SITE_DOMAIN" env-default:"localhost"`
}

// Storage структура для настройки хранилища участников.
type Storage struct {
	Driver         string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"file"`
	MembersFile    string `yaml:"members_file" env:"MEMBERS_FILE" env-default:"./data/members.json"`
	DSN            string `yaml:"dsn" env:"STORAGE_DSN"`
	MigrationsPath string `yaml:"migrations_path" env-default:"./migrations"`
}

// Session структура для настройки сессий посетителей.
type Session struct {
	Driver     string        `yaml:"driver" env:"SESSION_DRIVER" env-default:"memory"`
	CookieName string        `yaml:"cookie_name" env-default:"member_session"`
	TTL        time.Duration `yaml:"ttl" env-default:"24h"`
	Secure     bool          `yaml:"secure" env:"SESSION_SECURE"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	Address     string        `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	User        string        `yaml:"user"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
	Timeout     time.Duration `yaml:"timeout"`
}

// SMTP структура для настройки почтового сервера.
type SMTP struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User     string `yaml:"user" env:"SMTP_USER"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
}

// RabbitMQ структура для подключения к брокеру.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	MaxRetries int           `yaml:"max_retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// Mail настраивает рассылку уведомлений.
type Mail struct {
	Transport         string  `yaml:"transport" env:"MAIL_TRANSPORT" env-default:"log"`
	SendRate          float64 `yaml:"send_rate"` // писем в секунду, 0 — без ограничения
	NotifyOnEveryEdit *bool   `yaml:"notify_on_every_edit"`
}

// Admin описывает cookie администратора хоста.
type Admin struct {
	CookieName string        `yaml:"cookie_name" env-default:"admin_token"`
	JWTSecret  string        `yaml:"jwt_secret" env:"ADMIN_JWT_SECRET"`
	TokenTTL   time.Duration `yaml:"token_ttl" env-default:"12h"`
}

// Hooks содержит общий секрет для вызовов хуков хостом.
type Hooks struct {
	Token string `yaml:"token" env:"HOOKS_TOKEN"`
}

// Upstream — адрес сайта с контентом.
type Upstream struct {
	URL string `yaml:"url" env:"UPSTREAM_URL" env-default:"http://localhost:8081"`
}

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH.
// Перед чтением подхватывает .env, если он есть.
func MustLoad() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("cannot read .env: %s", err)
	}
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает и проверяет конфиг из файла.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	slugs := map[string]string{
		"login_page_slug":    c.Gate.LoginPageSlug,
		"register_page_slug": c.Gate.RegisterPageSlug,
		"logout_page_slug":   c.Gate.LogoutPageSlug,
	}
	seen := make(map[string]string, len(slugs))
	for key, s := range slugs {
		if !slug.IsSlug(s) {
			return fmt.Errorf("gate.%s: %q is not a valid slug", key, s)
		}
		if other, ok := seen[s]; ok {
			return fmt.Errorf("gate.%s and gate.%s must differ", key, other)
		}
		seen[s] = key
	}

	switch c.Storage.Driver {
	case StorageFile:
		if c.Storage.MembersFile == "" {
			return errors.New("storage.members_file is required for file driver")
		}
	case StoragePostgres:
		if c.Storage.DSN == "" {
			return errors.New("storage.dsn is required for postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	switch c.Session.Driver {
	case SessionMemory, SessionRedis:
	default:
		return fmt.Errorf("unknown session.driver %q", c.Session.Driver)
	}

	switch c.Mail.Transport {
	case MailLog:
	case MailSMTP:
		if c.SMTP.Host == "" {
			return errors.New("smtp.host is required for smtp transport")
		}
	case MailAMQP:
		if c.RabbitMQ.URL == "" {
			return errors.New("rabbitmq.url is required for amqp transport")
		}
	default:
		return fmt.Errorf("unknown mail.transport %q", c.Mail.Transport)
	}
	if c.Mail.SendRate < 0 {
		return errors.New("mail.send_rate must not be negative")
	}
	return nil
}

// GateConfig возвращает снимок настроек шлюза.
func (c *Config) GateConfig() models.GateConfig {
	return models.GateConfig{
		Enable:            boolOr(c.Gate.Enable, true),
		AllowRegistration: boolOr(c.Gate.AllowRegistration, true),
		LoginSlug:         c.Gate.LoginPageSlug,
		RegisterSlug:      c.Gate.RegisterPageSlug,
		LogoutSlug:        c.Gate.LogoutPageSlug,
		RequiredDomain:    c.Gate.RequiredDomain,
	}
}

// NotifyOnEveryEdit сообщает, нужно ли рассылать письма при каждом сохранении опубликованной страницы.
func (c *Config) NotifyOnEveryEdit() bool {
	return boolOr(c.Mail.NotifyOnEveryEdit, true)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Gate: %+v\n"+
			"Storage:\n"+
			"  Driver: %s\n"+
			"  MembersFile: %s\n"+
			"Session:\n"+
			"  Driver: %s\n"+
			"  TTL: %s\n"+
			"Mail:\n"+
			"  Transport: %s\n"+
			"  SendRate: %g\n"+
			"Upstream: %s\n",
		c.Env,
		c.HTTPServer.Address,
		c.HTTPServer.Timeout,
		c.HTTPServer.IdleTimeout,
		c.GateConfig(),
		c.Storage.Driver,
		c.Storage.MembersFile,
		c.Session.Driver,
		c.Session.TTL,
		c.Mail.Transport,
		c.Mail.SendRate,
		c.Upstream.URL,
	)
}
