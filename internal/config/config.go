package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PAGURE"

type Config struct {
	App         App    `mapstructure:"app"`
	DatabaseURL string `mapstructure:"database_url"`
	Retry       Retry  `mapstructure:"retry"`
	Git         Git    `mapstructure:"git"`
	Notify      Notify `mapstructure:"notify"`
}

type App struct {
	Port            string        `mapstructure:"port"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFile         string        `mapstructure:"log_file"`
	MigrationDir    string        `mapstructure:"migration_dir"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

type Retry struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Backoff     string        `mapstructure:"backoff"`
	Base        time.Duration `mapstructure:"base"`
	Factor      float64       `mapstructure:"factor"`
	Max         time.Duration `mapstructure:"max"`
	Jitter      bool          `mapstructure:"jitter"`
}

// Git locates the bare repositories and signs merge commits.
type Git struct {
	ReposDir       string `mapstructure:"repos_dir"`
	CommitterName  string `mapstructure:"committer_name"`
	CommitterEmail string `mapstructure:"committer_email"`
}

type Notify struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Log     bool          `mapstructure:"log"`
	Webhook Webhook       `mapstructure:"webhook"`
	Email   Email         `mapstructure:"email"`
	MQTT    MQTT          `mapstructure:"mqtt"`
	STOMP   STOMP         `mapstructure:"stomp"`
}

type Webhook struct {
	URL    string `mapstructure:"url"`
	Secret string `mapstructure:"secret"`
}

type Email struct {
	Addr     string   `mapstructure:"addr"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
}

type MQTT struct {
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	QoS         byte   `mapstructure:"qos"`
}

type STOMP struct {
	Addr        string `mapstructure:"addr"`
	Login       string `mapstructure:"login"`
	Passcode    string `mapstructure:"passcode"`
	Destination string `mapstructure:"destination"`
}

// Load reads the YAML file at path. A .env file next to the working directory
// is loaded first; PAGURE_* environment variables override file values.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.migration_dir", "migrations")
	v.SetDefault("app.shutdown_timeout", 10*time.Second)
	v.SetDefault("app.request_timeout", 30*time.Second)

	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.backoff", "exponential")
	v.SetDefault("retry.base", 50*time.Millisecond)
	v.SetDefault("retry.factor", 2.0)
	v.SetDefault("retry.max", time.Second)
	v.SetDefault("retry.jitter", true)

	v.SetDefault("git.repos_dir", "repos")
	v.SetDefault("git.committer_name", "Pagure")
	v.SetDefault("git.committer_email", "pagure@localhost")

	v.SetDefault("notify.timeout", 10*time.Second)
	v.SetDefault("notify.log", true)
	v.SetDefault("notify.mqtt.client_id", "pagure")
	v.SetDefault("notify.mqtt.topic_prefix", "pagure")
	v.SetDefault("notify.stomp.destination", "/topic/pagure")
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"app.port",
		"app.log_level",
		"app.log_file",
		"app.migration_dir",
		"database_url",
		"git.repos_dir",
		"notify.webhook.url",
		"notify.webhook.secret",
		"notify.email.password",
		"notify.mqtt.broker",
		"notify.stomp.addr",
		"notify.stomp.passcode",
	}

	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("database_url is required"))
	}
	if c.App.Port == "" {
		errs = append(errs, errors.New("app.port is required"))
	}
	if c.Git.ReposDir == "" {
		errs = append(errs, errors.New("git.repos_dir is required"))
	}
	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, errors.New("retry.max_attempts must be at least 1"))
	}
	if c.Retry.Backoff != "" && c.Retry.Backoff != "exponential" && c.Retry.Backoff != "constant" {
		errs = append(errs, fmt.Errorf("retry.backoff %q is not supported", c.Retry.Backoff))
	}
	if c.Notify.Email.Addr != "" && (c.Notify.Email.From == "" || len(c.Notify.Email.To) == 0) {
		errs = append(errs, errors.New("notify.email needs from and to"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
