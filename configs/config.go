package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Rabbit struct {
		URL            string `koanf:"url"`
		OrderPaidQueue string `koanf:"order_paid_queue"`
	} `koanf:"rabbitmq"`

	Kafka struct {
		Brokers       []string `koanf:"brokers"`
		GroupID       string   `koanf:"group_id"`
		TrackingTopic string   `koanf:"tracking_topic"`
	} `koanf:"kafka"`

	Pricing struct {
		Currency string `koanf:"currency"`
		VATRate  string `koanf:"vat_rate"`
	} `koanf:"pricing"`

	Payment struct {
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"payment"`

	Security struct {
		JWTSecret string        `koanf:"jwt_secret"`
		Issuer    string        `koanf:"issuer"`
		Audience  string        `koanf:"audience"`
		TTL       time.Duration `koanf:"ttl"`
	} `koanf:"security"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix BASKIT_, nested with __)
	// e.g. BASKIT_MYSQL__DSN, BASKIT_REDIS__PASSWORD
	if err := k.Load(env.Provider("BASKIT_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "BASKIT_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn required")
	}
	if c.Rabbit.URL == "" || c.Rabbit.OrderPaidQueue == "" {
		return fmt.Errorf("rabbitmq.url and rabbitmq.order_paid_queue required")
	}
	if _, err := c.VATRate(); err != nil {
		return err
	}
	return nil
}

// VATRate parses the configured rate as a decimal (e.g. "0.19").
func (c Config) VATRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.Pricing.VATRate)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("pricing.vat_rate: %w", err)
	}
	return rate, nil
}
