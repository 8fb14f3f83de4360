package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix — префикс переменных окружения, например LOGONSESSIONS_OUTPUT_CSVPATH
const EnvPrefix = "LOGONSESSIONS"

// InputConfig — входной файл по умолчанию и маркер заголовка
type InputConfig struct {
	DefaultFile  string `mapstructure:"DefaultFile"`
	HeaderMarker string `mapstructure:"HeaderMarker"`
}

// FilterConfig — отсев служебных учётных записей
type FilterConfig struct {
	MaxUserLength int      `mapstructure:"MaxUserLength"`
	Sentinel      string   `mapstructure:"Sentinel"`
	Blocklist     []string `mapstructure:"Blocklist"`
}

// OutputConfig — куда пишется итоговая таблица
type OutputConfig struct {
	CSVPath string `mapstructure:"CSVPath"`
}

// ClickHouseConfig содержит настройки выгрузки сессий в ClickHouse.
// Выгрузка необязательна, при Enabled обязательны Address, Database и Table.
type ClickHouseConfig struct {
	Enabled  bool   `mapstructure:"Enabled"`
	Address  string `mapstructure:"Address"`
	Username string `mapstructure:"Username"`
	Password string `mapstructure:"Password"`
	Database string `mapstructure:"Database"`
	Table    string `mapstructure:"Table"`
	Protocol string `mapstructure:"Protocol"` // "native" или "http"
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Host     string `mapstructure:"Host"`
	Port     int    `mapstructure:"Port"`
	DB       int    `mapstructure:"DB"`
	Password string `mapstructure:"Password"`
	Key      string `mapstructure:"Key"`
}

// LoggingConfig содержит настройки логирования и интеграции с Sentry
type LoggingConfig struct {
	Level        string `mapstructure:"Level"`        // debug, info, warn, error
	LogFile      string `mapstructure:"LogFile"`      // путь к файлу логов
	SentryDSN    string `mapstructure:"SentryDSN"`    // DSN для Sentry
	EnableSentry bool   `mapstructure:"EnableSentry"` // включить отправку ошибок в Sentry
}

// Config описывает настройки утилиты.
// Все поля имеют значения по умолчанию, файл конфигурации необязателен.
type Config struct {
	Input            InputConfig  `mapstructure:"Input"`
	Filter           FilterConfig `mapstructure:"Filter"`
	LongSessionHours int          `mapstructure:"LongSessionHours"`
	Output           OutputConfig `mapstructure:"Output"`

	Watch           bool `mapstructure:"Watch"`
	WatchDebounceMs int  `mapstructure:"WatchDebounceMs"`

	BatchSize        int              `mapstructure:"BatchSize"`
	ClickHouse       ClickHouseConfig `mapstructure:"ClickHouse"`
	ProcessedStorage string           `mapstructure:"ProcessedStorage"` // "file" или "redis"
	ProcessedFile    string           `mapstructure:"ProcessedFile"`
	Redis            RedisConfig      `mapstructure:"Redis"`
	Logging          LoggingConfig    `mapstructure:"Logging"`
}

// NewViper создаёт viper со значениями по умолчанию и чтением окружения
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("Input.DefaultFile", "22-03-22 BTLab Event Log raw data.txt")
	v.SetDefault("Input.HeaderMarker", "TimeGenerated")
	v.SetDefault("Filter.MaxUserLength", 8)
	v.SetDefault("Filter.Sentinel", "-")
	v.SetDefault("Filter.Blocklist", []string{"DWM-", "UMFD-", "USER"})
	v.SetDefault("LongSessionHours", 24)
	v.SetDefault("Output.CSVPath", "output.csv")
	v.SetDefault("Watch", false)
	v.SetDefault("WatchDebounceMs", 500)
	v.SetDefault("BatchSize", 1000)
	v.SetDefault("ClickHouse.Enabled", false)
	v.SetDefault("ClickHouse.Address", "")
	v.SetDefault("ClickHouse.Username", "")
	v.SetDefault("ClickHouse.Password", "")
	v.SetDefault("ClickHouse.Database", "")
	v.SetDefault("ClickHouse.Protocol", "native")
	v.SetDefault("ClickHouse.Table", "logon_sessions")
	v.SetDefault("ProcessedStorage", "file")
	v.SetDefault("ProcessedFile", "exported_sessions.json")
	v.SetDefault("Redis.Host", "localhost")
	v.SetDefault("Redis.Port", 6379)
	v.SetDefault("Redis.DB", 0)
	v.SetDefault("Redis.Password", "")
	v.SetDefault("Redis.Key", "logonsessions:exported")
	v.SetDefault("Logging.Level", "info")
	v.SetDefault("Logging.LogFile", "")
	v.SetDefault("Logging.SentryDSN", "")
	v.SetDefault("Logging.EnableSentry", false)
	// AutomaticEnv видит только известные viper ключи,
	// поэтому каждый ключ Config должен иметь значение по умолчанию
	return v
}

// LoadConfig читает конфиг из YAML-файла по указанному пути поверх значений по умолчанию.
// Шаги:
// 1. Чтение сырого файла (если его нет и он не обязателен — только значения по умолчанию)
// 2. Очистка данных: удаление BOM, замена табуляций
// 3. Разбор YAML в viper и раскладка в Config
// 4. Валидация
func LoadConfig(v *viper.Viper, path string, required bool) (*Config, error) {
	// 1. Чтение
	if path != "" {
		raw, err := readFile(path)
		switch {
		case err == nil:
			// 2. Очистка
			sanitized := sanitize(raw)
			// 3. Разбор
			if err := v.ReadConfig(bytes.NewReader(sanitized)); err != nil {
				return nil, fmt.Errorf("parse yaml: %w", err)
			}
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 4. Валидация
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// readFile читает все байты из файла по пути
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// sanitize удаляет BOM и табуляции
func sanitize(data []byte) []byte {
	// Удаляем UTF-8 BOM
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	// Заменяем табы на два пробела
	data = bytes.ReplaceAll(data, []byte("\t"), []byte("  "))
	return data
}

// Validate проверяет обязательные поля конфигурации
func (c *Config) Validate() error {
	if c.Input.HeaderMarker == "" {
		return fmt.Errorf("Input.HeaderMarker must not be empty")
	}
	if c.Filter.MaxUserLength <= 0 {
		return fmt.Errorf("Filter.MaxUserLength must be positive")
	}
	if c.LongSessionHours <= 0 {
		return fmt.Errorf("LongSessionHours must be positive")
	}
	if c.Output.CSVPath == "" {
		return fmt.Errorf("Output.CSVPath must not be empty")
	}
	if c.WatchDebounceMs < 0 {
		return fmt.Errorf("WatchDebounceMs must not be negative")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("BatchSize must be positive")
	}
	if c.ClickHouse.Enabled {
		if c.ClickHouse.Address == "" {
			return fmt.Errorf("ClickHouse.Address must not be empty")
		}
		if c.ClickHouse.Database == "" {
			return fmt.Errorf("ClickHouse.Database must not be empty")
		}
		if c.ClickHouse.Table == "" {
			return fmt.Errorf("ClickHouse.Table must not be empty")
		}
		switch c.ProcessedStorage {
		case "file":
			if c.ProcessedFile == "" {
				return fmt.Errorf("ProcessedFile must not be empty")
			}
		case "redis":
			if c.Redis.Host == "" || c.Redis.Port <= 0 {
				return fmt.Errorf("Redis.Host and Redis.Port must be set")
			}
		default:
			return fmt.Errorf("ProcessedStorage must be \"file\" or \"redis\", got %q", c.ProcessedStorage)
		}
	}
	return nil
}
