package repo

import (
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

type Duration time.Duration

func (d *Duration) MarshalText() (text []byte, err error) {
	return []byte(time.Duration(*d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	x, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(x)
	return nil
}

func StringToTimeDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(
		f reflect.Type,
		t reflect.Type,
		data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(Duration(5)) {
			return data, nil
		}

		d, err := time.ParseDuration(data.(string))
		if err != nil {
			return nil, err
		}
		return Duration(d), nil
	}
}

func (d *Duration) ToDuration() time.Duration {
	return time.Duration(*d)
}

func (d *Duration) String() string {
	return time.Duration(*d).String()
}

type Config struct {
	Ulimit  uint64  `mapstructure:"ulimit" toml:"ulimit"`
	Port    Port    `mapstructure:"port" toml:"port"`
	API     API     `mapstructure:"api" toml:"api"`
	Storage Storage `mapstructure:"storage" toml:"storage"`
	Monitor Monitor `mapstructure:"monitor" toml:"monitor"`
	Log     Log     `mapstructure:"log" toml:"log"`
}

type Port struct {
	API     int64 `mapstructure:"api" toml:"api"`
	Monitor int64 `mapstructure:"monitor" toml:"monitor"`
}

type API struct {
	ReadTimeout  Duration `mapstructure:"read_timeout" toml:"read_timeout"`
	WriteTimeout Duration `mapstructure:"write_timeout" toml:"write_timeout"`
	AllowOrigins []string `mapstructure:"allow_origins" toml:"allow_origins"`
}

type Storage struct {
	KvType      string `mapstructure:"kv_type" toml:"kv_type"`
	KvCacheSize int    `mapstructure:"kv_cache_size" toml:"kv_cache_size"`
	Sync        bool   `mapstructure:"sync" toml:"sync"`
}

type Monitor struct {
	Enable bool `mapstructure:"enable" toml:"enable"`
}

type Log struct {
	Level            string    `mapstructure:"level" toml:"level"`
	ReportCaller     bool      `mapstructure:"report_caller" toml:"report_caller"`
	EnableColor      bool      `mapstructure:"enable_color" toml:"enable_color"`
	DisableTimestamp bool      `mapstructure:"disable_timestamp" toml:"disable_timestamp"`
	Module           LogModule `mapstructure:"module" toml:"module"`
}

type LogModule struct {
	App     string `mapstructure:"app" toml:"app"`
	API     string `mapstructure:"api" toml:"api"`
	Storage string `mapstructure:"storage" toml:"storage"`
	Asset   string `mapstructure:"asset" toml:"asset"`
}

func DefaultConfig() *Config {
	return &Config{
		Ulimit: 65535,
		Port: Port{
			API:     8881,
			Monitor: 40011,
		},
		API: API{
			ReadTimeout:  Duration(10 * time.Second),
			WriteTimeout: Duration(10 * time.Second),
			AllowOrigins: []string{"*"},
		},
		Storage: Storage{
			KvType:      KVStorageTypeLeveldb,
			KvCacheSize: KVStorageCacheSize,
			Sync:        KVStorageSync,
		},
		Monitor: Monitor{
			Enable: true,
		},
		Log: Log{
			Level: "info",
			Module: LogModule{
				App:     "info",
				API:     "info",
				Storage: "info",
				Asset:   "info",
			},
		},
	}
}
