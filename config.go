package entitystore

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/go-arrower/entitystore/alog"
)

// Config is a structure used for the store's configuration.
// It is intended to be mapped by viper.
type Config struct {
	ApplicationName string `mapstructure:"application_name"`

	Environment Environment `mapstructure:"environment"`

	Log   Log   `mapstructure:"log"`
	Trace Trace `mapstructure:"trace"`
	Seed  Seed  `mapstructure:"seed"`
	Store Store `mapstructure:"store"`
}

const (
	LocalEnv       Environment = "local"
	TestEnv        Environment = "test"
	DevelopmentEnv Environment = "dev"
	ProductionEnv  Environment = "prod"
)

// Environments is the list of all supported environments.
func Environments() []Environment {
	return []Environment{LocalEnv, TestEnv, DevelopmentEnv, ProductionEnv}
}

type Environment string

type (
	Log struct {
		Level string `mapstructure:"level" json:"level"`
	}

	// Trace configures the export of spans to an OTLP collector via gRPC.
	// Without an Endpoint spans are only used to correlate logs.
	Trace struct {
		Endpoint string `mapstructure:"endpoint" json:"endpoint"`
		Insecure bool   `mapstructure:"insecure" json:"insecure"`
	}

	// Seed controls the placeholder data a new store is populated with.
	Seed struct {
		// Random is the seed of the generator. 0 generates different data on every start.
		Random       int64 `mapstructure:"random"        json:"random"`
		Users        int   `mapstructure:"users"         json:"users"`
		Posts        int   `mapstructure:"posts"         json:"posts"`
		News         int   `mapstructure:"news"          json:"news"`
		ForumThreads int   `mapstructure:"forum_threads" json:"forumThreads"`
	}

	Store struct {
		Validate bool `mapstructure:"validate" json:"validate"`
	}
)

// DefaultViper returns a new viper instance with all default values
// from Config set. Every key can be overwritten with an environment variable
// prefixed by ENTITYSTORE, e.g. ENTITYSTORE_SEED_USERS.
func DefaultViper() *Viper {
	vip := viper.New()

	vip.SetEnvPrefix("entitystore")
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AutomaticEnv()

	vip.SetDefault("application_name", "entitystore")

	vip.SetDefault("environment", "local")

	vip.SetDefault("log.level", "info")

	vip.SetDefault("trace.endpoint", "")
	vip.SetDefault("trace.insecure", false)

	vip.SetDefault("seed.random", 0)
	vip.SetDefault("seed.users", 36)
	vip.SetDefault("seed.posts", 100)
	vip.SetDefault("seed.news", 100)
	vip.SetDefault("seed.forum_threads", 10)

	vip.SetDefault("store.validate", false)

	return &Viper{Viper: vip}
}

var (
	errConfigLoadFailed = errors.New("loading configuration failed")
	errNegativeSeed     = errors.New("seed counts must not be negative")
)

func (s Seed) validate() error {
	if s.Users < 0 || s.Posts < 0 || s.News < 0 || s.ForumThreads < 0 {
		return errNegativeSeed
	}

	return nil
}

// Viper is a wrapper around viper.Viper for configuration loading.
// The only purpose is to overwrite the Unmarshal method,
// so that the values of Config are checked while decoding and the
// developer does not have to think about it when using DefaultViper.
type Viper struct {
	*viper.Viper
}

func (vip *Viper) Unmarshal(rawVal any, _ ...viper.DecoderConfigOption) error {
	err := vip.Viper.Unmarshal(rawVal, viper.DecodeHook(allowedEnvironmentHookFunc()))
	if err != nil {
		return fmt.Errorf("%w: could not decode configuration into struct: %v", errConfigLoadFailed, err)
	}

	config := embeddedConfig(rawVal)
	if config == nil {
		return nil
	}

	if _, err := alog.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", errConfigLoadFailed, err)
	}

	if err := config.Seed.validate(); err != nil {
		return fmt.Errorf("%w: %v", errConfigLoadFailed, err)
	}

	return nil
}

// embeddedConfig returns rawVal as Config, or the Config embedded in rawVal's struct.
func embeddedConfig(rawVal any) *Config {
	if config, ok := rawVal.(*Config); ok {
		return config
	}

	val := reflect.Indirect(reflect.ValueOf(rawVal))
	if val.Kind() != reflect.Struct {
		return nil
	}

	for i := range val.NumField() {
		field := val.Field(i)
		if field.Type() == reflect.TypeOf(Config{}) && field.CanAddr() {
			config, _ := field.Addr().Interface().(*Config)
			return config
		}
	}

	return nil
}

func allowedEnvironmentHookFunc() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(Environment("")) {
			return data, nil
		}

		env := Environments()
		if s, ok := data.(string); ok && slices.Contains(env, Environment(s)) {
			return data, nil
		}

		e := make([]string, 0, len(env))
		for _, env := range env {
			e = append(e, string(env))
		}

		return data, fmt.Errorf("value is not allowed, use one of: %s", strings.Join(e, ", ")) //nolint:err113 // accept dynamic error
	}
}
