package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/go-arcade/roleadmin/internal/engine/service"
	"github.com/go-arcade/roleadmin/pkg/cache"
	"github.com/go-arcade/roleadmin/pkg/database"
	"github.com/go-arcade/roleadmin/pkg/http"
	"github.com/go-arcade/roleadmin/pkg/log"
	"github.com/go-arcade/roleadmin/pkg/metrics"
	"github.com/go-arcade/roleadmin/pkg/pprof"
	"github.com/go-arcade/roleadmin/pkg/trace"
)

const envPrefix = "ROLEADMIN"

type AppConfig struct {
	Log      log.Conf
	Http     http.Http
	Database database.Database
	Redis    cache.Redis
	Metrics  metrics.MetricsConfig
	Role     service.RoleConfig
	Pprof    pprof.PprofConfig
	Trace    trace.TraceConfig
}

var (
	cfg  *AppConfig
	once sync.Once
)

func NewConf(confDir string) *AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confDir)
		if err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
	})
	return cfg
}

// LoadConfigFile load config file
// Environment variables override file values, e.g. ROLEADMIN_DATABASE_TYPE.
// Only the log level is applied on hot reload.
func LoadConfigFile(confDir string) (*AppConfig, error) {
	config := viper.New()
	config.SetConfigFile(confDir) //文件名
	config.SetConfigType("toml")
	config.SetEnvPrefix(envPrefix)
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()
	bindEnvs(config)

	if err := config.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %v", err)
	}

	appConf := &AppConfig{}
	if err := config.Unmarshal(appConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration file: %v", err)
	}

	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("The configuration changes, re -analyze the configuration file: %s", e.Name)
		var next AppConfig
		if err := config.Unmarshal(&next); err != nil {
			log.Errorw("failed to unmarshal configuration file", "error", err)
			return
		}
		if next.Log.Level != "" && next.Log.Level != log.GetLevel().String() {
			log.SetLevel(next.Log.Level)
			log.Infow("log level changed", "level", next.Log.Level)
		}
	})
	config.WatchConfig()

	log.Infow("config file loaded",
		"path", confDir,
	)

	return appConf, nil
}

// bindEnvs registers the keys that may come only from the environment so
// Unmarshal sees them.
func bindEnvs(v *viper.Viper) {
	for _, key := range []string{
		"log.level",
		"http.host",
		"http.port",
		"database.type",
		"database.sqlite.path",
		"database.mysql.host",
		"database.mysql.port",
		"database.mysql.user",
		"database.mysql.password",
		"database.mysql.dbname",
		"redis.mode",
		"redis.address",
		"redis.password",
		"trace.enabled",
		"trace.endpoint",
	} {
		_ = v.BindEnv(key)
	}
}
