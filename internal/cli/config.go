package cli

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
)

// Config is the optional config.toml. Flags override every field.
//
//	font_dirs = ["~/fonts"]
//
//	[cache]
//	dir = "/var/cache/canvasrender"
//	ttl = "72h"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[render]
//	format = "jpg"
//	quality = 85
type Config struct {
	FontDirs []string     `toml:"font_dirs"`
	Cache    CacheConfig  `toml:"cache"`
	Server   ServerConfig `toml:"server"`
	Render   RenderConfig `toml:"render"`
}

type CacheConfig struct {
	Dir       string        `toml:"dir"`
	TTL       time.Duration `toml:"ttl"`
	RedisAddr string        `toml:"redis_addr"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type RenderConfig struct {
	Format  string `toml:"format"`
	Quality int    `toml:"quality"`
}

// configPath returns $XDG_CONFIG_HOME/canvasrender/config.toml.
func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// loadConfig reads path. With an empty path the default location is used and
// a missing file yields an empty config; an explicit path must exist.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return &Config{}, nil
		}
		path = p
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeNotFound, err, "config %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	for i, dir := range cfg.FontDirs {
		cfg.FontDirs[i] = expandHome(dir)
	}
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	return &cfg, nil
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
