package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	defaultConfigRelPath = "configs/conf.yml"
	envPrefix            = "RACETRACK"
)

// ErrConfigNotFound 表示显式指定的配置文件不存在。
var ErrConfigNotFound = errors.New("config file not exist")

// Load 读取配置：
// 1) 传入 cfgName（相对/绝对路径）则必须存在；
// 2) 否则从当前目录向上查找 `configs/conf.yml`，找不到时只用默认值 + 环境变量；
// 3) 环境变量 RACETRACK_<SECTION>_<KEY> 覆盖文件，例如 RACETRACK_MONGODB_URI。
//
// onChange 非空时监听配置文件变更，回调拿到的是重新解析后的完整配置。
func Load(cfgName string, onChange func(Config)) (Config, error) {
	path, err := resolvePath(cfgName)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v.SetDefault)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if path != "" && onChange != nil {
		v.OnConfigChange(func(e fsnotify.Event) {
			var next Config
			if err := v.Unmarshal(&next); err != nil {
				return
			}
			onChange(next)
		})
		v.WatchConfig()
	}
	return conf, nil
}

func resolvePath(cfgName string) (string, error) {
	if cfgName != "" {
		p := cfgName
		if !filepath.IsAbs(p) {
			curDir, err := os.Getwd()
			if err != nil {
				return "", err
			}
			p = filepath.Join(curDir, p)
		}
		if !fileExist(p) {
			return "", fmt.Errorf("%w, configPath=%v", ErrConfigNotFound, p)
		}
		return p, nil
	}
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findConfigUpward(curDir), nil
}

func findConfigUpward(startDir string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
