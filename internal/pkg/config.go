// Package pkg 实现 skylark 工程配置的读写
package pkg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName 配置文件名
const ConfigFileName = "skylark.toml"

// Config 工程配置
type Config struct {
	Package PackageInfo  `toml:"package"`
	Parser  ParserConfig `toml:"parser"`
}

// PackageInfo 包信息
type PackageInfo struct {
	// Name 包名
	Name string `toml:"name"`

	// Version 版本号（遵循语义化版本，如 1.0.0）
	Version string `toml:"version"`
}

// ParserConfig 解析相关配置
type ParserConfig struct {
	// Language 错误信息语言: en / zh
	Language string `toml:"language"`

	// MaxFileSize 语言服务器愿意解析的最大文件字节数，
	// 超过的文件跳过诊断。0 表示使用默认值。
	MaxFileSize int `toml:"max_file_size"`
}

// DefaultMaxFileSize 默认的最大文件字节数 (500KB)
const DefaultMaxFileSize = 500 * 1024

// DefaultConfig 生成默认配置
func DefaultConfig() *Config {
	return &Config{
		Package: PackageInfo{
			Name:    "unnamed",
			Version: "0.1.0",
		},
		Parser: ParserConfig{
			Language:    "en",
			MaxFileSize: DefaultMaxFileSize,
		},
	}
}

// LoadConfig 从文件加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Parser.MaxFileSize <= 0 {
		config.Parser.MaxFileSize = DefaultMaxFileSize
	}

	return config, nil
}

// Save 保存配置到文件
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// FindConfig 从 dir 逐级向上查找 skylark.toml
//
// 找不到时返回默认配置，不视为错误；找到但解析失败才报错。
func FindConfig(dir string) (*Config, error) {
	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return DefaultConfig(), nil
		}
		dir = parent
	}
}
