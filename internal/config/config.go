package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Excel  ExcelConfig  `toml:"excel"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir      string `toml:"data_dir"`
	HistoryFile  string `toml:"history_file"`
	HistoryLimit int    `toml:"history_limit"`
	ExportDB     string `toml:"export_db"`
}

// ExcelConfig Excel 导出相关配置
type ExcelConfig struct {
	SheetName       string `toml:"sheet_name"`
	HeaderFill      string `toml:"header_fill"`
	SectionFill     string `toml:"section_fill"`
	DefaultFilename string `toml:"default_filename"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // 终端界面模式下的日志文件（相对数据目录）
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	Found         bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:      "data",
			HistoryFile:  "enrichment_history.json",
			HistoryLimit: 3,
			ExportDB:     "enrichment.db",
		},
		Excel: ExcelConfig{
			SheetName:       "Enrichment",
			HeaderFill:      "FFFF00",
			SectionFill:     "D0F0C0",
			DefaultFilename: "enrichment.xlsx",
		},
		Log: LogConfig{
			Level: "info",
			File:  "enrichment.log",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}
	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 默认配置文件路径：可执行文件同目录下的 config.toml
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从指定路径加载配置（空路径使用 DefaultPath）
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// 配置文件不存在，使用默认配置
			applyEnvOverrides(config, &info)
			return config, info, nil
		}
		return nil, info, err
	}
	info.Found = true
	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	applyEnvOverrides(config, &info)
	return config, info, nil
}

// applyEnvOverrides 环境变量覆盖
func applyEnvOverrides(config *AppConfig, info *LoadConfigInfo) {
	if v := os.Getenv("ENRICHMENT_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("ENRICHMENT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
			info.PortSpecified = true
		}
	}
}

// SaveConfig 保存配置到 path
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveDataDir 数据目录：绝对路径原样返回，相对路径基于可执行文件目录
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir 确保数据目录及 exports 子目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)
	if err := os.MkdirAll(filepath.Join(dataDir, "exports"), 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// GetDataPath 获取数据文件路径
func GetDataPath(config *AppConfig, elem ...string) string {
	return filepath.Join(append([]string{ResolveDataDir(config)}, elem...)...)
}
