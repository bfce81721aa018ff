// Package config provides configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/rosterdesk/internal/colors"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	// EnvPrefix is the prefix of environment variables read as config keys.
	EnvPrefix = "ROSTERDESK_"

	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--)
	FileModeFile os.FileMode = 0644

	// FileExtTOML is the extension of the configuration file.
	FileExtTOML = ".toml"

	// DefaultEnvFile is the dotenv file read from the working directory.
	DefaultEnvFile = ".env"
)

var (
	config    map[string]string
	configMap map[string]string
	mu        sync.RWMutex
)

func init() {
	initValidators()
}

// Load initializes configuration.
//
// Precedence, lowest first: defaults, the dotenv file, the environment, the
// TOML file, the environment again so it always wins over the file.
func Load() {
	mu.Lock()
	defer mu.Unlock()

	config = make(map[string]string)
	configMap = make(map[string]string)

	setDefaults()
	loadFromDotenv()
	loadFromEnv()
	loadFromFile()
	loadFromEnv()
	validate()
	createSampleConfig()
}

// reset clears the loaded configuration.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	config = nil
	configMap = nil
}

func setDefaults() {
	home, _ := os.UserHomeDir()
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(home, ".config")
	}
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		xdgStateHome = filepath.Join(home, ".local", "state")
	}

	configDir := filepath.Join(xdgConfigHome, "rosterdesk")
	stateDir := filepath.Join(xdgStateHome, "rosterdesk")

	setDefault("config_dir", configDir)
	setDefault("state_dir", stateDir)
	setDefault("backend", "sqlite")
	setDefault("api_url", "http://127.0.0.1:8080/api")
	setDefault("api_token", "")
	setDefault("db_path", filepath.Join(stateDir, "rosterdesk.db"))
	setDefault("viewer_id", "1")
	setDefault("request_timeout", "10s")
	setDefault("http_retries", "3")
	setDefault("recent_activity_limit", "20")
	setDefault("listen_addr", "127.0.0.1:8080")
	setDefault("logging_enabled", "false")
	setDefault("logging_level", "info")
	setDefault("logging_max_files", "10")
	setDefault("debug", "false")
	setDefault("quiet", "false")
}

func setDefault(key, value string) {
	config[key] = value
	configMap[key] = value
}

// loadFromDotenv merges ROSTERDESK_ entries of the dotenv file. The process
// environment is left untouched.
func loadFromDotenv() {
	path := os.Getenv(EnvPrefix + "ENV_FILE")
	if path == "" {
		path = DefaultEnvFile
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !os.IsNotExist(err) {
			colors.Debug(fmt.Sprintf("unable to read env file %s: %v", path, err))
		}
		return
	}
	for name, value := range values {
		if key, ok := envKey(name); ok {
			config[key] = value
		}
	}
}

func loadFromEnv() {
	for _, env := range os.Environ() {
		name, value, found := strings.Cut(env, "=")
		if !found {
			continue
		}
		if key, ok := envKey(name); ok {
			config[key] = value
		}
	}
}

// envKey maps ROSTERDESK_API_URL to api_url.
func envKey(name string) (string, bool) {
	if !strings.HasPrefix(name, EnvPrefix) {
		return "", false
	}
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	switch key {
	case "", "config_path", "env_file":
		return "", false
	}
	return key, true
}

// Path returns the configuration file in effect.
func Path() string {
	if p := os.Getenv(EnvPrefix + "CONFIG_PATH"); p != "" {
		return p
	}
	return filepath.Join(Get("config_dir", ""), "config"+FileExtTOML)
}

func loadFromFile() {
	configPath := os.Getenv(EnvPrefix + "CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join(config["config_dir"], "config"+FileExtTOML)
		if _, err := os.Stat(configPath); err != nil {
			return
		}
	}
	if strings.ToLower(filepath.Ext(configPath)) != FileExtTOML {
		colors.Warning(fmt.Sprintf("unsupported config file format: %s", configPath))
		return
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		colors.Debug(fmt.Sprintf("unable to read config file %s: %v", configPath, err))
		return
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse config file %s: %v", configPath, err))
		return
	}
	for k, v := range raw {
		key := strings.ToLower(k)
		converted, ok := coerceConfigValue(v)
		if !ok {
			colors.Warning(fmt.Sprintf("unsupported config value type for %s: %T", key, v))
			continue
		}
		config[key] = converted
	}
}

// coerceConfigValue converts a decoded TOML value to its string form.
func coerceConfigValue(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case int:
		return strconv.Itoa(typed), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

func validate() {
	for key, value := range config {
		validator := getValidator(key)
		if validator == nil {
			continue
		}
		defaultValue := configMap[key]
		normalized, err := validator(key, value, defaultValue)
		if err != nil {
			colors.Warning(fmt.Sprintf("validation error for %s: %v, using default: %s", key, err, defaultValue))
			config[key] = defaultValue
			continue
		}
		config[key] = normalized
	}
}

// typedValue converts a string setting to the TOML type it reads best as.
func typedValue(val string) any {
	if n, err := strconv.Atoi(val); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return val
}

// createSampleConfig writes the defaults to config.toml when no file exists.
func createSampleConfig() {
	configDir := config["config_dir"]
	if configDir == "" || os.Getenv(EnvPrefix+"CONFIG_PATH") != "" {
		return
	}
	samplePath := filepath.Join(configDir, "config"+FileExtTOML)
	if _, err := os.Stat(samplePath); err == nil {
		return
	}
	if err := os.MkdirAll(configDir, FileModeDir); err != nil {
		colors.Debug(fmt.Sprintf("unable to create config dir %s: %v", configDir, err))
		return
	}

	typed := make(map[string]any, len(configMap))
	for k, v := range configMap {
		if k == "api_token" {
			continue
		}
		typed[k] = typedValue(v)
	}
	data, err := toml.Marshal(typed)
	if err != nil {
		colors.Warning(fmt.Sprintf("unable to marshal sample config: %v", err))
		return
	}
	header := "# rosterdesk configuration\n# This file is in TOML format.\n# Environment variables (ROSTERDESK_<KEY>) override these values.\n\n"
	if err := os.WriteFile(samplePath, append([]byte(header), data...), FileModeFile); err != nil {
		colors.Warning(fmt.Sprintf("unable to write sample config to %s: %v", samplePath, err))
	}
}

// Set overrides a key after Load, running its validator. Command line flags
// use it.
func Set(key, value string) {
	mu.Lock()
	defer mu.Unlock()
	if config == nil {
		config = make(map[string]string)
		configMap = make(map[string]string)
	}
	if v := getValidator(key); v != nil {
		normalized, err := v(key, value, configMap[key])
		if err != nil {
			return
		}
		value = normalized
	}
	config[key] = value
}

// Get returns a configuration value or default.
func Get(key, defaultValue string) string {
	mu.RLock()
	defer mu.RUnlock()
	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

// GetInt returns a configuration value as integer, or default.
func GetInt(key string, defaultValue int) int {
	mu.RLock()
	defer mu.RUnlock()
	val, ok := config[key]
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return n
}

// GetBool returns a configuration value as boolean, or default.
func GetBool(key string, defaultValue bool) bool {
	mu.RLock()
	defer mu.RUnlock()
	val, ok := config[key]
	if !ok {
		return defaultValue
	}
	switch normalizeBool(val) {
	case "true":
		return true
	case "false":
		return false
	default:
		return defaultValue
	}
}

// GetDuration returns a configuration value as a duration, or default.
func GetDuration(key string, defaultValue time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	val, ok := config[key]
	if !ok || val == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}
	return d
}
