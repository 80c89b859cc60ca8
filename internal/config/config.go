package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// FileName is the JSON config file looked up in the config directory.
const FileName = "racing_game.cfg.json"

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds settings for the local SQLite session store.
// An empty Path keeps the database in memory; DumpPath then receives a copy
// at the end of every session.
type SQLiteConfig struct {
	Path     string `json:"path" mapstructure:"path"`
	DumpPath string `json:"dumpPath" mapstructure:"dumpPath"`
}

// DBConfig holds Postgres connection settings
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// StorageConfig selects and configures the session recording backend
type StorageConfig struct {
	Type      string       `json:"type" mapstructure:"type"`
	BatchSize int          `json:"batchSize" mapstructure:"batchSize"`
	Memory    MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite    SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
	Postgres  DBConfig     `json:"db" mapstructure:"db"`
}

// InfluxConfig holds InfluxDB drive-telemetry settings
type InfluxConfig struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	Protocol   string `json:"protocol" mapstructure:"protocol"`
	Host       string `json:"host" mapstructure:"host"`
	Port       string `json:"port" mapstructure:"port"`
	Token      string `json:"token" mapstructure:"token"`
	Org        string `json:"org" mapstructure:"org"`
	Bucket     string `json:"bucket" mapstructure:"bucket"`
	BackupPath string `json:"backupPath" mapstructure:"backupPath"`
}

// SetDefaults registers default values for every known key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./racinglogs")
	viper.SetDefault("logToFile", false)

	viper.SetDefault("assets.scene", "games/racing-demo/assets/track.svdag")

	viper.SetDefault("vehicle.engineForce", 0.5)
	viper.SetDefault("vehicle.brakeForce", 1.0)
	viper.SetDefault("vehicle.maxSpeed", 1.0)
	viper.SetDefault("vehicle.drag", 2.0)
	viper.SetDefault("vehicle.steerRate", 22.0)
	viper.SetDefault("vehicle.maxCamRoll", 0.25)
	viper.SetDefault("vehicle.rollDamp", 4.0)

	viper.SetDefault("camera.followDistance", 0.35)
	viper.SetDefault("camera.followHeight", 0.25)
	viper.SetDefault("camera.damping", 6.0)

	viper.SetDefault("spawn.modelPath", "games/racing-demo/assets/car.svdag")
	viper.SetDefault("spawn.height", -0.09)
	viper.SetDefault("spawn.scale", 0.02)
	viper.SetDefault("spawn.remoteYaw", 3.14159265)

	viper.SetDefault("input.throttle", "W")
	viper.SetDefault("input.brake", "S")
	viper.SetDefault("input.left", "A")
	viper.SetDefault("input.right", "D")

	viper.SetDefault("telemetry.logInterval", 0.25)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./recordings")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.batchSize", 256)
	viper.SetDefault("storage.sqlite.path", "./racing_sessions.db")
	viper.SetDefault("storage.sqlite.dumpPath", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "racing")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "racing")
	viper.SetDefault("influx.bucket", "drive_telemetry")
	viper.SetDefault("influx.backupPath", "./racinglogs/influx_backup.lp.gz")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. Defaults stay in
// effect when the file cannot be read.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetStorageConfig returns the storage section.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:      viper.GetString("storage.type"),
		BatchSize: viper.GetInt("storage.batchSize"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path:     viper.GetString("storage.sqlite.path"),
			DumpPath: viper.GetString("storage.sqlite.dumpPath"),
		},
		Postgres: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
	}
}

// GetInfluxConfig returns the influx section.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:    viper.GetBool("influx.enabled"),
		Protocol:   viper.GetString("influx.protocol"),
		Host:       viper.GetString("influx.host"),
		Port:       viper.GetString("influx.port"),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		Bucket:     viper.GetString("influx.bucket"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// UnmarshalKey decodes a config section into out.
func UnmarshalKey(key string, out any) error {
	if err := viper.UnmarshalKey(key, out); err != nil {
		return fmt.Errorf("decoding config key %q: %w", key, err)
	}
	return nil
}
