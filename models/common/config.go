package common

import (
	"fmt"
	"os"

	"github.com/op/go-logging"
	"github.com/spf13/viper"

	"github.com/qrpstudio/media-services/constants"
	"github.com/qrpstudio/media-services/util"
)

type Config struct {
	BaseURL        string
	ConfigName     string
	DBPath         string
	LogDir         string
	LogLevel       logging.Level
	MediaPrefix    string
	MediaRoot      string
	NsqLookupd     string
	NsqURL         string
	RedisDefaultDB int
	RedisPassword  string
	RedisURL       string
	S3Bucket       string
	S3Credentials  S3Credentials
	StorageType    string
}

// S3Credentials hold connection info for the optional S3 media store.
type S3Credentials struct {
	Host      string
	KeyID     string
	SecretKey string
}

var logLevels = map[string]logging.Level{
	"CRITICAL": logging.CRITICAL,
	"ERROR":    logging.ERROR,
	"WARNING":  logging.WARNING,
	"NOTICE":   logging.NOTICE,
	"INFO":     logging.INFO,
	"DEBUG":    logging.DEBUG,
}

// NewConfig returns a new config based on ENV var QRP_SERVICES_CONFIG.
func NewConfig() *Config {
	config := loadConfig()
	config.expandPaths()
	config.sanityCheck()
	config.makeDirs()
	return config
}

func loadConfig() *Config {
	configDir, envName := getEnvVars()
	v := viper.New()
	v.AddConfigPath(configDir)
	v.SetConfigName(".env." + envName)
	v.SetConfigType("env")
	err := v.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("Fatal error config file: %s \n", err))
	}
	return &Config{
		BaseURL:        v.GetString("BASE_URL"),
		ConfigName:     envName,
		DBPath:         v.GetString("DB_PATH"),
		LogDir:         v.GetString("LOG_DIR"),
		LogLevel:       logLevels[v.GetString("LOG_LEVEL")],
		MediaPrefix:    v.GetString("MEDIA_PREFIX"),
		MediaRoot:      v.GetString("MEDIA_ROOT"),
		NsqLookupd:     v.GetString("NSQ_LOOKUPD"),
		NsqURL:         v.GetString("NSQ_URL"),
		RedisDefaultDB: v.GetInt("REDIS_DEFAULT_DB"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisURL:       v.GetString("REDIS_URL"),
		S3Bucket:       v.GetString("S3_BUCKET"),
		S3Credentials: S3Credentials{
			Host:      v.GetString("S3_HOST"),
			KeyID:     v.GetString("S3_KEY"),
			SecretKey: v.GetString("S3_SECRET"),
		},
		StorageType: v.GetString("STORAGE_TYPE"),
	}
}

func getEnvVars() (string, string) {
	configDir := getRequiredEnvVar("QRP_CONFIG_DIR")
	envName := getRequiredEnvVar("QRP_SERVICES_CONFIG")
	return configDir, envName
}

func getRequiredEnvVar(varName string) string {
	value := os.Getenv(varName)
	if value == "" {
		panic(fmt.Sprintf("Required env var %s not set", varName))
	}
	return value
}

// Expand ~ to home dir in path settings.
func (c *Config) expandPaths() {
	c.LogDir = expandPath(c.LogDir)
	c.MediaRoot = expandPath(c.MediaRoot)
	if c.DBPath != "" && c.DBPath != ":memory:" {
		c.DBPath = expandPath(c.DBPath)
	}
}

func expandPath(dirName string) string {
	dir, err := util.ExpandTilde(dirName)
	if err != nil {
		panic(err)
	}
	return dir
}

func (c *Config) sanityCheck() {
	if c.MediaRoot == "" {
		panic("Config is missing MEDIA_ROOT")
	}
	if c.StorageType != constants.StorageTypeLocal && c.StorageType != constants.StorageTypeS3 {
		panic(fmt.Sprintf("Unknown STORAGE_TYPE %s", c.StorageType))
	}
	if c.StorageType == constants.StorageTypeS3 && c.S3Bucket == "" {
		panic("STORAGE_TYPE is S3 but S3_BUCKET is not set")
	}
}

func (c *Config) makeDirs() {
	dirs := []string{
		c.LogDir,
		c.MediaRoot,
	}
	for _, dir := range dirs {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			panic(err)
		}
	}
}
