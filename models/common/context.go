package common

import (
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/op/go-logging"

	"github.com/qrpstudio/media-services/constants"
	"github.com/qrpstudio/media-services/network"
	"github.com/qrpstudio/media-services/records"
	"github.com/qrpstudio/media-services/storage"
	"github.com/qrpstudio/media-services/util/logger"
)

// Context carries config settings and the clients every service needs:
// the storage backend, the record database, Redis, and NSQ.
type Context struct {
	Config      *Config
	Logger      *logging.Logger
	NSQClient   *network.NSQClient
	RecordDB    *records.DB
	RedisClient *network.RedisClient
	Store       storage.Store
}

func NewContext() *Context {
	config := NewConfig()
	_logger := getLogger(config)
	return &Context{
		Config:      config,
		Logger:      _logger,
		NSQClient:   network.NewNSQClient(config.NsqURL),
		RecordDB:    getRecordDB(config),
		RedisClient: getRedisClient(config),
		Store:       getStore(config),
	}
}

func getLogger(config *Config) *logging.Logger {
	log, _ := logger.InitLogger(config.LogDir, config.LogLevel)
	return log
}

func getRedisClient(config *Config) *network.RedisClient {
	return network.NewRedisClient(
		config.RedisURL,
		config.RedisPassword,
		config.RedisDefaultDB)
}

func getRecordDB(config *Config) *records.DB {
	db, err := records.Open(config.DBPath)
	if err != nil {
		panic(fmt.Sprintf("Could not open record database: %v", err))
	}
	return db
}

func getStore(config *Config) storage.Store {
	if config.StorageType == constants.StorageTypeS3 {
		useSSL := config.ConfigName != "dev" && config.ConfigName != "test"
		client, err := minio.New(
			config.S3Credentials.Host,
			&minio.Options{
				Creds:  credentials.NewStaticV4(config.S3Credentials.KeyID, config.S3Credentials.SecretKey, ""),
				Secure: useSSL,
			})
		if err != nil {
			panic(err)
		}
		return storage.NewS3Store(client, config.S3Bucket)
	}
	store, err := storage.NewFSStore(config.MediaRoot)
	if err != nil {
		panic(err)
	}
	return store
}
