package config

import "strings"

type StoreKind string

const (
	FileStoreKind      StoreKind = "file"
	EncryptedStoreKind StoreKind = "encrypted"
	RedisStoreKind     StoreKind = "redis"
)

type StoreConfig interface {
	GetStoreKind() StoreKind
	GetCredentialsFile() string
	GetCredentialsPassphrase() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisKey() string
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetStoreKind() StoreKind {
	return StoreKind(strings.ToLower(GetEnv("CREDENTIALS_STORE", string(FileStoreKind))))
}

func (Store) GetCredentialsFile() string {
	return GetEnv("CREDENTIALS_FILE", "credentials.json")
}

func (Store) GetCredentialsPassphrase() string {
	return GetEnv("CREDENTIALS_PASSPHRASE", "")
}

func (Store) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Store) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Store) GetRedisKey() string {
	return GetEnv("REDIS_KEY", "identity:credentials")
}
