package config

type Config interface {
	EnvConfig
	IdentityConfig
	StoreConfig
}

type EnvConfig interface {
	GetAppName() string
	GetLogLevel() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Identity
	Store
}

func New() Config {
	return mainConfig{}
}
