package config

import "strings"

const (
	DefaultIdentityEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts"
	DefaultTokenEndpoint    = "https://securetoken.googleapis.com/v1/token"
)

type IdentityConfig interface {
	GetAPIKey() string
	GetProjectID() string
	GetIdentityEndpoint() string
	GetTokenEndpoint() string
	GetEmulatorHost() string
}

type Identity struct{}

var _ IdentityConfig = Identity{}

func (Identity) GetAPIKey() string {
	return GetEnv("FIREBASE_API_KEY", "")
}

// GetProjectID is the audience expected in verified ID tokens
func (Identity) GetProjectID() string {
	return GetEnv("FIREBASE_PROJECT_ID", "")
}

// GetIdentityEndpoint returns the accounts root that operations are appended to as ":{op}"
func (i Identity) GetIdentityEndpoint() string {
	if host := i.GetEmulatorHost(); host != "" {
		return "http://" + host + "/identitytoolkit.googleapis.com/v1/accounts"
	}
	return strings.TrimRight(GetEnv("IDENTITY_ENDPOINT", DefaultIdentityEndpoint), "/")
}

func (i Identity) GetTokenEndpoint() string {
	if host := i.GetEmulatorHost(); host != "" {
		return "http://" + host + "/securetoken.googleapis.com/v1/token"
	}
	return GetEnv("TOKEN_ENDPOINT", DefaultTokenEndpoint)
}

// GetEmulatorHost returns host:port of a local Auth emulator, e.g. "localhost:9099"
func (Identity) GetEmulatorHost() string {
	return GetEnv("AUTH_EMULATOR_HOST", "")
}
