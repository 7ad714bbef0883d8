package config

import (
	"encoding/json"
	"os"

	"taskboard/internal/flagx"
	"taskboard/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Duration fields are strings in the narrow timex format and are
// converted when copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr                 string `json:"endpoint_addr"`
	DatabaseDSN                  string `json:"database_dsn"`
	SecretKey                    string `json:"secret_key"`
	AccessTokenValidityDuration  string `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration string `json:"refresh_token_validity_duration"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded.
//
// An unreadable file, invalid JSON, or a malformed duration string panics:
// configuration problems must stop startup.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration != "" {
		config.AccessTokenValidityDuration = timex.MustParseDuration(c.AccessTokenValidityDuration)
	}
	if c.RefreshTokenValidityDuration != "" {
		config.RefreshTokenValidityDuration = timex.MustParseDuration(c.RefreshTokenValidityDuration)
	}
}
