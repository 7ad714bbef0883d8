package config

import (
	"flag"
	"os"

	"taskboard/internal/flagx"
	"taskboard/internal/timex"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t string   access token validity, narrow duration format (e.g., "15m")
//	-r string   refresh token validity, narrow duration format (e.g., "30d")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. A TTL value
// outside the <int><unit> format panics, so the process fails at startup
// rather than running with a silently defaulted lifetime.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.String("t", "", "access token validity (e.g. 15m)")
	refreshTokenValidity := fs.String("r", "", "refresh token validity (e.g. 30d)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *accessTokenValidity != "" {
		config.AccessTokenValidityDuration = timex.MustParseDuration(*accessTokenValidity)
	}
	if *refreshTokenValidity != "" {
		config.RefreshTokenValidityDuration = timex.MustParseDuration(*refreshTokenValidity)
	}
}
