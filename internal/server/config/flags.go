package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-m string   captcha verifier endpoint
//	-k string   captcha site key
//	-p string   captcha secret
//	-g string   GeoIP/proxy lookup endpoint
//	-i string   GeoIP lookup API key
//	-x          fail closed on unknown network origin for proxy-blocked surveys
//	-f          trust X-Forwarded-For from a reverse proxy in front
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration flags
// are accepted as integers in minutes and then converted to time.Duration.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-m", "-k", "-p", "-g", "-i", "-x", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.StringVar(&config.CaptchaEndpoint, "m", config.CaptchaEndpoint, "captcha verifier endpoint")
	fs.StringVar(&config.CaptchaSiteKey, "k", config.CaptchaSiteKey, "captcha site key")
	fs.StringVar(&config.CaptchaSecret, "p", config.CaptchaSecret, "captcha secret")
	fs.StringVar(&config.GeoIPEndpoint, "g", config.GeoIPEndpoint, "geoip lookup endpoint")
	fs.StringVar(&config.GeoIPKey, "i", config.GeoIPKey, "geoip lookup api key")
	fs.BoolVar(&config.ProxyFailClosed, "x", config.ProxyFailClosed, "fail closed on unknown network origin")
	fs.BoolVar(&config.TrustForwardedHeaders, "f", config.TrustForwardedHeaders, "trust forwarded headers from a reverse proxy")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
}
