package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/flagx"
	"github.com/dmitrijs2005/surveykeeper/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "5s" and integer nanoseconds, and
// pointers for optional limit overrides so absent keys leave the defaults
// untouched.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	CaptchaEndpoint             string         `json:"captcha_endpoint"`
	CaptchaSiteKey              string         `json:"captcha_site_key"`
	CaptchaSecret               string         `json:"captcha_secret"`
	CaptchaTimeout              timex.Duration `json:"captcha_timeout"`
	GeoIPEndpoint               string         `json:"geoip_endpoint"`
	GeoIPKey                    string         `json:"geoip_key"`
	GeoIPTimeout                timex.Duration `json:"geoip_timeout"`
	ProxyFailClosed             *bool          `json:"proxy_fail_closed"`
	TrustForwardedHeaders       *bool          `json:"trust_forwarded_headers"`

	MaxQuestions  *int   `json:"max_questions"`
	MaxChoices    *int   `json:"max_choices"`
	MinTimeCost   *int   `json:"kdf_min_time_cost"`
	MaxTimeCost   *int   `json:"kdf_max_time_cost"`
	MinMemoryCost *int64 `json:"kdf_min_memory_cost"`
	MaxMemoryCost *int64 `json:"kdf_max_memory_cost"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
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

	err = json.Unmarshal(file, c)
	if err != nil {
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
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.CaptchaEndpoint != "" {
		config.CaptchaEndpoint = c.CaptchaEndpoint
	}
	if c.CaptchaSiteKey != "" {
		config.CaptchaSiteKey = c.CaptchaSiteKey
	}
	if c.CaptchaSecret != "" {
		config.CaptchaSecret = c.CaptchaSecret
	}
	if c.CaptchaTimeout.Duration != 0 {
		config.CaptchaTimeout = time.Duration(c.CaptchaTimeout.Duration)
	}
	if c.GeoIPEndpoint != "" {
		config.GeoIPEndpoint = c.GeoIPEndpoint
	}
	if c.GeoIPKey != "" {
		config.GeoIPKey = c.GeoIPKey
	}
	if c.GeoIPTimeout.Duration != 0 {
		config.GeoIPTimeout = time.Duration(c.GeoIPTimeout.Duration)
	}
	if c.ProxyFailClosed != nil {
		config.ProxyFailClosed = *c.ProxyFailClosed
	}
	if c.TrustForwardedHeaders != nil {
		config.TrustForwardedHeaders = *c.TrustForwardedHeaders
	}

	if c.MaxQuestions != nil {
		config.Limits.MaxQuestions = *c.MaxQuestions
	}
	if c.MaxChoices != nil {
		config.Limits.MaxChoices = *c.MaxChoices
	}
	if c.MinTimeCost != nil {
		config.Limits.MinTimeCost = *c.MinTimeCost
	}
	if c.MaxTimeCost != nil {
		config.Limits.MaxTimeCost = *c.MaxTimeCost
	}
	if c.MinMemoryCost != nil {
		config.Limits.MinMemoryCost = *c.MinMemoryCost
	}
	if c.MaxMemoryCost != nil {
		config.Limits.MaxMemoryCost = *c.MaxMemoryCost
	}
}
