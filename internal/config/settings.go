// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
)

// Defaults.
const (
	DefaultAPIURL      = "http://localhost:8080/api"
	DefaultTimeout     = 10 * time.Second
	DefaultCacheWindow = 30 * time.Second
)

// Env vars read by Resolve.
const (
	APIURLEnv = "FINTRACK_API_URL"
	CacheEnv  = "FINTRACK_CACHE"
)

// Settings are the client knobs after config file, env and flags have been
// applied.
type Settings struct {
	APIURL       string
	Timeout      time.Duration
	CacheWindow  time.Duration
	CacheEnabled bool
}

// ValidationError reports one bad setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Resolve builds Settings from the config file and env, falling back to the
// defaults. Flags are applied on top by the caller.
func Resolve() Settings {
	s := Settings{
		APIURL:       DefaultAPIURL,
		Timeout:      DefaultTimeout,
		CacheWindow:  DefaultCacheWindow,
		CacheEnabled: true,
	}

	if v, err := GetString("api.url"); err == nil && v != "" {
		s.APIURL = v
	}
	if v := os.Getenv(APIURLEnv); v != "" {
		s.APIURL = v
	}
	if v, err := GetDuration("api.timeout"); err == nil {
		s.Timeout = v
	}
	if v, err := GetDuration("cache.window"); err == nil {
		s.CacheWindow = v
	}
	if v, err := GetBool("cache.enabled"); err == nil {
		s.CacheEnabled = v
	}
	if !CacheEnabledFromEnv() {
		s.CacheEnabled = false
	}

	return s
}

// CacheEnabledFromEnv is true unless FINTRACK_CACHE is "0" or "false".
func CacheEnabledFromEnv() bool {
	v := os.Getenv(CacheEnv)
	return v != "0" && v != "false"
}

// Validate checks every field and joins what it finds.
func (s Settings) Validate() error {
	var errs []error

	if u, err := url.Parse(s.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, &ValidationError{Field: "api url", Message: fmt.Sprintf("%q is not an http(s) URL", s.APIURL)})
	}
	if s.Timeout <= 0 {
		errs = append(errs, &ValidationError{Field: "timeout", Message: "must be positive"})
	}
	if s.CacheWindow <= 0 {
		errs = append(errs, &ValidationError{Field: "cache window", Message: "must be positive"})
	}

	return errors.Join(errs...)
}
