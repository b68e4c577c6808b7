/*
Copyright 2026 Treasury Go Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_BASE_URL    = "https://app.moderntreasury.com"
	DEFAULT_TIMEOUT_SEC = 30
)

var ConfigStore atomic.Value

type RateLimitConfig struct {
	RequestsPerSecond *float64 `json:"requests_per_second" envconfig:"TREASURY_RATE_LIMIT_RPS"`
	Burst             *int     `json:"burst" envconfig:"TREASURY_RATE_LIMIT_BURST"`
}

type Configuration struct {
	OrganizationID string          `json:"organization_id" envconfig:"TREASURY_ORGANIZATION_ID"`
	APIKey         string          `json:"api_key" envconfig:"TREASURY_API_KEY"`
	BaseURL        string          `json:"base_url" envconfig:"TREASURY_BASE_URL"`
	TimeoutSec     int             `json:"timeout_sec" envconfig:"TREASURY_TIMEOUT_SEC"`
	LiveMode       bool            `json:"live_mode" envconfig:"TREASURY_LIVE_MODE"`
	RateLimit      RateLimitConfig `json:"rate_limit"`
}

// InitConfig loads configuration from environment variables and stores it in
// the process-wide config store.
func InitConfig() error {
	logger()
	var cnf Configuration
	err := envconfig.Process("treasury", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return nil
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded. Call config.InitConfig or set TREASURY_* env variables ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	cnf.OrganizationID = strings.TrimSpace(cnf.OrganizationID)
	cnf.APIKey = strings.TrimSpace(cnf.APIKey)
	cnf.BaseURL = strings.TrimSpace(cnf.BaseURL)

	if cnf.OrganizationID == "" {
		log.Println("Error: Organization ID is empty. It's a required field.")
		return errors.New("organization ID is required")
	}

	if cnf.APIKey == "" {
		log.Println("Error: API key is empty. It's a required field.")
		return errors.New("API key is required")
	}

	if cnf.BaseURL == "" {
		cnf.BaseURL = DEFAULT_BASE_URL
		log.Printf("Warning: Base URL not specified in config. Setting default: %s", DEFAULT_BASE_URL)
	}

	if cnf.TimeoutSec == 0 {
		cnf.TimeoutSec = DEFAULT_TIMEOUT_SEC
	}

	// Rate limiting is disabled when both RPS and Burst are nil
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
