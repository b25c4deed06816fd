package util

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const Name = "miniverse"
const ConfigFileName = "config.yaml"

//go:embed config_default.yaml
var embeddedConfig []byte

type AppConfig struct {
	Conf struct {
		ApiBaseUrl         string `yaml:"apiBaseUrl"`
		RequestTimeoutSecs int    `yaml:"requestTimeoutSecs"`
		PageSize           int    `yaml:"pageSize"`
		CapsuleRefreshSecs int    `yaml:"capsuleRefreshSecs"`
		SshEnabled         bool   `yaml:"sshEnabled"`
		SshHost            string `yaml:"sshHost"`
		SshPort            int    `yaml:"sshPort"`
		ShareEnabled       bool   `yaml:"shareEnabled"`
		SharePort          int    `yaml:"sharePort"`
		WithJournald       bool   `yaml:"withJournald"`
	}
}

func ReadConf() (*AppConfig, error) {

	c := &AppConfig{}

	// Try to resolve config file path (local first, then user dir)
	configPath := ResolveFilePath(ConfigFileName)

	var buf []byte
	var err error

	buf, err = os.ReadFile(configPath)
	if err != nil {
		// If file doesn't exist, use embedded config and create user config file
		log.Printf("Config file not found at %s, using embedded defaults", configPath)
		buf = embeddedConfig

		configDir, dirErr := GetConfigDir()
		if dirErr == nil {
			userConfigPath := filepath.Join(configDir, ConfigFileName)
			writeErr := os.WriteFile(userConfigPath, embeddedConfig, 0644)
			if writeErr != nil {
				log.Printf("Warning: could not write default config to %s: %v", userConfigPath, writeErr)
			} else {
				log.Printf("Created default config file at %s", userConfigPath)
			}
		}
	}

	err = yaml.Unmarshal(buf, c)
	if err != nil {
		return nil, fmt.Errorf("in config file: %w", err)
	}

	envApiBaseUrl := os.Getenv("MINIVERSE_API_BASE_URL")
	envTimeout := os.Getenv("MINIVERSE_REQUEST_TIMEOUT_SECS")
	envPageSize := os.Getenv("MINIVERSE_PAGE_SIZE")
	envCapsuleRefresh := os.Getenv("MINIVERSE_CAPSULE_REFRESH_SECS")
	envSshEnabled := os.Getenv("MINIVERSE_SSH_ENABLED")
	envSshHost := os.Getenv("MINIVERSE_SSH_HOST")
	envSshPort := os.Getenv("MINIVERSE_SSH_PORT")
	envShareEnabled := os.Getenv("MINIVERSE_SHARE_ENABLED")
	envSharePort := os.Getenv("MINIVERSE_SHARE_PORT")
	envWithJournald := os.Getenv("MINIVERSE_WITH_JOURNALD")

	if envApiBaseUrl != "" {
		c.Conf.ApiBaseUrl = envApiBaseUrl
	}

	if envTimeout != "" {
		v, err := strconv.Atoi(envTimeout)
		if err != nil {
			log.Printf("Error parsing MINIVERSE_REQUEST_TIMEOUT_SECS: %v", err)
		} else {
			c.Conf.RequestTimeoutSecs = v
		}
	}

	if envPageSize != "" {
		v, err := strconv.Atoi(envPageSize)
		if err != nil {
			log.Printf("Error parsing MINIVERSE_PAGE_SIZE: %v", err)
		} else {
			c.Conf.PageSize = v
		}
	}

	if envCapsuleRefresh != "" {
		v, err := strconv.Atoi(envCapsuleRefresh)
		if err != nil {
			log.Printf("Error parsing MINIVERSE_CAPSULE_REFRESH_SECS: %v", err)
		} else {
			c.Conf.CapsuleRefreshSecs = v
		}
	}

	if envSshEnabled == "true" {
		c.Conf.SshEnabled = true
	}

	if envSshHost != "" {
		c.Conf.SshHost = envSshHost
	}

	if envSshPort != "" {
		v, err := strconv.Atoi(envSshPort)
		if err != nil {
			log.Printf("Error parsing MINIVERSE_SSH_PORT: %v", err)
		} else {
			c.Conf.SshPort = v
		}
	}

	if envShareEnabled == "true" {
		c.Conf.ShareEnabled = true
	}

	if envSharePort != "" {
		v, err := strconv.Atoi(envSharePort)
		if err != nil {
			log.Printf("Error parsing MINIVERSE_SHARE_PORT: %v", err)
		} else {
			c.Conf.SharePort = v
		}
	}

	if envWithJournald == "true" {
		c.Conf.WithJournald = true
	}

	// Defaults for anything still unset
	if c.Conf.ApiBaseUrl == "" {
		c.Conf.ApiBaseUrl = "http://localhost:8080/api"
	}
	if c.Conf.RequestTimeoutSecs <= 0 {
		c.Conf.RequestTimeoutSecs = 20
	}
	if c.Conf.PageSize <= 0 {
		c.Conf.PageSize = 9
	} else if c.Conf.PageSize > 50 {
		log.Printf("pageSize %d exceeds maximum of 50, capping at 50", c.Conf.PageSize)
		c.Conf.PageSize = 50
	}
	if c.Conf.CapsuleRefreshSecs <= 0 {
		c.Conf.CapsuleRefreshSecs = 30
	}
	if c.Conf.SshHost == "" {
		c.Conf.SshHost = "localhost"
	}
	if c.Conf.SshPort == 0 {
		c.Conf.SshPort = 23234
	}
	if c.Conf.SharePort == 0 {
		c.Conf.SharePort = 8990
	}

	return c, nil
}
