package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// Config holds every batchrender setting. Values can come from a JSON file
// via -config; explicitly set flags override the file, and resolve fills in
// whatever is still missing.
type Config struct {
	Project string  `json:"project"`
	Out     string  `json:"out"`
	Format  string  `json:"format"`
	Archive bool    `json:"archive"`
	Workers int     `json:"workers"`
	Scale   float64 `json:"scale"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) resolve() {
	if c.Format == "" {
		c.Format = "png"
	}
	if c.Workers < 1 {
		c.Workers = runtime.NumCPU()
	}
	if c.Scale <= 0 {
		c.Scale = 1.0
	}
	if c.Out == "" {
		if c.Archive {
			c.Out = "mockups.zip"
		} else {
			c.Out = "export"
		}
	}
}
