// Package config loads the optional newsroom.yaml settings file. Values from the file
// only fill flags that were not set on the command line or through the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// File mirrors the command-line flags that may be configured from YAML.
type File struct {
	DatabaseURL     string `yaml:"database_url"`
	EventBus        string `yaml:"event_bus"`
	ReleaseSchedule string `yaml:"release_schedule"`
	Port            int    `yaml:"port"`
	InboxCapacity   int    `yaml:"inbox_capacity"`
	KafkaBrokers    string `yaml:"kafka_brokers"`
	LogLevel        string `yaml:"log_level"`
}

// Load reads and parses a settings file. Unknown keys are rejected.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

func Parse(data []byte) (File, error) {
	var file File

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if file.Port < 0 || file.InboxCapacity < 0 {
		return File{}, errors.New("port and inbox_capacity must not be negative")
	}

	return file, nil
}

// Values returns the configured settings keyed by flag name. Empty settings are omitted.
func (f File) Values() map[string]string {
	values := make(map[string]string)

	set := func(name, value string) {
		if value != "" {
			values[name] = value
		}
	}

	set("database-url", f.DatabaseURL)
	set("event-bus", f.EventBus)
	set("release-schedule", f.ReleaseSchedule)
	set("kafka-brokers", f.KafkaBrokers)
	set("log-level", f.LogLevel)

	if f.Port > 0 {
		values["port"] = strconv.Itoa(f.Port)
	}

	if f.InboxCapacity > 0 {
		values["inbox-capacity"] = strconv.Itoa(f.InboxCapacity)
	}

	return values
}
