// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

// Package seed loads example rosters from YAML files and applies them
// through the regular registration and character services, so seeded
// data obeys the same validation and uniqueness rules as live traffic.
package seed

import (
	_ "embed"
	"os"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

//go:embed examples.yaml
var defaultSeedYAML []byte

// File is the top-level structure of a seed file.
type File struct {
	Users []User `yaml:"users" json:"users" jsonschema:"required"`
}

// User describes one account to seed with its characters.
type User struct {
	Username   string      `yaml:"username" json:"username" jsonschema:"required,minLength=3,maxLength=50"`
	Email      string      `yaml:"email" json:"email" jsonschema:"required,format=email"`
	Password   string      `yaml:"password" json:"password" jsonschema:"required,minLength=8"`
	Characters []Character `yaml:"characters,omitempty" json:"characters,omitempty"`
}

// Character describes one character and its inventory.
type Character struct {
	Name  string `yaml:"name" json:"name" jsonschema:"required,minLength=1"`
	Class string `yaml:"class" json:"class" jsonschema:"required,minLength=1"`
	Level int    `yaml:"level,omitempty" json:"level,omitempty" jsonschema:"minimum=1"`
	Items []Item `yaml:"items,omitempty" json:"items,omitempty"`
}

// Item describes one inventory item.
type Item struct {
	Name        string `yaml:"name" json:"name" jsonschema:"required,minLength=1"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Type        string `yaml:"type,omitempty" json:"type,omitempty"`
}

// Default returns the bundled example roster.
func Default() (*File, error) {
	return parse(defaultSeedYAML)
}

// Load reads and validates a seed file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Code("SEED_LOAD_FAILED").
			With("path", path).
			Wrap(err)
	}
	return parse(data)
}

func parse(data []byte) (*File, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, oops.Code("SEED_INVALID").
			With("operation", "unmarshal seed file").
			Wrap(err)
	}
	return &file, nil
}
