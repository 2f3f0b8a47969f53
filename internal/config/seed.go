package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed is the optional bootstrap file applied at startup.
type Seed struct {
	SchoolName string      `yaml:"school_name"`
	Notice     string      `yaml:"notice"`
	Admins     []SeedAdmin `yaml:"admins"`
}

type SeedAdmin struct {
	Email        string `yaml:"email"`
	Name         string `yaml:"name"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
}

func LoadSeed(path string) (*Seed, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var s Seed
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, a := range s.Admins {
		if a.Email == "" {
			return nil, fmt.Errorf("seed admin #%d: email is required", i+1)
		}
		if a.Password == "" && a.PasswordHash == "" {
			return nil, fmt.Errorf("seed admin %s: password or password_hash is required", a.Email)
		}
	}
	return &s, nil
}
