package stubauth

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedAccount is one entry of the YAML seed file.
type SeedAccount struct {
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	Role      string `yaml:"role"`
	TwoFactor bool   `yaml:"two_factor"`
	Banned    bool   `yaml:"banned"`
	BanReason string `yaml:"ban_reason"`
}

type seedFile struct {
	Accounts []SeedAccount `yaml:"accounts"`
}

// Seed creates the given accounts. Passwords are hashed on load.
func (s *Service) Seed(accounts []SeedAccount) error {
	for _, entry := range accounts {
		account, err := s.createAccount(entry.Name, entry.Email, entry.Password, entry.Role, entry.TwoFactor)
		if err != nil {
			return fmt.Errorf("seed %s: %w", entry.Email, err)
		}
		if entry.Banned {
			err := s.accounts.Update(account.ID, func(a *Account) {
				a.Banned = true
				a.BanReason = entry.BanReason
			})
			if err != nil {
				return fmt.Errorf("seed %s: %w", entry.Email, err)
			}
		}
	}
	return nil
}

// SeedFromFile loads a YAML seed file and creates its accounts.
func (s *Service) SeedFromFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}
	if err := s.Seed(file.Accounts); err != nil {
		return 0, err
	}
	return len(file.Accounts), nil
}
