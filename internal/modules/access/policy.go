package access

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var defaultPolicy []byte

// MenuItem is one entry of the business side menu.
type MenuItem struct {
	Key    string   `yaml:"key" json:"key"`
	Label  string   `yaml:"label" json:"label"`
	Route  string   `yaml:"route" json:"route"`
	Roles  []string `yaml:"roles,omitempty" json:"-"`
	Always bool     `yaml:"always,omitempty" json:"-"`
}

// Policy holds the business-side gating rules.
type Policy struct {
	Activation struct {
		Fee      float64 `yaml:"fee"`
		Currency string  `yaml:"currency"`
	} `yaml:"activation"`
	SuperadminRoles []string   `yaml:"superadmin_roles"`
	Menu            []MenuItem `yaml:"menu"`
}

// DefaultPolicy returns the policy compiled into the binary.
func DefaultPolicy() (*Policy, error) {
	return ParsePolicy(defaultPolicy)
}

// LoadPolicy reads the policy at path, or the built-in one when path is empty.
func LoadPolicy(path string) (*Policy, error) {
	if path == "" {
		return DefaultPolicy()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read access policy: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes and validates a YAML policy document.
func ParsePolicy(data []byte) (*Policy, error) {
	p := &Policy{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse access policy: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Policy) validate() error {
	if p.Activation.Fee < 0 {
		return errors.New("access policy: activation fee must not be negative")
	}
	if len(p.Menu) == 0 {
		return errors.New("access policy: menu is empty")
	}
	seen := make(map[string]bool, len(p.Menu))
	for _, item := range p.Menu {
		if item.Key == "" || item.Label == "" {
			return fmt.Errorf("access policy: menu item %q needs a key and a label", item.Route)
		}
		if seen[item.Key] {
			return fmt.Errorf("access policy: duplicate menu key %q", item.Key)
		}
		seen[item.Key] = true
	}
	return nil
}
