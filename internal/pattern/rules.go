package pattern

import (
	"fmt"
	"os"

	"github.com/Veraticus/finsense/internal/model"
	"gopkg.in/yaml.v3"
)

type ruleEntry struct {
	model.PatternRule `yaml:",inline"`
	Active            *bool `yaml:"active"`
}

type ruleFile struct {
	Rules []ruleEntry `yaml:"rules"`
}

// ParseRules decodes a YAML rule file. Rules are active unless they say
// otherwise and are numbered in file order when they carry no id.
func ParseRules(data []byte) ([]Rule, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	rules := make([]Rule, 0, len(file.Rules))
	seen := make(map[int]bool, len(file.Rules))
	for i, entry := range file.Rules {
		rule := entry.PatternRule
		rule.IsActive = entry.Active == nil || *entry.Active
		if rule.ID == 0 {
			rule.ID = i + 1
		}
		if seen[rule.ID] {
			return nil, fmt.Errorf("rule %d: duplicate id %d", i+1, rule.ID)
		}
		seen[rule.ID] = true
		rules = append(rules, rule)
	}
	return rules, nil
}

// LoadRules reads and parses a rule file.
func LoadRules(path string) ([]Rule, error) {
	// #nosec G304 - path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}
	return ParseRules(data)
}
