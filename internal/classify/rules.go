package classify

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// Rule is one classification rule from the rulebook file.
type Rule struct {
	Name        string  `yaml:"name"`
	Priority    int     `yaml:"priority"`
	Pattern     string  `yaml:"pattern"`
	ExpenseKind string  `yaml:"expense_kind"`
	Category    string  `yaml:"category"`
	Direction   string  `yaml:"direction"`
	Confidence  float64 `yaml:"confidence"`

	pattern *regexp.Regexp
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

const defaultConfidence = 0.8

// LoadRules reads the YAML rulebook, compiles every pattern case
// insensitively and returns the rules ordered by priority, highest first.
func LoadRules(path string) ([]Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("classify: read rules: %w", err)
	}

	var file ruleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("classify: parse rules: %w", err)
	}

	for i := range file.Rules {
		rule := &file.Rules[i]
		compiled, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("classify: rule %q: %w", rule.Name, err)
		}
		rule.pattern = compiled
		if rule.Confidence == 0 {
			rule.Confidence = defaultConfidence
		}
	}

	sort.SliceStable(file.Rules, func(i, j int) bool {
		return file.Rules[i].Priority > file.Rules[j].Priority
	})
	return file.Rules, nil
}
