package core

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// RoleRule assigns Role to a column whose lower-cased name contains any of
// Keywords and none of Exclude.
type RoleRule struct {
	Role     Role     `yaml:"role" json:"role"`
	Keywords []string `yaml:"keywords" json:"keywords"`
	Exclude  []string `yaml:"exclude" json:"exclude"`
}

// Matches reports whether column satisfies the rule.
func (r RoleRule) Matches(column string) bool {
	name := strings.ToLower(column)
	for _, ex := range r.Exclude {
		if strings.Contains(name, strings.ToLower(ex)) {
			return false
		}
	}
	for _, kw := range r.Keywords {
		if strings.Contains(name, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// DefaultRules is the built-in classification policy.
var DefaultRules = []RoleRule{
	{
		Role:     RoleCategory,
		Keywords: []string{"field", "primary", "category", "research"},
		Exclude:  []string{"(product)"},
	},
	{
		Role:     RoleInterest,
		Keywords: []string{"interest"},
		Exclude:  []string{"(product)"},
	},
}

// ErrInvalidRules is returned when a rules file fails validation.
var ErrInvalidRules = errors.New("invalid classifier rules")

// Classifier picks the category and interest columns of a schema.
type Classifier struct {
	rules []RoleRule
}

// NewClassifier creates a classifier over rules. Nil or empty rules use DefaultRules.
func NewClassifier(rules []RoleRule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{rules: append([]RoleRule(nil), rules...)}
}

// Rules returns a copy of the active rule table.
func (c *Classifier) Rules() []RoleRule {
	return append([]RoleRule(nil), c.rules...)
}

// Classify scans columns in order once per role and takes the first match.
// The scans are independent, so one column can hold both roles.
func (c *Classifier) Classify(columns []string) Roles {
	return Roles{
		Category: c.first(RoleCategory, columns),
		Interest: c.first(RoleInterest, columns),
	}
}

func (c *Classifier) first(role Role, columns []string) string {
	for _, col := range columns {
		for _, rule := range c.rules {
			if rule.Role == role && rule.Matches(col) {
				return col
			}
		}
	}
	return ""
}

type rulesFile struct {
	Rules []RoleRule `yaml:"rules"`
}

// LoadRules reads a YAML rule table:
//
//	rules:
//	  - role: category
//	    keywords: [field, primary, category, research]
//	    exclude: ["(product)"]
func LoadRules(path string) ([]RoleRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes and validates a YAML rule table.
func ParseRules(data []byte) ([]RoleRule, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("%w: no rules defined", ErrInvalidRules)
	}

	for i, r := range f.Rules {
		if r.Role != RoleCategory && r.Role != RoleInterest {
			return nil, fmt.Errorf("%w: rule %d: unknown role %q", ErrInvalidRules, i+1, r.Role)
		}
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("%w: rule %d: at least one keyword is required", ErrInvalidRules, i+1)
		}
	}
	return f.Rules, nil
}
