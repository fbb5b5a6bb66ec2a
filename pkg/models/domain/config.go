package domain

import "fmt"

// Ruleset names a category of compliance checks evaluated by the policy engine.
type Ruleset string

const (
	RulesetInfrastructure Ruleset = "infrastructure"
	RulesetSection508     Ruleset = "section508"
)

// RulesetConfig locates the rule document and query of a ruleset.
type RulesetConfig struct {
	Name     Ruleset
	Document string
	Query    string
}

func (c RulesetConfig) String() string {
	return fmt.Sprintf("%s:%s", c.Name, c.Query)
}
