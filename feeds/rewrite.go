package feeds

import (
	"math/rand"
	"strings"
	"time"

	"feedtoot/config"
)

// Rewriter applies configured substitutions. Every call rolls a new target
// for each rule.
type Rewriter struct {
	rules   []config.RewriteRule
	chooser Chooser
}

// NewRewriter returns a Rewriter for rules. A nil chooser uses a time
// seeded math/rand source.
func NewRewriter(rules []config.RewriteRule, chooser Chooser) *Rewriter {
	if chooser == nil {
		chooser = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Rewriter{rules: rules, chooser: chooser}
}

// Rewrite applies the rules in declared order
func (r *Rewriter) Rewrite(text string) string {
	if r == nil {
		return text
	}
	for _, rule := range r.rules {
		if rule.Source == "" || len(rule.Targets) == 0 {
			continue
		}
		target := rule.Targets[r.chooser.Intn(len(rule.Targets))]
		text = strings.ReplaceAll(text, rule.Source, target.Text)
	}
	return text
}
