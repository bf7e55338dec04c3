package service

import (
	"strings"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

// CategoryRule maps a category to the keywords that select it.
type CategoryRule struct {
	Category domain.TicketCategory
	Keywords []string
}

// DefaultCategoryRules is evaluated top to bottom; the first rule with a
// matching keyword wins. Other carries no keywords and is only the fallback.
var DefaultCategoryRules = []CategoryRule{
	{Category: domain.TicketCategoryLogin, Keywords: []string{"login", "password", "account", "authentication"}},
	{Category: domain.TicketCategoryBilling, Keywords: []string{"payment", "invoice", "charge", "subscription"}},
	{Category: domain.TicketCategoryTechnical, Keywords: []string{"error", "bug", "crash", "not working"}},
	{Category: domain.TicketCategoryOther, Keywords: nil},
}

// Categorizer assigns a category to free-text ticket descriptions.
type Categorizer struct {
	rules []CategoryRule
}

// NewCategorizer builds a categorizer over the given ordered rules.
// Keywords are lower-cased once up front.
func NewCategorizer(rules []CategoryRule) *Categorizer {
	normalized := make([]CategoryRule, 0, len(rules))
	for _, rule := range rules {
		keywords := make([]string, 0, len(rule.Keywords))
		for _, kw := range rule.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		normalized = append(normalized, CategoryRule{Category: rule.Category, Keywords: keywords})
	}
	return &Categorizer{rules: normalized}
}

// NewDefaultCategorizer uses DefaultCategoryRules.
func NewDefaultCategorizer() *Categorizer {
	return NewCategorizer(DefaultCategoryRules)
}

// Categorize returns the category of the first rule whose keyword occurs in text.
func (c *Categorizer) Categorize(text string) domain.TicketCategory {
	lowered := strings.ToLower(text)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, kw) {
				return rule.Category
			}
		}
	}
	return domain.TicketCategoryOther
}

// Rules returns a copy of the evaluation order.
func (c *Categorizer) Rules() []CategoryRule {
	out := make([]CategoryRule, len(c.rules))
	for i, rule := range c.rules {
		out[i] = CategoryRule{Category: rule.Category, Keywords: append([]string(nil), rule.Keywords...)}
	}
	return out
}
