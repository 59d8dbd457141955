// Package classify is the rule-based classification collaborator. Its output
// is persisted for display and analytics only and is never consulted by
// reconciliation decisions.
package classify

import (
	"strings"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

// Result is the classification verdict for one transaction.
type Result struct {
	Direction   ledger.Direction
	ExpenseKind string
	Category    string // empty when the rule carries no real category
	Confidence  float64
	RulesFired  []string
}

// Classifier applies an ordered rulebook, highest priority first, first
// match wins.
type Classifier struct {
	rules []Rule
}

func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify evaluates the rulebook against the transaction's searchable text.
// Without a matching rule, expenses default to a "real" expense in the catch
// all category and income to "other", both at low confidence.
func (c *Classifier) Classify(t *ledger.Transaction) Result {
	direction := baseDirection(t)
	haystack := buildHaystack(t)

	for _, rule := range c.rules {
		if !rule.pattern.MatchString(haystack) {
			continue
		}
		finalDirection := direction
		if rule.Direction != "" {
			finalDirection = ledger.Direction(rule.Direction)
		}
		category := ""
		if rule.ExpenseKind == "real" {
			category = rule.Category
		}
		return Result{
			Direction:   finalDirection,
			ExpenseKind: rule.ExpenseKind,
			Category:    category,
			Confidence:  rule.Confidence,
			RulesFired:  []string{rule.Name},
		}
	}

	if direction == ledger.DirectionExpense {
		return Result{
			Direction:   ledger.DirectionExpense,
			ExpenseKind: "real",
			Category:    "etc",
			Confidence:  0.5,
			RulesFired:  []string{"default_expense_real"},
		}
	}
	return Result{
		Direction:   ledger.DirectionIncome,
		ExpenseKind: "other",
		Confidence:  0.5,
		RulesFired:  []string{"default_income_other"},
	}
}

func baseDirection(t *ledger.Transaction) ledger.Direction {
	if t.Amount.Sign() > 0 {
		return ledger.DirectionIncome
	}
	return ledger.DirectionExpense
}

func buildHaystack(t *ledger.Transaction) string {
	return strings.ToLower(strings.Join([]string{
		t.Description,
		t.Merchant,
		t.Method,
		t.RawCategory,
		t.Memo,
	}, " "))
}
