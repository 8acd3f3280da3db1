package receipts

import (
	"sort"
	"strings"

	"anchor-backoffice/app/models"
)

// Classification is the outcome of running the rule engine over one
// transaction. A nil Rule means no rule matched.
type Classification struct {
	ReceiptID string
	Rule      *models.ReceiptRule
	Status    models.ReceiptStatus
}

// Classify runs the auto-classification rules over a batch of transactions.
// Rules are tried highest priority first, name as tie-break; the first match
// wins. Manually classified transactions are never touched. The function is
// pure: it reports what should change and writes nothing.
func Classify(receipts []models.ReceiptTransaction, rules []models.ReceiptRule) []Classification {
	ordered := make([]models.ReceiptRule, 0, len(rules))
	for _, r := range rules {
		if r.IsActive {
			ordered = append(ordered, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].Name < ordered[j].Name
	})

	out := make([]Classification, 0, len(receipts))
	for i := range receipts {
		rx := &receipts[i]
		if rx.Status == models.ReceiptManual {
			continue
		}
		matched := false
		for j := range ordered {
			if ruleMatches(&ordered[j], rx) {
				out = append(out, Classification{
					ReceiptID: rx.ID,
					Rule:      &ordered[j],
					Status:    models.ReceiptAutoMatch,
				})
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, Classification{ReceiptID: rx.ID, Status: models.ReceiptNoMatch})
		}
	}
	return out
}

func ruleMatches(rule *models.ReceiptRule, rx *models.ReceiptTransaction) bool {
	switch rule.Direction {
	case models.DirectionIn:
		if rx.AmountIn == nil || *rx.AmountIn == 0 {
			return false
		}
	case models.DirectionOut:
		if rx.AmountOut == nil || *rx.AmountOut == 0 {
			return false
		}
	}
	if rule.MatchText == "" {
		return false
	}
	return strings.Contains(strings.ToLower(rx.Details), strings.ToLower(rule.MatchText))
}
