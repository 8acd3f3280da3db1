package receipts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anchor-backoffice/app/models"
)

func strP(s string) *string     { return &s }
func floatP(v float64) *float64 { return &v }

func rx(id, details string, in, out *float64, status models.ReceiptStatus) models.ReceiptTransaction {
	return models.ReceiptTransaction{
		ID: id, Details: details, AmountIn: in, AmountOut: out, Status: status,
	}
}

func TestClassifyCaseInsensitiveSubstring(t *testing.T) {
	rules := []models.ReceiptRule{
		{ID: "r1", Name: "Brewery", MatchText: "greene king", IsActive: true,
			Direction: models.DirectionAny, SetVendor: strP("Greene King")},
	}
	receipts := []models.ReceiptTransaction{
		rx("t1", "GREENE KING BREWING LTD 4411", nil, floatP(840.20), models.ReceiptPending),
	}

	out := Classify(receipts, rules)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Rule)
	assert.Equal(t, "r1", out[0].Rule.ID)
	assert.Equal(t, models.ReceiptAutoMatch, out[0].Status)
}

func TestClassifyPriorityThenNameOrder(t *testing.T) {
	rules := []models.ReceiptRule{
		{ID: "low", Name: "A catch-all", MatchText: "ltd", IsActive: true,
			Direction: models.DirectionAny, SetCategory: strP("misc"), Priority: 0},
		{ID: "high", Name: "Z specific", MatchText: "sky", IsActive: true,
			Direction: models.DirectionAny, SetCategory: strP("subscriptions"), Priority: 10},
		{ID: "tied-b", Name: "B tied", MatchText: "sky", IsActive: true,
			Direction: models.DirectionAny, SetCategory: strP("tv"), Priority: 10},
	}
	receipts := []models.ReceiptTransaction{
		rx("t1", "SKY BUSINESS LTD", nil, floatP(92.00), models.ReceiptPending),
	}

	out := Classify(receipts, rules)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Rule)
	// Same priority: "B tied" sorts before "Z specific".
	assert.Equal(t, "tied-b", out[0].Rule.ID)
}

func TestClassifyDirectionFilter(t *testing.T) {
	rules := []models.ReceiptRule{
		{ID: "out-only", Name: "Card fees", MatchText: "worldpay", IsActive: true,
			Direction: models.DirectionOut, SetCategory: strP("fees")},
	}
	moneyIn := []models.ReceiptTransaction{
		rx("t1", "WORLDPAY SETTLEMENT", floatP(1500.00), nil, models.ReceiptPending),
	}
	moneyOut := []models.ReceiptTransaction{
		rx("t2", "WORLDPAY FEES", nil, floatP(31.50), models.ReceiptPending),
	}

	in := Classify(moneyIn, rules)
	require.Len(t, in, 1)
	assert.Nil(t, in[0].Rule)
	assert.Equal(t, models.ReceiptNoMatch, in[0].Status)

	out := Classify(moneyOut, rules)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Rule)
	assert.Equal(t, "out-only", out[0].Rule.ID)
}

func TestClassifySkipsManual(t *testing.T) {
	rules := []models.ReceiptRule{
		{ID: "r1", Name: "Brewery", MatchText: "greene", IsActive: true,
			Direction: models.DirectionAny, SetVendor: strP("Greene King")},
	}
	receipts := []models.ReceiptTransaction{
		rx("t1", "GREENE KING", nil, floatP(100), models.ReceiptManual),
		rx("t2", "GREENE KING", nil, floatP(100), models.ReceiptAutoMatch),
	}

	out := Classify(receipts, rules)
	// Manual is skipped entirely; a previous auto match is re-evaluated.
	require.Len(t, out, 1)
	assert.Equal(t, "t2", out[0].ReceiptID)
}

func TestClassifyInactiveRuleIgnored(t *testing.T) {
	rules := []models.ReceiptRule{
		{ID: "r1", Name: "Old rule", MatchText: "sky", IsActive: false,
			Direction: models.DirectionAny, SetCategory: strP("tv")},
	}
	receipts := []models.ReceiptTransaction{
		rx("t1", "SKY BUSINESS", nil, floatP(92.00), models.ReceiptPending),
	}

	out := Classify(receipts, rules)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Rule)
	assert.Equal(t, models.ReceiptNoMatch, out[0].Status)
}

func TestClassifyNoMatchStatus(t *testing.T) {
	out := Classify([]models.ReceiptTransaction{
		rx("t1", "MYSTERY PAYMENT", nil, floatP(12.00), models.ReceiptPending),
	}, nil)

	require.Len(t, out, 1)
	assert.Nil(t, out[0].Rule)
	assert.Equal(t, models.ReceiptNoMatch, out[0].Status)
}
