package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/documind/documind/constants"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want constants.Category
	}{
		{"invoice", "INVOICE\nBill To: Acme Corp", constants.Invoice},
		{"receipt", "Thank you! Payment received on 2024-01-15.", constants.Receipt},
		{"contract", "This Agreement is entered into by the parties.", constants.Contract},
		{"identification", "PASSPORT\nRepublic of Examplestan", constants.Identification},
		{"unknown", "quarterly newsletter for our subscribers", constants.Unknown},
		{"empty", "", constants.Unknown},
		{"case insensitive", "InVoIcE nUmBeR: 42", constants.Invoice},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.text))
		})
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// Earlier groups win even when later groups also match.
	text := "Invoice issued under the terms and conditions of the master agreement."
	assert.Equal(t, constants.Invoice, Classify(text))

	text = "Receipt for services rendered per contract 77."
	assert.Equal(t, constants.Receipt, Classify(text))
}
