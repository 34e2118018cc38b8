package classify

import (
	"strings"

	"github.com/documind/documind/constants"
)

// keywordGroup ties a category to the phrases that indicate it.
type keywordGroup struct {
	category constants.Category
	keywords []string
}

// keywordGroups are tested in order; the first group with any match wins.
// A text holding both invoice and contract keywords is an invoice because
// that group is checked first.
var keywordGroups = []keywordGroup{
	{constants.Invoice, []string{"invoice", "bill to", "invoice number"}},
	{constants.Receipt, []string{"receipt", "payment received", "amount paid"}},
	{constants.Contract, []string{"contract", "agreement", "terms and conditions"}},
	{constants.Identification, []string{"id", "identification", "passport", "driver"}},
}

// Classify infers the document category from extracted text.
func Classify(text string) constants.Category {
	lower := strings.ToLower(text)
	for _, group := range keywordGroups {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.category
			}
		}
	}
	return constants.Unknown
}
