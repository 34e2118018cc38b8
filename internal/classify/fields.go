package classify

import (
	"regexp"
	"strings"

	"github.com/documind/documind/constants"
)

var (
	reInvoiceNumber = regexp.MustCompile(`(?i)invoice\s*(?:no|number|#)?[:.\s]*([A-Za-z0-9-]+)`)
	reReceiptNumber = regexp.MustCompile(`(?i)receipt\s*(?:no|number|#)?[:.\s]*([A-Za-z0-9-]+)`)
	reDate          = regexp.MustCompile(`(?i)date[:.\s]*([\d/\-.]+)`)
	reTotal         = regexp.MustCompile(`(?i)total[:.\s]*[$€£]?\s*([\d,.]+)`)
)

// Extract pulls structured fields out of text for the given category. Only
// invoices and receipts carry field rules; every other category yields an
// empty map. A field whose pattern does not match is simply omitted.
func Extract(text string, category constants.Category) map[string]string {
	fields := make(map[string]string)

	switch category {
	case constants.Invoice:
		setMatch(fields, "invoiceNumber", reInvoiceNumber, text)
		setMatch(fields, "date", reDate, text)
		setMatch(fields, "totalAmount", reTotal, text)
	case constants.Receipt:
		setMatch(fields, "receiptNumber", reReceiptNumber, text)
		setMatch(fields, "date", reDate, text)
		setMatch(fields, "totalAmount", reTotal, text)
	}

	return fields
}

func setMatch(fields map[string]string, name string, re *regexp.Regexp, text string) {
	m := re.FindStringSubmatch(text)
	if len(m) > 1 && m[1] != "" {
		fields[name] = strings.TrimSpace(m[1])
	}
}
