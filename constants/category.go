package constants

// Category is the coarse document classification used to select a
// field-extraction rule set.
type Category string

const (
	Invoice        Category = "invoice"
	Receipt        Category = "receipt"
	Contract       Category = "contract"
	Identification Category = "identification"
	Unknown        Category = "unknown"
)

var allCategories = []Category{
	Invoice,
	Receipt,
	Contract,
	Identification,
	Unknown,
}

// AsStringSlice returns every category as a plain string.
func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}
