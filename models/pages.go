package models

// PageText is the text recognized from a single document page.
// Page numbers are 1-based and concatenation order is document order.
type PageText struct {
	Number int
	Text   string
}
