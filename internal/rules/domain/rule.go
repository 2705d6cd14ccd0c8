package domain

const (
	rulePrefix = "||"
	ruleSuffix = "^"
)

// FormatRule renders a block rule for name and all of its subdomains,
// e.g. "ads.example.com" becomes "||ads.example.com^". The name is used
// verbatim.
func FormatRule(name string) string {
	return rulePrefix + name + ruleSuffix
}

