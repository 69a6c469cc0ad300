package core

import "regexp"

// Known clients, checked in order; the first match wins, so specific patterns precede general ones.
// Browsers that embed another engine’s token (Edge & Opera carry “Chrome/”, Chrome carries “Safari/”) come first.
var userAgents = []struct {
	regex     *regexp.Regexp
	canonical string
}{
	// Mobile browsers, usually uploading through the share sheet.
	{regexp.MustCompile(`(?i)(iphone|ipad).*(crios|fxios|safari)`), "iOS"},
	{regexp.MustCompile(`(?i)android.*samsungbrowser/`), "Samsung Internet"},
	{regexp.MustCompile(`(?i)android.*(chrome|firefox)/`), "Android"},

	// Desktop browsers.
	{regexp.MustCompile(`(?i)edg/[\d.]+`), "Edge"},
	{regexp.MustCompile(`(?i)(opr|opera)/[\d.]+`), "Opera"},
	{regexp.MustCompile(`(?i)chrome/[\d.]+`), "Chrome"},
	{regexp.MustCompile(`(?i)firefox/[\d.]+`), "Firefox"},
	{regexp.MustCompile(`(?i)version/[\d.]+.*safari/`), "Safari"},

	// Scripted uploads & monitoring.
	{regexp.MustCompile(`(?i)^curl/`), "curl"},
	{regexp.MustCompile(`(?i)^wget/`), "Wget"},
	{regexp.MustCompile(`(?i)^httpie/`), "HTTPie"},
	{regexp.MustCompile(`(?i)^python-(requests|urllib)|^aiohttp/`), "Python"},
	{regexp.MustCompile(`(?i)^go-http-client/`), "Go"},
	{regexp.MustCompile(`(?i)^(uptime-kuma|kube-probe|docker)`), "Monitor"},
	{regexp.MustCompile(`(?i)bot\b|crawler|spider`), "Bot"},
}

// GetCanonicalUserAgent reduces a User-Agent header to a short client name for logging.
// Returns “Unknown” when nothing matches.
func GetCanonicalUserAgent(userAgent string) string {
	for _, ua := range userAgents {
		if ua.regex.MatchString(userAgent) {
			return ua.canonical
		}
	}
	return "Unknown"
}
