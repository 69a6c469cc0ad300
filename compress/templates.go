package compress

import (
	"fmt"
	"net/url"

	"github.com/a-h/templ"
)

// Flash messages shown on the landing page after a redirect, keyed by the `error` query parameter.
var flashMessages = map[string]string{
	flashUnsupported: "That file type isn’t supported. Please choose a PNG, JPEG, BMP, or TIFF image.",
}

const flashUnsupported = "unsupported"

// fileURL builds a link into one of the file-serving routes.
func fileURL(prefix, filename string) templ.SafeURL {
	return templ.URL(prefix + url.PathEscape(filename))
}

// Savings describes the size change in a sentence.
func (r Result) Savings() string {
	pct := r.PercentSaved()
	if pct >= 0 {
		return fmt.Sprintf("%.1f%% smaller than the original.", pct)
	}
	return fmt.Sprintf("%.1f%% larger than the original; this image was already well compressed.", -pct)
}
