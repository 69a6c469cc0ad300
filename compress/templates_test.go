package compress

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func render(t *testing.T, title string, body templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := ContentTempl("Shrink", title, body).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestSuccessTempl(t *testing.T) {
	r := Result{
		OriginalName:  `<b>holiday</b> & "friends".png`,
		ConvertedName: `<b>holiday</b> & "friends".webp`,
		OriginalSize:  2 * 1024 * 1024,
		ConvertedSize: 512 * 1024,
	}
	page := render(t, "Compressed", SuccessTempl(r))

	if strings.Contains(page, "<b>holiday</b>") {
		t.Error("Expected filenames to be HTML-escaped")
	}
	classes, links := parsePage(t, page)
	if classes["original-size"] != "2.00 MB" {
		t.Errorf("Expected original size “2.00 MB”, got %q", classes["original-size"])
	}
	if classes["converted-size"] != "512.00 KB" {
		t.Errorf("Expected converted size “512.00 KB”, got %q", classes["converted-size"])
	}
	if classes["savings"] != "75.0% smaller than the original." {
		t.Errorf("Unexpected savings: %q", classes["savings"])
	}

	escaped := "%3Cb%3Eholiday%3C%2Fb%3E%20&%20%22friends%22"
	for _, want := range []string{"/uploads/" + escaped + ".png", "/compressed/" + escaped + ".webp", "/download/" + escaped + ".webp"} {
		if !contains(links, want) {
			t.Errorf("Expected link %s, got %v", want, links)
		}
	}
}

func TestResultSavings(t *testing.T) {
	grew := Result{OriginalSize: 1000, ConvertedSize: 1250}
	if got := grew.Savings(); !strings.HasPrefix(got, "25.0% larger") {
		t.Errorf("Expected growth to be reported, got %q", got)
	}
}

func TestErrorTempl(t *testing.T) {
	page := render(t, "Bad Request", ErrorTempl("Nope <script>"))
	classes, links := parsePage(t, page)
	if classes["flash"] != "Nope <script>" {
		t.Errorf("Expected message in flash, got %q", classes["flash"])
	}
	if strings.Contains(page, "<script>") {
		t.Error("Expected message to be HTML-escaped")
	}
	if !contains(links, "/") {
		t.Error("Expected a link back to the form")
	}
	if !strings.Contains(page, "<title>Bad Request · Shrink</title>") {
		t.Error("Expected page title to include the app name")
	}
}
