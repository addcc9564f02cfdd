package browser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrExtensionNotFound is returned when chrome://system does not list the extension
var ErrExtensionNotFound = errors.New("extension not found")

// testPagePath is the translator test page inside the extension bundle
const testPagePath = "tools/testTranslators/testTranslators.html"

// ExtractExtensionID finds the ID of the extension called name in the chrome://system
// extensions listing, where each entry reads "<id> : <name> : <version> ...".
func ExtractExtensionID(text, name string) (string, error) {
	re := regexp.MustCompile(`(\S*) : ` + regexp.QuoteMeta(name))
	m := re.FindStringSubmatch(text)
	if m == nil || m[1] == "" {
		return "", fmt.Errorf("%w: %q", ErrExtensionNotFound, name)
	}
	return m[1], nil
}

// ExtractExtensionIDFromHTML reads the text of #content and extracts the extension ID
func ExtractExtensionIDFromHTML(html, name string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse system page: %w", err)
	}

	content := doc.Find("#content")
	if content.Length() == 0 {
		content = doc.Selection
	}
	return ExtractExtensionID(visibleText(content), name)
}

// visibleText joins the text nodes under sel with newlines so that text from
// adjacent elements never runs together, as innerText renders it
func visibleText(sel *goquery.Selection) string {
	var lines []string
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			switch goquery.NodeName(c) {
			case "#text":
				if text := strings.TrimSpace(c.Text()); text != "" {
					lines = append(lines, text)
				}
			case "script", "style", "#comment":
			default:
				walk(c)
			}
		})
	}
	walk(sel)
	return strings.Join(lines, "\n")
}

// TestPageURL builds the URL of the test page running the given translators
func TestPageURL(extensionID string, translatorIDs []string) string {
	return fmt.Sprintf("chrome-extension://%s/%s#translators=%s",
		extensionID, testPagePath, strings.Join(translatorIDs, ","))
}
