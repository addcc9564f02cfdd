package browser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const systemPageHTML = `<html><body>
<div id="header">About System</div>
<div id="content">
  <table>
    <tr><td>extensions</td><td>
      <pre>abcdefghijklmnopabcdefghijklmnop : Other Extension : version 1.0
ekhagklcjbdpajgpjgmbionohlpdbjgc : Zotero Connector : version 5.0.150
</pre>
    </td></tr>
  </table>
</div>
</body></html>`

func TestExtractExtensionIDFromHTML(t *testing.T) {
	id, err := ExtractExtensionIDFromHTML(systemPageHTML, "Zotero Connector")
	require.NoError(t, err)
	assert.Equal(t, "ekhagklcjbdpajgpjgmbionohlpdbjgc", id)

	id, err = ExtractExtensionIDFromHTML(systemPageHTML, "Other Extension")
	require.NoError(t, err)
	assert.Equal(t, "abcdefghijklmnopabcdefghijklmnop", id)
}

func TestExtractExtensionIDFromHTML_AdjacentElements(t *testing.T) {
	// chrome://system renders the extensions row without whitespace between elements
	html := `<div id="content"><table><tr><td class="name">extensions</td>` +
		`<td><button id="extensions-value-btn">Collapse</button>` +
		`<span id="extensions-value">ekhagklcjbdpajgpjgmbionohlpdbjgc : Zotero Connector : version 5.0.150</span>` +
		`</td></tr></table></div>`

	id, err := ExtractExtensionIDFromHTML(html, "Zotero Connector")
	require.NoError(t, err)
	assert.Equal(t, "ekhagklcjbdpajgpjgmbionohlpdbjgc", id)
}

func TestExtractExtensionID_NotFound(t *testing.T) {
	_, err := ExtractExtensionIDFromHTML(systemPageHTML, "Missing Extension")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExtensionNotFound))
}

func TestExtractExtensionID_NameIsLiteral(t *testing.T) {
	text := "aaaa : Zotero Connector (dev) : version 1"
	id, err := ExtractExtensionID(text, "Zotero Connector (dev)")
	require.NoError(t, err)
	assert.Equal(t, "aaaa", id)

	_, err = ExtractExtensionID("aaaa : ZoteroXConnector", "Zotero.Connector")
	assert.Error(t, err)
}

func TestTestPageURL(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want string
	}{
		{
			name: "two translators",
			ids:  []string{"a1", "b2"},
			want: "chrome-extension://ext/tools/testTranslators/testTranslators.html#translators=a1,b2",
		},
		{
			name: "single translator",
			ids:  []string{"0a01d85e-483c-4998-891b-24707728d83e"},
			want: "chrome-extension://ext/tools/testTranslators/testTranslators.html#translators=0a01d85e-483c-4998-891b-24707728d83e",
		},
		{
			name: "none",
			ids:  nil,
			want: "chrome-extension://ext/tools/testTranslators/testTranslators.html#translators=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TestPageURL("ext", tt.ids))
		})
	}
}
