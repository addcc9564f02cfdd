package models

// TranslatorMetadata is the JSON header at the top of every translator file
type TranslatorMetadata struct {
	TranslatorID   string         `json:"translatorID"`
	Label          string         `json:"label"`
	Creator        string         `json:"creator,omitempty"`
	Target         string         `json:"target,omitempty"`
	MinVersion     string         `json:"minVersion,omitempty"`
	MaxVersion     string         `json:"maxVersion,omitempty"`
	Priority       int            `json:"priority,omitempty"`
	InRepository   bool           `json:"inRepository,omitempty"`
	TranslatorType int            `json:"translatorType,omitempty"`
	BrowserSupport string         `json:"browserSupport,omitempty"`
	LastUpdated    string         `json:"lastUpdated,omitempty"`
	ConfigOptions  map[string]any `json:"configOptions,omitempty"`
	DisplayOptions map[string]any `json:"displayOptions,omitempty"`
}

// Translator is a translator file loaded from the repository
type Translator struct {
	Filename string
	Metadata TranslatorMetadata
	// Content is the complete file, header included
	Content string
}

// ID returns the translator ID from the metadata header
func (t *Translator) ID() string {
	return t.Metadata.TranslatorID
}
