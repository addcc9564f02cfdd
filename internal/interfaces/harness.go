package interfaces

import (
	"context"

	"github.com/ternarybob/transcheck/internal/models"
	"github.com/ternarybob/transcheck/internal/translators"
)

// TestDriver runs translator tests inside the browser extension
type TestDriver interface {
	Start(ctx context.Context) error
	DiscoverExtensionID(ctx context.Context) (string, error)
	RunTests(ctx context.Context, translatorIDs []string) (*models.ResultSet, error)
	Close()
}

// ChangeDetector resolves the translators touched by the current branch
type ChangeDetector interface {
	TranslatorIDs(ctx context.Context, catalog *translators.Catalog) ([]string, error)
}

// Publisher posts the run summary somewhere reviewers will see it
type Publisher interface {
	Publish(ctx context.Context, markdown string) error
}
