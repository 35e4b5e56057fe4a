package index

import "github.com/starford/roamshare/internal/models"

// Manifest defines the export manifest operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type Manifest interface {
	SaveExport(e ExportRow, notes []NoteRow, links []models.Link, warnings []string) (int64, error)
	LatestExport() (*ExportRow, error)
	Notes(exportID int64) ([]NoteRow, error)
	Backlinks(exportID int64, target string) ([]string, error)
	Warnings(exportID int64) ([]string, error)
	Close() error
}

// Verify *DB satisfies Manifest at compile time.
var _ Manifest = (*DB)(nil)
