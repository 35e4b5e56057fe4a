package index

import (
	"log/slog"

	"github.com/starford/roamshare/internal/parser"
	"github.com/starford/roamshare/internal/storage"
	"github.com/starford/roamshare/internal/traverse"
)

// Record reads every exported note from store and saves the export to db.
// Notes that can no longer be read are logged and left out.
func Record(db Manifest, store storage.Provider, res *traverse.Result, e ExportRow, logger *slog.Logger) (int64, error) {
	paths := res.Paths()
	rows := make([]NoteRow, 0, len(paths))
	for _, p := range paths {
		data, err := store.Read(p)
		if err != nil {
			logger.Warn("index: read failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		wave, _ := res.WaveOf(p)
		rows = append(rows, NoteRow{
			Path:     p,
			Title:    parser.Title(string(data)),
			Checksum: storage.Checksum(data),
			Wave:     wave,
		})
	}

	id, err := db.SaveExport(e, rows, res.Links(), res.Warnings)
	if err != nil {
		return 0, err
	}
	logger.Debug("index: export recorded", slog.Int64("export_id", id), slog.Int("notes", len(rows)))
	return id, nil
}
