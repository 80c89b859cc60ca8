// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/refugestudios/racing-game/internal/geo"
	"github.com/refugestudios/racing-game/pkg/core"
)

// SessionExport is the root JSON structure of an exported session.
// Events and samples are compact positional arrays.
type SessionExport struct {
	SessionID   uint        `json:"sessionId"`
	GameID      string      `json:"gameId"`
	GameVersion string      `json:"gameVersion"`
	ScenePath   string      `json:"scenePath"`
	StartTime   time.Time   `json:"startTime"`
	EndTime     time.Time   `json:"endTime"`
	Frames      uint        `json:"frames"`
	LocalID     *uint64     `json:"localId"`
	TrailLength float64     `json:"trailLength"`
	Trail       [][]float64 `json:"trail"`
	Events      [][]any     `json:"events"`
	Samples     [][]any     `json:"samples"`
}

// BuildExport converts a recorded session into its export form.
func BuildExport(rec core.SessionRecord) SessionExport {
	s := rec.Session
	export := SessionExport{
		SessionID:   s.ID,
		GameID:      s.GameID,
		GameVersion: s.GameVersion,
		ScenePath:   s.ScenePath,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Frames:      s.Frames,
		LocalID:     s.LocalID,
		TrailLength: geo.TrailLength(s.Trail),
		Trail:       make([][]float64, 0, len(s.Trail)),
		Events:      make([][]any, 0, len(rec.Events)),
		Samples:     make([][]any, 0, len(rec.Samples)),
	}

	for _, p := range s.Trail {
		export.Trail = append(export.Trail, []float64{p.X, p.Z})
	}

	// Format: [frame, kind, clientId, applied, entityCount]
	for _, e := range rec.Events {
		export.Events = append(export.Events, []any{
			e.Frame,
			string(e.Kind),
			e.ClientID,
			boolToInt(e.Applied),
			e.EntityCount,
		})
	}

	// Format: [frame, [x, y, z], yaw, speed, roll, [throttle, brake, steer]]
	for _, d := range rec.Samples {
		export.Samples = append(export.Samples, []any{
			d.Frame,
			[]float64{d.Position.X, d.Position.Y, d.Position.Z},
			d.Yaw,
			d.Speed,
			d.Roll,
			[]float64{d.Throttle, d.Brake, d.Steer},
		})
	}

	return export
}

// ExportFileName names the export file for a session.
func ExportFileName(export SessionExport, compress bool) string {
	name := fmt.Sprintf("session_%d_%s.json", export.SessionID, export.StartTime.Format("20060102_150405"))
	if compress {
		name += ".gz"
	}
	return name
}

// WriteExport writes export into dir and returns the file path.
func WriteExport(dir string, export SessionExport, compress bool) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(dir, ExportFileName(export, compress))

	var err error
	if compress {
		err = writeGzipJSON(outputPath, export)
	} else {
		err = writeJSON(outputPath, export)
	}
	if err != nil {
		return "", err
	}
	return outputPath, nil
}

func writeJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func writeGzipJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
