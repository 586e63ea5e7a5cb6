package bom

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/auswx/bomwx/internal/domain"
)

// extractMatching walks the gzipped tar archive and returns the members whose
// full name or basename appears in the wanted list, in wanted order. Archive
// members are keyed the way the configuration named them, so the callsign
// mapping keeps working whether the archive nests files in directories or not.
func extractMatching(archive []byte, wanted []string, logger *slog.Logger) ([]domain.SourceFile, error) {
	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer gz.Close()

	want := make(map[string]bool, len(wanted))
	for _, name := range wanted {
		want[name] = true
	}

	found := make(map[string][]byte, len(wanted))
	entries := 0

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		entries++

		key := ""
		switch {
		case want[hdr.Name]:
			key = hdr.Name
		case want[path.Base(hdr.Name)]:
			key = path.Base(hdr.Name)
		}
		if key == "" || found[key] != nil {
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", hdr.Name, err)
		}
		found[key] = data
	}

	logger.Debug("archive scanned", "entries", entries, "wanted", len(wanted), "matched", len(found))

	if len(found) == 0 {
		return nil, fmt.Errorf("no wanted station files among %d archive entries", entries)
	}

	files := make([]domain.SourceFile, 0, len(found))
	for _, name := range wanted {
		if data, ok := found[name]; ok {
			files = append(files, domain.SourceFile{Name: name, Data: data})
		}
	}
	return files, nil
}
