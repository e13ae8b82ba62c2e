package workshop

import (
	"fmt"

	"github.com/klauspost/compress/zip"
)

// ListContainer enumerates the internal file listing of a downloaded packed
// container without extracting the payload. Only the central directory is
// read, so listing a multi-hundred-megabyte container stays cheap.
func ListContainer(path string) ([]string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open container %s: %w", path, err)
	}
	defer reader.Close()

	entries := make([]string, 0, len(reader.File))
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		entries = append(entries, file.Name)
	}
	return entries, nil
}
