// Package localfile turns a path on disk into an upload candidate.
package localfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/devicepool-cli/internal/domain"
)

// Open stats and opens path. The caller must invoke the returned close func.
func Open(path string) (domain.FileInput, func() error, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.FileInput{}, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.FileInput{}, nil, fmt.Errorf("%s is a directory", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return domain.FileInput{}, nil, fmt.Errorf("open %s: %w", path, err)
	}

	name := filepath.Base(path)
	return domain.FileInput{
		Name:        name,
		ContentType: domain.ContentTypeForName(name),
		Size:        info.Size(),
		Content:     file,
	}, file.Close, nil
}
