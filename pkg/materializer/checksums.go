package materializer

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ChecksumsFile is the name of the checksums file written into the application directory.
const ChecksumsFile = "checksums.txt"

// ComputeChecksum computes the SHA256 checksum of the given content.
func ComputeChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// generateChecksums renders a checksums file for every recorded file under root.
func generateChecksums(fsys afero.Fs, result *Result, root string) (string, error) {
	var content bytes.Buffer
	fmt.Fprintf(&content, "# %s Checksums (SHA256)\n", result.AppName)
	fmt.Fprintf(&content, "# Generated: %s\n\n", result.GeneratedAt())

	prefix := root + string(filepath.Separator)
	for _, file := range result.Files {
		if !strings.HasPrefix(file, prefix) || filepath.Base(file) == ChecksumsFile {
			continue
		}

		data, err := afero.ReadFile(fsys, file)
		if err != nil {
			return "", fmt.Errorf("failed to read file %s for checksum: %w", file, err)
		}

		rel, err := filepath.Rel(root, file)
		if err != nil {
			rel = filepath.Base(file)
		}
		fmt.Fprintf(&content, "%s  %s\n", ComputeChecksum(data), filepath.ToSlash(rel))
	}

	return content.String(), nil
}
