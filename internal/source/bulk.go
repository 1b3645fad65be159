package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Separator divides emails in a bulk dump
const Separator = "---"

// MinChunkLength is the shortest chunk, in characters, kept as an inquiry
const MinChunkLength = 50

// Chunk is one email split out of a bulk dump
type Chunk struct {
	Name string // <prefix>_NNN.txt, numbered by position in the dump
	Text string
}

// Split divides a bulk dump on the separator. Chunks of MinChunkLength
// characters or fewer are skipped but still consume their number.
func Split(content, prefix string) []Chunk {
	var chunks []Chunk
	for i, part := range strings.Split(content, Separator) {
		part = strings.TrimSpace(part)
		if utf8.RuneCountInString(part) <= MinChunkLength {
			continue
		}
		chunks = append(chunks, Chunk{
			Name: fmt.Sprintf("%s_%03d.txt", prefix, i+1),
			Text: part,
		})
	}
	return chunks
}

// WriteChunks writes each chunk into outDir and returns the created paths
func WriteChunks(outDir string, chunks []Chunk) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	paths := make([]string, 0, len(chunks))
	for _, c := range chunks {
		p := filepath.Join(outDir, c.Name)
		if err := os.WriteFile(p, []byte(c.Text), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", c.Name, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// SplitFile splits one bulk file into inquiry files under outDir
func SplitFile(path, prefix, outDir string) ([]string, error) {
	raw, err := ReadFile(path, 0)
	if err != nil {
		return nil, err
	}
	return WriteChunks(outDir, Split(string(raw), prefix))
}

// PrefixFor derives a chunk prefix from a bulk file name,
// e.g. "hinglish_mix_emails.txt" gives "hinglish_mix"
func PrefixFor(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base = strings.TrimSuffix(base, "_emails")
	if i := strings.Index(base, "_emails_"); i > 0 {
		base = base[:i]
	}
	if base == "" {
		return "inquiry"
	}
	return base
}
