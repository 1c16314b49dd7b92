package shader

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Sources are the texts of the two shader stages.
type Sources struct {
	Vertex   string
	Fragment string
}

// LoadSources reads the vertex and fragment stage files from dir.
func LoadSources(dir, vertexFile, fragmentFile string) (Sources, error) {
	vs, err := os.ReadFile(filepath.Join(dir, vertexFile))
	if err != nil {
		return Sources{}, fmt.Errorf("failed to read vertex shader: %w", err)
	}
	fs, err := os.ReadFile(filepath.Join(dir, fragmentFile))
	if err != nil {
		return Sources{}, fmt.Errorf("failed to read fragment shader: %w", err)
	}
	return Sources{Vertex: string(vs), Fragment: string(fs)}, nil
}

// Digest identifies the pair of sources.
func (s Sources) Digest() string {
	h := sha256.New()
	h.Write([]byte(s.Vertex))
	h.Write([]byte{0})
	h.Write([]byte(s.Fragment))
	return hex.EncodeToString(h.Sum(nil))
}
