package translator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
	"github.com/richinsley/raylab/shader"
)

var (
	translator     *gst.ShaderTranslator
	translatorErr  error
	translatorOnce sync.Once
)

// GetTranslator returns the process-wide translator, starting it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		translator, translatorErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, translatorErr
}

// Translated holds desktop GLSL sources produced from WebGL2 GLSL ES input
// and the identifier renames the translation applied.
type Translated struct {
	Sources shader.Sources
	mapped  map[string]string
}

// Translate converts both stages to GLSL 410.
func Translate(src shader.Sources) (*Translated, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("failed to start shader translator: %w", err)
	}

	vs, err := t.TranslateShader(src.Vertex, "vertex", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return nil, fmt.Errorf("vertex shader translation failed: %w", err)
	}
	fs, err := t.TranslateShader(src.Fragment, "fragment", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}

	mapped := make(map[string]string)
	for name, v := range vs.Variables {
		mapped[name] = v.MappedName
	}
	for name, v := range fs.Variables {
		mapped[name] = v.MappedName
	}

	return &Translated{
		Sources: shader.Sources{Vertex: vs.Code, Fragment: fs.Code},
		mapped:  mapped,
	}, nil
}

// NewTranslated builds a Translated from already translated sources and
// their rename table.
func NewTranslated(src shader.Sources, mapped map[string]string) *Translated {
	m := make(map[string]string, len(mapped))
	for k, v := range mapped {
		m[k] = v
	}
	return &Translated{Sources: src, mapped: m}
}

// Resolve maps a name as written in the original source to its name in the
// translated program. Struct members follow their uniform: when the
// uniform itself was renamed, members carry the translator's "_u" prefix.
func (t *Translated) Resolve(name string) string {
	if m, ok := t.mapped[name]; ok {
		return m
	}
	head, rest, found := strings.Cut(name, ".")
	m, ok := t.mapped[head]
	if !found || !ok {
		return name
	}
	if m == head {
		return name
	}
	fields := strings.Split(rest, ".")
	for i, f := range fields {
		fields[i] = "_u" + f
	}
	return m + "." + strings.Join(fields, ".")
}
