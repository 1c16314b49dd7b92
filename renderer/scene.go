package renderer

import (
	"fmt"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/richinsley/raylab/shader"
	xlate "github.com/richinsley/raylab/translator"
)

const sceneCacheSize = 8

// Scene is a shader program built from one version of the shader sources.
type Scene struct {
	Digest  string
	Program *shader.Program
	// Usable is false when the program failed to build or lacks the
	// camera uniforms; such a scene is kept alive but never drawn.
	Usable bool
}

// ShortDigest is a printable prefix of Digest.
func (s *Scene) ShortDigest() string {
	if len(s.Digest) > 12 {
		return s.Digest[:12]
	}
	return s.Digest
}

// Destroy releases the program.
func (s *Scene) Destroy() {
	if s == nil || s.Program == nil {
		return
	}
	s.Program.Delete()
}

// sceneCache keeps recently built usable scenes so that reloading a
// previous version of the sources reuses its program. Evicted scenes are
// destroyed.
type sceneCache struct {
	cache *lru.Cache[string, *Scene]
}

func newSceneCache() *sceneCache {
	cache, _ := lru.NewWithEvict[string, *Scene](sceneCacheSize, destroySceneOnEviction)
	return &sceneCache{cache: cache}
}

func destroySceneOnEviction(digest string, s *Scene) {
	log.Printf("Releasing cached scene %s", s.ShortDigest())
	s.Destroy()
}

func (c *sceneCache) Get(digest string) (*Scene, bool) {
	return c.cache.Get(digest)
}

func (c *sceneCache) Add(s *Scene) {
	c.cache.Add(s.Digest, s)
}

func (c *sceneCache) Contains(s *Scene) bool {
	cached, ok := c.cache.Peek(s.Digest)
	return ok && cached == s
}

func (c *sceneCache) Len() int {
	return c.cache.Len()
}

// Purge destroys every cached scene.
func (c *sceneCache) Purge() {
	c.cache.Purge()
}

// loadScene reads the sources and returns a scene for them, reusing a cached
// one when the sources are unchanged.
func (r *Host) loadScene() (*Scene, error) {
	src, err := shader.LoadSources(*r.options.ShaderDir, *r.options.VertexFile, *r.options.FragFile)
	if err != nil {
		return nil, err
	}

	digest := src.Digest()
	if scene, ok := r.scenes.Get(digest); ok {
		log.Printf("Reusing cached scene %s", scene.ShortDigest())
		return scene, nil
	}

	var opts []shader.Option
	if *r.options.Translate {
		translated, err := xlate.Translate(src)
		if err != nil {
			return nil, err
		}
		src = translated.Sources
		opts = append(opts, shader.WithResolver(translated.Resolve))
	}

	program, err := shader.Compile(r.dev, src.Vertex, src.Fragment, opts...)
	if err == nil {
		err = program.Require(CameraUniforms...)
	}

	scene := &Scene{Digest: digest, Program: program, Usable: err == nil}
	if err != nil {
		if *r.options.Strict {
			scene.Destroy()
			return nil, fmt.Errorf("failed to build shader program: %w", err)
		}
		log.Printf("Warning: shader program %d is not usable, frames will be blank: %v", program.Handle(), err)
		return scene, nil
	}

	r.scenes.Add(scene)
	return scene, nil
}

// activate makes scene current and declares the quad layout for its
// program. The previous scene is destroyed unless the cache still owns it.
func (r *Host) activate(scene *Scene) {
	old := r.scene
	r.scene = scene

	attrib := scene.Program.AttribLocation(PositionAttribute)
	if !r.quad.BindLayout(attrib) && scene.Usable {
		log.Printf("Warning: program %d does not declare attribute %s", scene.Program.Handle(), PositionAttribute)
	}

	if old != nil && old != scene && !r.scenes.Contains(old) {
		old.Destroy()
	}
}

// Reload rebuilds the program from the sources on disk. A source that does
// not produce a usable program leaves the current scene in place.
func (r *Host) Reload() error {
	log.Println("Reloading shaders...")
	scene, err := r.loadScene()
	if err != nil {
		log.Printf("Shader reload failed: %v", err)
		return err
	}
	if scene == r.scene {
		return nil
	}
	if !scene.Usable && r.scene != nil && r.scene.Usable {
		log.Println("Keeping the previous shader program")
		scene.Destroy()
		return nil
	}
	r.activate(scene)
	log.Printf("Switched to scene %s", scene.ShortDigest())
	return nil
}
