package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/hack-pad/hackpadfs"

	"cray-scenes/internal/cray"
	"cray-scenes/internal/logger"
	"cray-scenes/internal/texture"
)

// LibRenderer renders frames in-process through the renderer library: a fresh renderer
// per frame loads the scene, takes Settings, renders and the result is encoded to the
// frame path.
type LibRenderer struct {
	Lib *cray.Library
	// Dir is the workspace root on disk; FS must be rooted at the same place.
	Dir      string
	FS       hackpadfs.FS
	Settings cray.Settings
	Log      *logger.Logger
}

// RenderFrame implements FrameRenderer.
func (l *LibRenderer) RenderFrame(ctx context.Context, scenePath, outputPath string) error {
	r, err := l.Lib.NewRenderer()
	if err != nil {
		return err
	}
	defer r.Close()

	scene := filepath.Join(l.Dir, filepath.FromSlash(scenePath))
	if err := r.Prefs().SetStr(cray.AssetPath, filepath.Dir(scene)+string(filepath.Separator)); err != nil {
		return err
	}
	if err := r.LoadJSON(scene); err != nil {
		return err
	}
	if err := r.Prefs().Apply(l.Settings); err != nil {
		return err
	}
	if l.Log != nil {
		last := -1
		err := r.SetCallback(cray.StatusUpdate, func(info *cray.CallbackInfo) {
			pct := int(info.Completion * 100)
			if pct/10 != last/10 {
				last = pct
				l.Log.Info("%s: %d%%, eta %dms", outputPath, pct, info.EtaMs)
			}
		})
		if err != nil {
			return err
		}
	}
	if err := r.RenderContext(ctx); err != nil {
		return err
	}

	img := r.Result().Image()
	if img == nil {
		return errors.New("batch: renderer produced no image")
	}
	var buf bytes.Buffer
	if err := texture.Encode(&buf, img, path.Ext(outputPath)); err != nil {
		return err
	}
	if err := hackpadfs.MkdirAll(l.FS, path.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if err := hackpadfs.WriteFullFile(l.FS, outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("batch: write %s: %w", outputPath, err)
	}
	return nil
}
