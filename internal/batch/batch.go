// Package batch renders a camera orbit frame by frame. Each frame rewrites the camera
// transforms of a scene document, hands the scene to a FrameRenderer and checks that a
// valid image came out.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"github.com/hack-pad/hackpadfs"
	osfs "github.com/hack-pad/hackpadfs/os"

	"cray-scenes/internal/logger"
	"cray-scenes/internal/scenefile"
	"cray-scenes/internal/xform"
)

// ErrInvalidOutput is returned when a frame file exists but is not a recognizable image.
var ErrInvalidOutput = errors.New("batch: output is not a valid image")

// FrameRenderer renders the scene at scenePath into an image at outputPath. Both paths
// are slash-separated and relative to the batch workspace.
type FrameRenderer interface {
	RenderFrame(ctx context.Context, scenePath, outputPath string) error
}

// FrameResult records what happened to one frame.
type FrameResult struct {
	Index    int           `json:"index"`
	Output   string        `json:"output"`
	Skipped  bool          `json:"skipped"`
	Attempts int           `json:"attempts"`
	Duration time.Duration `json:"duration_ns"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
}

// Runner renders frames one after the other inside a workspace filesystem.
type Runner struct {
	FS       hackpadfs.FS
	Renderer FrameRenderer
	Log      *logger.Logger

	// ScenePath is where the per-frame scene is written.
	ScenePath string
	// OutputDir receives the frames, named with OutputPattern and the frame index.
	OutputDir     string
	OutputPattern string
	// Manifest is the JSON result file; empty disables it.
	Manifest string

	Attempts int
	Delay    time.Duration
	// Revalidate renders an existing frame again when it is not a recognizable image.
	// Otherwise any existing frame is skipped.
	Revalidate bool
}

// NewRunner returns a Runner with the default layout: input/tempscene.json and
// output/project/scene%03d.png, one attempt per frame.
func NewRunner(fsys hackpadfs.FS, r FrameRenderer, log *logger.Logger) *Runner {
	return &Runner{
		FS:            fsys,
		Renderer:      r,
		Log:           log,
		ScenePath:     "input/tempscene.json",
		OutputDir:     "output/project",
		OutputPattern: "scene%03d.png",
		Manifest:      "output/project/manifest.json",
		Attempts:      1,
	}
}

// FramePath returns the output path of frame i.
func (r *Runner) FramePath(i int) string {
	return path.Join(r.OutputDir, fmt.Sprintf(r.OutputPattern, i))
}

// Run renders every frame of frames, setting the camera transforms of doc to each in turn.
// Frames whose output already exists are skipped; with Revalidate only those holding a
// valid image are. A failed frame is
// recorded and the run moves on; the returned error then reports how many failed.
// Cancelling ctx stops the run between frames and between attempts.
func (r *Runner) Run(ctx context.Context, doc *scenefile.Document, frames []xform.List) ([]FrameResult, error) {
	if r.Log == nil {
		r.Log = logger.Discard()
	}
	if err := hackpadfs.MkdirAll(r.FS, r.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	results := make([]FrameResult, 0, len(frames))
	failed := 0
	var runErr error
	for i, cam := range frames {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		res := r.frame(ctx, doc, i, cam)
		results = append(results, res)
		if res.Err != nil {
			failed++
			if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
				runErr = res.Err
				break
			}
		}
	}
	if err := r.writeManifest(results); err != nil && runErr == nil {
		runErr = err
	}
	if runErr == nil && failed > 0 {
		runErr = fmt.Errorf("batch: %d of %d frames failed", failed, len(frames))
	}
	return results, runErr
}

func (r *Runner) frame(ctx context.Context, doc *scenefile.Document, i int, cam xform.List) (res FrameResult) {
	start := time.Now()
	res = FrameResult{Index: i, Output: r.FramePath(i)}
	defer func() {
		res.Duration = time.Since(start)
	}()

	switch err := r.Validate(res.Output); {
	case err == nil:
		res.Skipped = true
		r.Log.Info("frame %d: %s exists, skipping", i, res.Output)
		return res
	case errors.Is(err, ErrInvalidOutput) && !r.Revalidate:
		res.Skipped = true
		r.Log.Warn("frame %d: %s exists but is not an image, skipping", i, res.Output)
		return res
	case errors.Is(err, ErrInvalidOutput):
		r.Log.Warn("frame %d: %s is not an image, rendering again", i, res.Output)
	}

	if err := r.writeScene(doc, cam); err != nil {
		res.Err = err
		res.Error = err.Error()
		r.Log.Error("frame %d: %v", i, err)
		return res
	}

	attempts := max(r.Attempts, 1)
	var err error
	for res.Attempts < attempts {
		res.Attempts++
		err = r.Renderer.RenderFrame(ctx, r.ScenePath, res.Output)
		if err == nil {
			err = r.Validate(res.Output)
		}
		if err == nil {
			r.Log.Info("frame %d: rendered %s", i, res.Output)
			break
		}
		if ctx.Err() != nil {
			err = ctx.Err()
			break
		}
		if res.Attempts < attempts {
			r.Log.Warn("frame %d: attempt %d failed: %v", i, res.Attempts, err)
			if werr := sleep(ctx, r.Delay); werr != nil {
				err = werr
				break
			}
		}
	}
	if err != nil {
		res.Err = err
		res.Error = err.Error()
		r.Log.Error("frame %d: %v", i, err)
	}
	return res
}

func (r *Runner) writeScene(doc *scenefile.Document, cam xform.List) error {
	if err := doc.SetCameraTransforms(cam); err != nil {
		return err
	}
	data, err := doc.Bytes()
	if err != nil {
		return err
	}
	if err := hackpadfs.MkdirAll(r.FS, path.Dir(r.ScenePath), 0755); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if err := hackpadfs.WriteFullFile(r.FS, r.ScenePath, data, 0644); err != nil {
		return fmt.Errorf("batch: write scene: %w", err)
	}
	return nil
}

// Validate reports whether the file at p holds an image. A missing file yields an error
// matching fs.ErrNotExist; an unrecognized one ErrInvalidOutput.
func (r *Runner) Validate(p string) error {
	data, err := hackpadfs.ReadFile(r.FS, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("batch: %s: %w", p, fs.ErrNotExist)
		}
		return fmt.Errorf("batch: %w", err)
	}
	if !filetype.IsImage(data) {
		return fmt.Errorf("%w: %s", ErrInvalidOutput, p)
	}
	return nil
}

func (r *Runner) writeManifest(results []FrameResult) error {
	if r.Manifest == "" {
		return nil
	}
	data, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	if err := hackpadfs.MkdirAll(r.FS, path.Dir(r.Manifest), 0755); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if err := hackpadfs.WriteFullFile(r.FS, r.Manifest, data, 0644); err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// OSWorkspace returns a filesystem rooted at dir on the local disk.
func OSWorkspace(dir string) (hackpadfs.FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	root := strings.TrimPrefix(filepath.ToSlash(abs), "/")
	if root == "" {
		return osfs.NewFS(), nil
	}
	sub, err := osfs.NewFS().Sub(root)
	if err != nil {
		return nil, fmt.Errorf("batch: workspace %s: %w", dir, err)
	}
	return sub, nil
}

// WorkspacePath returns p as a slash-separated path relative to the workspace dir. A
// relative p is taken as relative to dir already; an absolute one must lie inside dir.
func WorkspacePath(dir, p string) (string, error) {
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("batch: %w", err)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("batch: %w", err)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("batch: %s is outside the workspace %s", p, dir)
	}
	return filepath.ToSlash(rel), nil
}
