package batch

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path"
	"strings"

	"github.com/hack-pad/hackpadfs"
	"github.com/mattn/go-shellwords"
)

// DefaultCommand runs the renderer executable on the frame scene.
const DefaultCommand = "bin/c-ray {scene}"

// ExecRenderer renders a frame by running the renderer executable and moving the image it
// writes to the frame path. {scene} and {output} in Command are replaced by the frame's
// scene and output paths after the command line is split into arguments.
type ExecRenderer struct {
	Command string
	// Dir is the working directory of the process; FS must be rooted at the same place.
	Dir string
	FS  hackpadfs.FS
	// Rendered is the file the renderer writes; empty when the command writes {output} itself.
	Rendered string

	Stdout, Stderr io.Writer
}

// NewExecRenderer returns an ExecRenderer for the renderer binary at bin, which writes
// output/rendered_0000.png.
func NewExecRenderer(fsys hackpadfs.FS, dir, bin string) *ExecRenderer {
	cmd := DefaultCommand
	if bin != "" {
		cmd = strings.Replace(cmd, "bin/c-ray", shellQuote(bin), 1)
	}
	return &ExecRenderer{
		Command:  cmd,
		Dir:      dir,
		FS:       fsys,
		Rendered: "output/rendered_0000.png",
	}
}

// Args returns the process arguments for a frame.
func (e *ExecRenderer) Args(scenePath, outputPath string) ([]string, error) {
	args, err := shellwords.Parse(e.Command)
	if err != nil {
		return nil, fmt.Errorf("batch: parse command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("batch: command %q was not parsed correctly into content", e.Command)
	}
	r := strings.NewReplacer("{scene}", scenePath, "{output}", outputPath)
	for i := range args {
		args[i] = r.Replace(args[i])
	}
	return args, nil
}

// RenderFrame runs the renderer and moves its image to outputPath.
func (e *ExecRenderer) RenderFrame(ctx context.Context, scenePath, outputPath string) error {
	args, err := e.Args(scenePath, outputPath)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = e.Dir
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("batch: %s: %w", args[0], err)
	}
	if e.Rendered == "" || e.Rendered == outputPath {
		return nil
	}
	if err := hackpadfs.MkdirAll(e.FS, path.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if err := hackpadfs.Rename(e.FS, e.Rendered, outputPath); err != nil {
		return fmt.Errorf("batch: move rendered image: %w", err)
	}
	return nil
}

func shellQuote(s string) string {
	if !strings.ContainsAny(s, " \t\n'\"\\$`") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
