package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cray-scenes/internal/batch"
	"cray-scenes/internal/commands"
	"cray-scenes/internal/cray"
	"cray-scenes/internal/orbit"
	"cray-scenes/internal/scenefile"
)

func (a *app) registerRender() {
	a.reg.Register("orbit", "render camera orbit frames of a scene", func(fs *flag.FlagSet) commands.RunFunc {
		o := orbit.DefaultOptions()
		scene := fs.String("scene", "input/volcanic_archipelago.json", "scene file, relative to the workspace")
		fs.Float64Var(&o.From, "from", o.From, "first angle in degrees")
		fs.Float64Var(&o.To, "to", o.To, "last angle in degrees")
		fs.IntVar(&o.Frames, "frames", o.Frames, "number of frames")
		fs.Float64Var(&o.Radius, "radius", o.Radius, "orbit radius")
		fs.Float64Var(&o.Height, "height", o.Height, "camera height")
		mode := fs.String("renderer", "exec", "exec runs the renderer binary, lib calls the shared library")
		command := fs.String("command", "", "renderer command line; {scene} and {output} are substituted")
		attempts := fs.Int("attempts", a.prefs.Attempts, "tries per frame")
		revalidate := fs.Bool("revalidate", false, "render existing frames again when they are not images")
		return func(ctx context.Context) error {
			return a.renderOrbit(ctx, *scene, o, *mode, *command, *attempts, *revalidate)
		}
	})
	a.reg.Register("info", "print renderer library version", func(fs *flag.FlagSet) commands.RunFunc {
		constraint := fs.String("require", "", "fail unless the version satisfies this constraint")
		return func(ctx context.Context) error {
			lib, err := cray.Open(a.prefs.Library)
			if err != nil {
				return err
			}
			defer lib.Close()
			v, err := lib.Version()
			if err != nil {
				return err
			}
			fmt.Printf("c-ray %s (%s)\n", v, lib.GitHash())
			fmt.Println(a.prefs)
			if *constraint != "" {
				return lib.CheckVersion(*constraint)
			}
			return nil
		}
	})
	a.reg.Register("worker", "run a network render worker", func(fs *flag.FlagSet) commands.RunFunc {
		port := fs.Int("port", 2222, "listen port")
		threads := fs.Int("threads", 0, "thread limit, 0 for all cores")
		shutdown := fs.String("shutdown", "", "instead of serving, stop the workers in this host:port list")
		return func(ctx context.Context) error {
			lib, err := cray.Open(a.prefs.Library)
			if err != nil {
				return err
			}
			defer lib.Close()
			if *shutdown != "" {
				a.log.Info("shutting down %s", *shutdown)
				lib.SendShutdownToWorkers(*shutdown)
				return nil
			}
			a.log.Info("worker listening on %d", *port)
			lib.StartRenderWorker(*port, *threads)
			return nil
		}
	})
}

func (a *app) renderOrbit(ctx context.Context, scene string, o orbit.Options, mode, command string, attempts int, revalidate bool) error {
	ws := a.prefs.Workspace
	fsys, err := batch.OSWorkspace(ws)
	if err != nil {
		return err
	}
	doc, err := scenefile.Load(filepath.Join(ws, filepath.FromSlash(scene)))
	if err != nil {
		return err
	}

	var r batch.FrameRenderer
	switch mode {
	case "exec":
		e := batch.NewExecRenderer(fsys, ws, a.prefs.Binary)
		if command != "" {
			e.Command = command
			if strings.Contains(command, "{output}") {
				e.Rendered = ""
			}
		}
		e.Stdout, e.Stderr = os.Stdout, os.Stderr
		r = e
	case "lib":
		lib, err := cray.Open(a.prefs.Library)
		if err != nil {
			return err
		}
		defer lib.Close()
		s := a.prefs.Render
		r = &batch.LibRenderer{
			Lib: lib,
			Dir: ws,
			FS:  fsys,
			Settings: cray.Settings{
				Threads: uint64(s.Threads),
				Samples: uint64(s.Samples),
				Bounces: uint64(s.Bounces),
				Width:   uint64(s.Width),
				Height:  uint64(s.Height),
			},
			Log: a.log,
		}
	default:
		return fmt.Errorf("unknown renderer %q (want exec or lib)", mode)
	}

	out, err := batch.WorkspacePath(ws, a.prefs.OutputDir)
	if err != nil {
		return err
	}
	runner := batch.NewRunner(fsys, r, a.log)
	runner.OutputDir = out
	runner.Manifest = path.Join(runner.OutputDir, "manifest.json")
	runner.Attempts = attempts
	runner.Revalidate = revalidate
	if runner.Delay, err = a.prefs.Delay(); err != nil {
		return err
	}

	results, err := runner.Run(ctx, doc, orbit.Frames(o))
	skipped := 0
	for _, res := range results {
		if res.Skipped {
			skipped++
		}
	}
	a.log.Info("orbit: %d frames, %d skipped, manifest %s", len(results), skipped, runner.Manifest)
	return err
}
