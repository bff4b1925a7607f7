package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"cray-scenes/internal/assets"
	"cray-scenes/internal/batch"
	"cray-scenes/internal/commands"
	"cray-scenes/internal/mesh"
	"cray-scenes/internal/preview"
	"cray-scenes/internal/scatter"
	"cray-scenes/internal/scenefile"
)

func (a *app) registerScene() {
	a.reg.Register("lava", "scatter lava drops into a scene file", func(fs *flag.FlagSet) commands.RunFunc {
		o := scatter.DefaultOptions()
		scene := fs.String("scene", "input/test.json", "scene file to edit")
		out := fs.String("out", "", "output scene (default: overwrite -scene)")
		fs.IntVar(&o.Count, "count", o.Count, "number of drops")
		fs.Int64Var(&o.Seed, "seed", o.Seed, "random seed")
		fs.Float64Var(&o.Gravity, "gravity", o.Gravity, "downward acceleration")
		return func(ctx context.Context) error {
			doc, err := scenefile.Load(*scene)
			if err != nil {
				return err
			}
			removed, err := scatter.Merge(doc, scatter.Generate(o))
			if err != nil {
				return err
			}
			dst := *out
			if dst == "" {
				dst = *scene
			}
			if err := doc.Save(dst); err != nil {
				return err
			}
			a.log.Info("wrote %s: replaced %d %s placements with %d", dst, removed, scatter.LavaMesh, o.Count)
			return nil
		}
	})
	a.reg.Register("merge", "flatten a scene's meshes into one OBJ", func(fs *flag.FlagSet) commands.RunFunc {
		scene := fs.String("scene", "input/volcanic_archipelago.json", "scene file")
		dir := fs.String("dir", "input", "directory holding the scene's OBJ files")
		out := fs.String("out", "scene.obj", "output OBJ")
		return func(ctx context.Context) error {
			doc, err := scenefile.Load(*scene)
			if err != nil {
				return err
			}
			cache := map[string]*mesh.Mesh{}
			m, err := doc.MergeMeshes(func(name string) (*mesh.Mesh, error) {
				if m, ok := cache[name]; ok {
					return m, nil
				}
				m, err := mesh.LoadOBJ(filepath.Join(*dir, filepath.FromSlash(name)))
				if err != nil {
					return nil, err
				}
				cache[name] = m
				return m, nil
			}, scenefile.InvertedMeshes)
			if err != nil {
				return err
			}
			if err := mesh.SaveOBJ(*out, m, mesh.DefaultOBJOptions()); err != nil {
				return err
			}
			a.log.Info("wrote %s: %d mesh files, %d vertices, %d faces", *out, len(cache), len(m.Vertices), len(m.Faces))
			return nil
		}
	})
	a.reg.Register("preview", "show an OBJ in a window", func(fs *flag.FlagSet) commands.RunFunc {
		o := preview.DefaultOptions()
		fs.IntVar(&o.Budget, "budget", o.Budget, "maximum triangles drawn")
		return func(ctx context.Context) error {
			if fs.NArg() != 1 {
				return errors.New("usage: preview [-budget n] file.obj")
			}
			m, err := mesh.LoadOBJ(fs.Arg(0))
			if err != nil {
				return err
			}
			o.Title = "crayscene - " + filepath.Base(fs.Arg(0))
			return preview.Show(m, o)
		}
	})
	a.reg.Register("fetch", "download scene assets into the workspace", func(fs *flag.FlagSet) commands.RunFunc {
		dir := fs.String("dir", "input", "destination, relative to the workspace")
		unzip := fs.Bool("unzip", true, "extract downloaded zip packs")
		return func(ctx context.Context) error {
			if fs.NArg() == 0 {
				return errors.New("usage: fetch [-dir input] url...")
			}
			fsys, err := batch.OSWorkspace(a.prefs.Workspace)
			if err != nil {
				return err
			}
			for _, u := range fs.Args() {
				saved, err := assets.Fetch(ctx, nil, u, fsys, *dir)
				if err != nil {
					return err
				}
				a.log.Info("fetched %s", saved)
				if !*unzip || !strings.HasSuffix(saved, ".zip") {
					continue
				}
				files, err := assets.Unzip(fsys, saved, *dir)
				if err != nil {
					return err
				}
				a.log.Info("extracted %d files from %s", len(files), saved)
			}
			return nil
		}
	})
	a.reg.Register("run", "run the commands listed in a script file", func(fs *flag.FlagSet) commands.RunFunc {
		return func(ctx context.Context) error {
			if fs.NArg() != 1 {
				return errors.New("usage: run script.txt")
			}
			f, err := os.Open(fs.Arg(0))
			if err != nil {
				return err
			}
			defer f.Close()
			return a.reg.ExecuteScript(ctx, f)
		}
	})
}
