package main

import (
	"context"
	"flag"

	"cray-scenes/internal/commands"
	"cray-scenes/internal/heightfield"
	"cray-scenes/internal/mesh"
	"cray-scenes/internal/texture"
)

func (a *app) registerGenerators() {
	a.reg.Register("volcano", "write the volcano terrain OBJ", func(fs *flag.FlagSet) commands.RunFunc {
		out := fs.String("out", "input/tempvolcano.obj", "output OBJ")
		noisy := fs.Bool("noise", true, "add Perlin noise to the heights")
		return func(ctx context.Context) error {
			o := heightfield.VolcanoOptions()
			if !*noisy {
				o.Noise = nil
			}
			return a.writeHeightfield(*out, o)
		}
	})
	a.reg.Register("island", "write the island OBJ with normals", func(fs *flag.FlagSet) commands.RunFunc {
		out := fs.String("out", "input/island3.obj", "output OBJ")
		return func(ctx context.Context) error {
			return a.writeHeightfield(*out, heightfield.IslandOptions())
		}
	})
	a.reg.Register("water", "write the water surface OBJ with normals", func(fs *flag.FlagSet) commands.RunFunc {
		out := fs.String("out", "input/water_surface.obj", "output OBJ")
		t := fs.Float64("time", 0, "animation time of the swell")
		return func(ctx context.Context) error {
			o := heightfield.WaterOptions()
			o.Height = heightfield.WaterSurface(0.25, 0.35, 2, *t)
			return a.writeHeightfield(*out, o)
		}
	})
	a.reg.Register("sphere", "write a UV sphere OBJ", func(fs *flag.FlagSet) commands.RunFunc {
		out := fs.String("out", "input/sphere10.obj", "output OBJ")
		radius := fs.Float64("radius", 1, "sphere radius")
		div := fs.Int("divisions", 10, "rings and segments")
		return func(ctx context.Context) error {
			m := mesh.Sphere(float32(*radius), *div)
			if err := mesh.SaveOBJ(*out, m, mesh.OBJOptions{Precision: 4, Header: "OBJ file"}); err != nil {
				return err
			}
			a.log.Info("wrote %s: %d vertices, %d faces", *out, len(m.Vertices), len(m.Faces))
			return nil
		}
	})
	a.reg.Register("texture", "paint the crater lava texture", func(fs *flag.FlagSet) commands.RunFunc {
		d := texture.DefaultOptions()
		out := fs.String("out", "input/fiery_texture.jpg", "output image (.jpg, .png, .bmp, .tif)")
		fs.IntVar(&d.Width, "width", d.Width, "image width")
		fs.IntVar(&d.Height, "height", d.Height, "image height")
		fs.Float64Var(&d.HoleRadius, "hole", d.HoleRadius, "crater hole radius in pixels")
		fs.Float64Var(&d.LavaRadius, "lava", d.LavaRadius, "lava radius in pixels")
		fs.Float64Var(&d.Blur, "blur", 0, "Gaussian blur radius")
		fs.IntVar(&d.Supersample, "supersample", 1, "supersampling factor")
		noisy := fs.Bool("noise", false, "redden with a Perlin noise overlay")
		return func(ctx context.Context) error {
			if *noisy {
				d.Noise = texture.DefaultNoise()
			}
			img, err := texture.Generate(d)
			if err != nil {
				return err
			}
			if err := texture.Save(*out, img); err != nil {
				return err
			}
			a.log.Info("wrote %s", *out)
			return nil
		}
	})
}

func (a *app) writeHeightfield(out string, o heightfield.Options) error {
	m, err := heightfield.Build(o)
	if err != nil {
		return err
	}
	if err := mesh.SaveOBJ(out, m, mesh.DefaultOBJOptions()); err != nil {
		return err
	}
	a.log.Info("wrote %s: %d vertices, %d faces", out, len(m.Vertices), len(m.Faces))
	return nil
}
