package noise

import "math"

// Options controls fractal (fBm) sums of Perlin noise.
// Octaves is the number of layers; each layer multiplies frequency by Lacunarity and
// amplitude by Persistence. Base shifts the lattice so different bases give unrelated fields.
type Options struct {
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Base        int
}

// DefaultOptions returns a single octave with the usual persistence 0.5 and lacunarity 2.
func DefaultOptions() Options {
	return Options{
		Octaves:     1,
		Persistence: 0.5,
		Lacunarity:  2.0,
	}
}

func (o Options) withDefaults() Options {
	if o.Octaves <= 0 {
		o.Octaves = 1
	}
	if o.Persistence <= 0 {
		o.Persistence = 0.5
	}
	if o.Lacunarity <= 0 {
		o.Lacunarity = 2.0
	}
	return o
}

// Fractal3 sums o.Octaves layers of Perlin3 and divides by the total amplitude, so the
// result stays roughly in [-1, 1] regardless of octave count.
func Fractal3(x, y, z float64, o Options) float64 {
	o = o.withDefaults()
	var sum, maxAmp float64
	amp, freq := 1.0, 1.0
	offset := float64(o.Base)
	for i := 0; i < o.Octaves; i++ {
		sum += Perlin3(x*freq+offset, y*freq+offset, z*freq+offset) * amp
		maxAmp += amp
		amp *= o.Persistence
		freq *= o.Lacunarity
	}
	return sum / maxAmp
}

// Fractal2 is the two-dimensional counterpart of Fractal3.
func Fractal2(x, y float64, o Options) float64 {
	o = o.withDefaults()
	var sum, maxAmp float64
	amp, freq := 1.0, 1.0
	offset := float64(o.Base)
	for i := 0; i < o.Octaves; i++ {
		sum += Perlin2(x*freq+offset, y*freq+offset) * amp
		maxAmp += amp
		amp *= o.Persistence
		freq *= o.Lacunarity
	}
	return sum / maxAmp
}

// Perlin3 is improved Perlin gradient noise. It is zero on integer lattice points and
// smooth everywhere; output lies roughly in [-1, 1].
func Perlin3(x, y, z float64) float64 {
	xf, yf, zf := math.Floor(x), math.Floor(y), math.Floor(z)
	xi, yi, zi := int(xf)&255, int(yf)&255, int(zf)&255
	x, y, z = x-xf, y-yf, z-zf
	u, v, w := fade(x), fade(y), fade(z)

	a := perm[xi] + yi
	aa := perm[a] + zi
	ab := perm[a+1] + zi
	b := perm[xi+1] + yi
	ba := perm[b] + zi
	bb := perm[b+1] + zi

	return lerp(w,
		lerp(v,
			lerp(u, grad3(perm[aa], x, y, z), grad3(perm[ba], x-1, y, z)),
			lerp(u, grad3(perm[ab], x, y-1, z), grad3(perm[bb], x-1, y-1, z))),
		lerp(v,
			lerp(u, grad3(perm[aa+1], x, y, z-1), grad3(perm[ba+1], x-1, y, z-1)),
			lerp(u, grad3(perm[ab+1], x, y-1, z-1), grad3(perm[bb+1], x-1, y-1, z-1))))
}

// Perlin2 is two-dimensional gradient noise on the same permutation table as Perlin3.
func Perlin2(x, y float64) float64 {
	xf, yf := math.Floor(x), math.Floor(y)
	xi, yi := int(xf)&255, int(yf)&255
	x, y = x-xf, y-yf
	u, v := fade(x), fade(y)

	aa := perm[perm[xi]+yi]
	ab := perm[perm[xi]+yi+1]
	ba := perm[perm[xi+1]+yi]
	bb := perm[perm[xi+1]+yi+1]

	// grad2 reaches 1.5 on the diagonals; scale back towards [-1, 1].
	const norm = 1.0 / 1.5
	return norm * lerp(v,
		lerp(u, grad2(aa, x, y), grad2(ba, x-1, y)),
		lerp(u, grad2(ab, x, y-1), grad2(bb, x-1, y-1)))
}

// fade is Perlin's quintic easing 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func grad3(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := y
	if h < 8 {
		u = x
	}
	var v float64
	switch {
	case h < 4:
		v = y
	case h == 12 || h == 14:
		v = x
	default:
		v = z
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

func grad2(hash int, x, y float64) float64 {
	switch hash & 7 {
	case 0:
		return x + 0.5*y
	case 1:
		return -x + 0.5*y
	case 2:
		return x - 0.5*y
	case 3:
		return -x - 0.5*y
	case 4:
		return y + 0.5*x
	case 5:
		return -y + 0.5*x
	case 6:
		return y - 0.5*x
	default:
		return -y - 0.5*x
	}
}

// perm is Ken Perlin's reference permutation, repeated once so lookups never wrap.
var perm = func() [512]int {
	p := [256]int{
		151, 160, 137, 91, 90, 15, 131, 13, 201, 95, 96, 53, 194, 233, 7, 225,
		140, 36, 103, 30, 69, 142, 8, 99, 37, 240, 21, 10, 23, 190, 6, 148,
		247, 120, 234, 75, 0, 26, 197, 62, 94, 252, 219, 203, 117, 35, 11, 32,
		57, 177, 33, 88, 237, 149, 56, 87, 174, 20, 125, 136, 171, 168, 68, 175,
		74, 165, 71, 134, 139, 48, 27, 166, 77, 146, 158, 231, 83, 111, 229, 122,
		60, 211, 133, 230, 220, 105, 92, 41, 55, 46, 245, 40, 244, 102, 143, 54,
		65, 25, 63, 161, 1, 216, 80, 73, 209, 76, 132, 187, 208, 89, 18, 169,
		200, 196, 135, 130, 116, 188, 159, 86, 164, 100, 109, 198, 173, 186, 3, 64,
		52, 217, 226, 250, 124, 123, 5, 202, 38, 147, 118, 126, 255, 82, 85, 212,
		207, 206, 59, 227, 47, 16, 58, 17, 182, 189, 28, 42, 223, 183, 170, 213,
		119, 248, 152, 2, 44, 154, 163, 70, 221, 153, 101, 155, 167, 43, 172, 9,
		129, 22, 39, 253, 19, 98, 108, 110, 79, 113, 224, 232, 178, 185, 112, 104,
		218, 246, 97, 228, 251, 34, 242, 193, 238, 210, 144, 12, 191, 179, 162, 241,
		81, 51, 145, 235, 249, 14, 239, 107, 49, 192, 214, 31, 181, 199, 106, 157,
		184, 84, 204, 176, 115, 121, 50, 45, 127, 4, 150, 254, 138, 236, 205, 93,
		222, 114, 67, 29, 24, 72, 243, 141, 128, 195, 78, 66, 215, 61, 156, 180,
	}
	var out [512]int
	for i := range out {
		out[i] = p[i&255]
	}
	return out
}()
