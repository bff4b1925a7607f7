//go:build !(darwin || linux)

package cray

// DefaultLibrary returns the file name tried when no path is configured.
func DefaultLibrary() string {
	return "c-ray.dll"
}

// Open is not available on this platform.
func Open(path string) (*Library, error) {
	return nil, ErrUnsupported
}
