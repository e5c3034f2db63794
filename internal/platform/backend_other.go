//go:build !linux

package platform

// New reports ErrUnsupported: only X11 on Linux is implemented.
func New(Options) (Backend, error) {
	return nil, ErrUnsupported
}
