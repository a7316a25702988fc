//go:build !windows && !linux

package platform

// Open reports that no backend exists for this target.
func Open() (Backend, error) {
	return nil, ErrUnsupported
}
