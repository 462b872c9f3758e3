//go:build windows

package mmfile

import "os"

// Map reads the whole file; hives are small enough that mapping buys nothing here.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
