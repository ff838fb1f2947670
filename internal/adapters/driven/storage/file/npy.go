package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sbinet/npyio"
)

// loadEmbeddings reads a 2-D float32 or float64 .npy file into rows.
// A missing file returns (nil, nil).
func loadEmbeddings(path string) ([][]float32, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading npy header %s: %w", path, err)
	}

	shape := r.Header.Descr.Shape
	if len(shape) != 2 {
		return nil, fmt.Errorf("npy %s: expected 2-D array, got shape %v", path, shape)
	}
	rows, cols := shape[0], shape[1]

	var flat []float32
	switch r.Header.Descr.Type {
	case "<f4", "f4":
		if err := r.Read(&flat); err != nil {
			return nil, fmt.Errorf("reading npy data %s: %w", path, err)
		}
	case "<f8", "f8":
		var wide []float64
		if err := r.Read(&wide); err != nil {
			return nil, fmt.Errorf("reading npy data %s: %w", path, err)
		}
		flat = make([]float32, len(wide))
		for i, v := range wide {
			flat[i] = float32(v)
		}
	default:
		return nil, fmt.Errorf("npy %s: unsupported dtype %q", path, r.Header.Descr.Type)
	}

	if len(flat) != rows*cols {
		return nil, fmt.Errorf("npy %s: %d values for shape %v", path, len(flat), shape)
	}
	return reshape(flat, rows, cols, r.Header.Descr.Fortran), nil
}

func reshape(flat []float32, rows, cols int, fortran bool) [][]float32 {
	out := make([][]float32, rows)
	for i := range out {
		row := make([]float32, cols)
		for j := range row {
			if fortran {
				row[j] = flat[j*rows+i]
			} else {
				row[j] = flat[i*cols+j]
			}
		}
		out[i] = row
	}
	return out
}
