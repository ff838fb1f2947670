package file

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFile writes content under dir, creating parents.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// writeNPY writes a version 1.0 .npy file holding rows as little-endian
// float32 (or float64 when wide is set) in C order.
func writeNPY(t *testing.T, path string, rows [][]float32, wide bool) {
	t.Helper()

	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	descr := "<f4"
	if wide {
		descr = "<f8"
	}
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%d, %d), }", descr, len(rows), cols)
	// magic(6) + version(2) + length(2) + header + newline, padded to 64 bytes
	pad := 64 - (10+len(header)+1)%64
	if pad == 64 {
		pad = 0
	}
	header += strings.Repeat(" ", pad) + "\n"

	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY")
	buf.Write([]byte{1, 0})
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(len(header))))
	buf.WriteString(header)
	for _, row := range rows {
		for _, v := range row {
			if wide {
				require.NoError(t, binary.Write(&buf, binary.LittleEndian, math.Float64bits(float64(v))))
			} else {
				require.NoError(t, binary.Write(&buf, binary.LittleEndian, math.Float32bits(v)))
			}
		}
	}

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}
