// Package writer encodes a post-processed film into the PPM image format.
package writer

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/guglielmo-pathtracer/raytracer/pkg/film"
)

const maxPPMValue = 255

// WritePPM writes f's pixel buffer (already clamped to [0, 1] by
// ApplyPostProcessing) as a plain-text PPM (P3) to w.
func WritePPM(w io.Writer, f *film.Film) error {
	buf := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(buf, "P3\n%d %d\n%d\n", f.Width, f.Height, maxPPMValue); err != nil {
		return err
	}

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.At(x, y)
			r := int(maxPPMValue*c.X + 0.5)
			g := int(maxPPMValue*c.Y + 0.5)
			b := int(maxPPMValue*c.Z + 0.5)
			if _, err := fmt.Fprintf(buf, "%d %d %d\n", clampByte(r), clampByte(g), clampByte(b)); err != nil {
				return err
			}
		}
	}

	return buf.Flush()
}

// WritePPMFile opens (or creates) path and writes f to it.
func WritePPMFile(path string, f *film.Film) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer file.Close()
	return WritePPM(file, f)
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > maxPPMValue {
		return maxPPMValue
	}
	return v
}
