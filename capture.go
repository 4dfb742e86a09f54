package keycast

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
)

// Recorder writes rendered frames to a directory as a numbered PNG sequence
// (frame_00001.png, frame_00002.png, ...). Encoding the sequence into a video
// is left to external tools.
type Recorder struct {
	Dir    string
	frames int
	ready  bool
	pixels []byte
}

// NewRecorder returns a recorder writing into dir. The directory is created on
// the first capture.
func NewRecorder(dir string) *Recorder {
	return &Recorder{Dir: dir}
}

// Frames returns the number of frames written so far.
func (r *Recorder) Frames() int {
	return r.frames
}

// Capture reads back screen and writes it as the next frame.
func (r *Recorder) Capture(screen *ebiten.Image) error {
	r.frames++
	return r.write(screen, frameName(r.frames))
}

func (r *Recorder) write(screen *ebiten.Image, name string) error {
	if !r.ready {
		if err := os.MkdirAll(r.Dir, 0o755); err != nil {
			return fmt.Errorf("capture: mkdir %s: %w", r.Dir, err)
		}
		r.ready = true
	}

	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if cap(r.pixels) < 4*w*h {
		r.pixels = make([]byte, 4*w*h)
	}
	r.pixels = r.pixels[:4*w*h]
	screen.ReadPixels(r.pixels)

	path := filepath.Join(r.Dir, name)
	if err := writePNG(path, unpremultiply(r.pixels, w, h)); err != nil {
		return err
	}
	slog.Debug("frame captured", "path", path)
	return nil
}

// frameName returns the file name of the n-th frame (1-based).
func frameName(n int) string {
	return fmt.Sprintf("frame_%05d.png", n)
}

// unpremultiply converts premultiplied RGBA pixels to a straight-alpha NRGBA image.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
