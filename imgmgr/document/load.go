package document

import (
	"bytes"
	"image"
	"io"
	"os"

	// Decoders available to Load.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/oov/psd"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pkg/errors"

	"imgview/img"
)

// ErrUnsupported is returned for data no registered decoder recognises.
var ErrUnsupported = errors.New("document: unsupported document kind")

// Decode reads an image in any registered format.
func Decode(r io.Reader) (*img.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", errors.Wrap(err, "document: cannot read data")
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err == image.ErrFormat {
		return nil, "", ErrUnsupported
	}
	m, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, errors.Wrapf(err, "document: cannot decode %s image", format)
	}
	im := img.New(m)
	if im == nil {
		return nil, format, errors.New("document: image is empty")
	}
	return im, format, nil
}

// LoadFile decodes the image stored at path.
func LoadFile(path string) (*img.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", errors.Wrap(err, "document: cannot open file")
	}
	defer f.Close()
	return Decode(f)
}
