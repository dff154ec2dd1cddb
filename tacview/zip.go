package tacview

import (
	"archive/zip"
	"fmt"
	"io"
)

// OpenZipEntry opens the single ACMI text entry inside a .zip.acmi
// archive and returns a Parser over its decompressed contents, along
// with the io.Closer that owns the decompression stream.
//
// ZIP/DEFLATE decoding itself is handled entirely by the standard
// library's archive/zip — this module never implements inflate.
func OpenZipEntry(r io.ReaderAt, size int64) (*Parser, io.Closer, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, nil, fmt.Errorf("opening zip-wrapped acmi: %w", err)
	}
	if len(zr.File) != 1 {
		return nil, nil, fmt.Errorf("zip-wrapped acmi must contain exactly one entry, found %d", len(zr.File))
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		return nil, nil, fmt.Errorf("opening zip entry %q: %w", zr.File[0].Name, err)
	}

	return NewParser(rc), rc, nil
}
