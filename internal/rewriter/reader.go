// Package rewriter implements the two-pass ACMI stream-rewriting
// pipeline: a scan pass that finds the header and the minimum observed
// latitude/longitude, and a rewrite pass that re-anchors coordinates and
// emits a deduplicated, delta-encoded trace.
package rewriter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tacview-tools/acmi-compress/tacview"
)

// ErrStdinUnsupported is returned when the input path is "-". The
// two-pass design requires seeking back to the start of the file, which
// an os.Stdin pipe cannot do.
var ErrStdinUnsupported = errors.New("rewriter: reading from stdin is not supported, a seekable file is required")

// Reader provides repeatable access to the Records of an ACMI input
// file, plain or zip-wrapped. Rewind re-opens the parser at the start of
// the file so the same Reader can drive both the scan and rewrite
// passes.
type Reader struct {
	path   string
	file   *os.File
	isZip  bool
	parser *tacview.Parser
	closer io.Closer
}

// Open opens path for two-pass reading. Files ending in ".zip.acmi" are
// treated as a zip archive containing a single ACMI entry; all other
// paths are read as plain text.
func Open(path string) (*Reader, error) {
	if path == "-" {
		return nil, ErrStdinUnsupported
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	r := &Reader{
		path:  path,
		file:  f,
		isZip: strings.HasSuffix(strings.ToLower(path), ".zip.acmi"),
	}
	if err := r.Rewind(); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// Rewind seeks back to the start of the underlying file and constructs a
// fresh Parser, so a second pass can read the same Records again.
func (r *Reader) Rewind() error {
	if r.closer != nil {
		r.closer.Close()
		r.closer = nil
	}
	if _, err := r.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding %s: %w", r.path, err)
	}

	if r.isZip {
		info, err := r.file.Stat()
		if err != nil {
			return fmt.Errorf("stat %s: %w", r.path, err)
		}
		p, closer, err := tacview.OpenZipEntry(r.file, info.Size())
		if err != nil {
			return fmt.Errorf("opening zip entry in %s: %w", r.path, err)
		}
		r.parser = p
		r.closer = closer
		return nil
	}

	r.parser = tacview.NewParser(bufio.NewReaderSize(r.file, 64*1024))
	return nil
}

// Next returns the next Record, or io.EOF at end of stream.
func (r *Reader) Next() (tacview.Record, error) {
	return r.parser.Next()
}

// Size reports the on-disk size of the input file, used for reporting
// the original/rewritten byte-size ratio.
func (r *Reader) Size() (int64, error) {
	info, err := r.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", r.path, err)
	}
	return info.Size(), nil
}

// Close releases the underlying file (and zip entry stream, if any).
func (r *Reader) Close() error {
	if r.closer != nil {
		r.closer.Close()
	}
	return r.file.Close()
}
