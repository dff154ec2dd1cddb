package rewriter

import (
	"io"

	"github.com/tacview-tools/acmi-compress/tacview"
)

// fakeReader replays a fixed slice of Records, satisfying recordSource
// without needing a real file on disk.
type fakeReader struct {
	recs []tacview.Record
	pos  int
}

func newFakeReader(recs []tacview.Record) *fakeReader {
	return &fakeReader{recs: recs}
}

func (f *fakeReader) Next() (tacview.Record, error) {
	if f.pos >= len(f.recs) {
		return nil, io.EOF
	}
	rec := f.recs[f.pos]
	f.pos++
	return rec, nil
}
