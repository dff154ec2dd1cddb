package rewriter

import (
	"fmt"
	"io"
	"math"

	"github.com/tacview-tools/acmi-compress/tacview"
)

// recordSource is the minimal interface ReadHeader, ScanMinOffsets and
// Pipeline need from a Reader;
// declared separately so tests can drive the scan logic without a real
// file on disk.
type recordSource interface {
	Next() (tacview.Record, error)
}

// Header carries the global properties collected before the first
// non-global Record, notably the original reference latitude/longitude
// that Anchor re-bases against.
type Header struct {
	ReferenceLatitude  float64
	ReferenceLongitude float64
	Extra              []tacview.GlobalPropertyRecord
}

// ReadHeader consumes GlobalPropertyRecords from r until the first
// Record of a different kind, which is returned alongside the Header so
// the caller does not lose it. ReferenceLatitude/ReferenceLongitude
// default to 0 if the trace never declares them.
func ReadHeader(r recordSource) (Header, tacview.Record, error) {
	var h Header
	for {
		rec, err := r.Next()
		if err == io.EOF {
			// The stream ended with nothing but header properties: a
			// legitimate, if minimal, trace. There is no non-global
			// Record to hand back to the caller.
			return h, nil, nil
		}
		if err != nil {
			return h, nil, err
		}
		g, ok := rec.(tacview.GlobalPropertyRecord)
		if !ok {
			return h, rec, nil
		}
		switch g.Tag {
		case tacview.TagReferenceLatitude:
			if _, err := fmt.Sscanf(g.Value, "%g", &h.ReferenceLatitude); err != nil {
				return h, nil, fmt.Errorf("parsing ReferenceLatitude %q: %w", g.Value, err)
			}
		case tacview.TagReferenceLongitude:
			if _, err := fmt.Sscanf(g.Value, "%g", &h.ReferenceLongitude); err != nil {
				return h, nil, fmt.Errorf("parsing ReferenceLongitude %q: %w", g.Value, err)
			}
		default:
			h.Extra = append(h.Extra, g)
		}
	}
}

// Anchor is the re-based reference point computed from a scan pass: the
// floor of the original reference coordinate plus the minimum observed
// offset on that axis.
type Anchor struct {
	Latitude  float64
	Longitude float64
}

// NewAnchor computes the re-based Anchor from a Header and the minimum
// Longitude/Latitude offsets observed across the trace's Update records.
func NewAnchor(h Header, minLon, minLat float64) Anchor {
	return Anchor{
		Latitude:  math.Floor(h.ReferenceLatitude + minLat),
		Longitude: math.Floor(h.ReferenceLongitude + minLon),
	}
}

// ScanMinOffsets walks the remainder of the stream (after ReadHeader has
// already consumed the header) and folds the minimum Longitude and
// Latitude across every T property encountered. Fields that are NaN are
// ignored by the fold rather than being allowed to propagate, since
// NaN's unordered comparisons would otherwise make the minimum
// meaningless (see SPEC_FULL.md's resolution of the NaN open question).
//
// firstRec is the non-global Record ReadHeader returned; it is folded in
// before continuing to read r.
func ScanMinOffsets(r recordSource, firstRec tacview.Record) (minLon, minLat float64, err error) {
	minLon, minLat = math.Inf(1), math.Inf(1)
	fold := func(rec tacview.Record) {
		up, ok := rec.(tacview.UpdateRecord)
		if !ok {
			return
		}
		for _, p := range up.Props {
			if p.Tag != tacview.TagCoords {
				continue
			}
			minLon = foldMin(minLon, p.Coords.Longitude)
			minLat = foldMin(minLat, p.Coords.Latitude)
		}
	}

	if firstRec != nil {
		fold(firstRec)
	}
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, err
		}
		fold(rec)
	}

	if math.IsInf(minLon, 1) {
		minLon = 0
	}
	if math.IsInf(minLat, 1) {
		minLat = 0
	}
	return minLon, minLat, nil
}

// foldMin folds f into the running minimum acc, treating a nil or NaN
// field as absent so it cannot corrupt the fold.
func foldMin(acc float64, f *float64) float64 {
	if f == nil || math.IsNaN(*f) {
		return acc
	}
	if *f < acc {
		return *f
	}
	return acc
}
