package rewriter

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/samber/lo"
	"github.com/tacview-tools/acmi-compress/tacview"
)

// entityState is one entity's last-committed property set, keyed by
// property tag. Coordinate state is tracked as an absolute Coords value
// (accumulated via Coords.Merge) so Diff can compute a field-level delta
// against it; every other tag is tracked by its last committed opaque
// Value and diffed by equality.
type entityState struct {
	coords  tacview.Coords
	haveAny map[tacview.PropertyTag]string
}

// Diff is the per-entity property state machine: it suppresses
// unchanged records, emits minimal field-level deltas for coordinates,
// and re-anchors coordinate values against a newly computed Anchor.
type Diff struct {
	origLat, origLon float64
	anchor           Anchor
	entities         map[uint64]*entityState
	sawFrame         bool
	lastTS           float64
}

// NewDiff constructs a Diff that re-anchors coordinates read against
// orig (the header's original reference point) onto anchor (the newly
// computed reference): per SPEC_FULL.md's re-anchoring rule, a
// coordinate's emitted value is raw + orig.Reference{Lat,Lon} -
// anchor.{Latitude,Longitude}.
func NewDiff(orig Header, anchor Anchor) *Diff {
	return &Diff{
		origLat:  orig.ReferenceLatitude,
		origLon:  orig.ReferenceLongitude,
		anchor:   anchor,
		entities: make(map[uint64]*entityState),
	}
}

// Apply consumes one input Record and returns zero or one output Record.
// A nil, nil return means the input Record carried no new information
// and was suppressed.
func (d *Diff) Apply(rec tacview.Record) (tacview.Record, error) {
	switch r := rec.(type) {
	case tacview.GlobalPropertyRecord:
		switch r.Tag {
		case tacview.TagReferenceLatitude:
			r.Value = strconv.FormatFloat(d.anchor.Latitude, 'f', -1, 64)
		case tacview.TagReferenceLongitude:
			r.Value = strconv.FormatFloat(d.anchor.Longitude, 'f', -1, 64)
		}
		return r, nil
	case tacview.EventRecord:
		return r, nil
	case tacview.FrameRecord:
		if d.sawFrame && r.Timestamp == d.lastTS {
			return nil, nil
		}
		d.sawFrame, d.lastTS = true, r.Timestamp
		return r, nil
	case tacview.RemoveRecord:
		if _, ok := d.entities[r.ID]; !ok {
			// Removing an entity never seen carries no information —
			// silently compressed away rather than treated as an error.
			return nil, nil
		}
		delete(d.entities, r.ID)
		return r, nil
	case tacview.UpdateRecord:
		return d.applyUpdate(r)
	default:
		return nil, fmt.Errorf("rewriter: unhandled record type %T", rec)
	}
}

func (d *Diff) applyUpdate(r tacview.UpdateRecord) (tacview.Record, error) {
	st, ok := d.entities[r.ID]
	if !ok {
		st = &entityState{haveAny: make(map[tacview.PropertyTag]string)}
		d.entities[r.ID] = st
	}

	// A single Update's wire-order Props can repeat a tag; collapse to
	// one Property per tag, later entry winning, before diffing against
	// st — otherwise an earlier entry for a repeated tag would be
	// diffed against the state the same loop iteration just committed
	// instead of against the prior record's committed state.
	collapsed := make(map[tacview.PropertyTag]tacview.Property, len(r.Props))
	for _, p := range r.Props {
		collapsed[p.Tag] = p
	}
	tags := lo.Keys(collapsed)
	sort.Strings(tags)

	out := make([]tacview.Property, 0, len(collapsed))
	for _, tag := range tags {
		p := collapsed[tag]
		if p.Tag == tacview.TagCoords {
			anchored, err := d.anchorCoords(p.Coords, st)
			if err != nil {
				return nil, err
			}
			if !anchored.IsZero() {
				out = append(out, tacview.Property{Tag: tacview.TagCoords, Coords: anchored})
			}
			continue
		}
		if prev, seen := st.haveAny[p.Tag]; seen && prev == p.Value {
			continue
		}
		st.haveAny[p.Tag] = p.Value
		out = append(out, p)
	}

	if len(out) == 0 {
		return nil, nil
	}
	return tacview.UpdateRecord{ID: r.ID, Props: out}, nil
}

// anchorCoords re-anchors an incoming, possibly-partial T property
// against the entity's accumulated absolute position, then returns the
// field-level delta against the entity's last emitted coordinate state.
//
// Re-anchored latitude and longitude must come out strictly positive —
// the anchor is computed as the floor of the true minimum observed
// value, so any well-formed trace produces positive coordinates after
// rebasing. A non-positive result means the scan pass and rewrite pass
// disagree about the data's extent, which is a programming error, not a
// recoverable input condition.
func (d *Diff) anchorCoords(incoming tacview.Coords, st *entityState) (tacview.Coords, error) {
	absolute := st.coords.Merge(incoming)
	anchored := absolute
	if incoming.Longitude != nil {
		v := *absolute.Longitude + d.origLon - d.anchor.Longitude
		if v <= 0 {
			panic(fmt.Sprintf("rewriter: re-anchored longitude %.6f is not positive (anchor %.6f)", v, d.anchor.Longitude))
		}
		anchored.Longitude = &v
	}
	if incoming.Latitude != nil {
		v := *absolute.Latitude + d.origLat - d.anchor.Latitude
		if v <= 0 {
			panic(fmt.Sprintf("rewriter: re-anchored latitude %.6f is not positive (anchor %.6f)", v, d.anchor.Latitude))
		}
		anchored.Latitude = &v
	}

	delta := st.coords.Delta(anchored)
	st.coords = st.coords.Merge(anchored)
	return delta, nil
}
