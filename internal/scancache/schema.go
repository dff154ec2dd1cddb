package scancache

import (
	"errors"

	stgpsr "github.com/yuin/stagparser"
)

// record is the shape of one scan-cache entry, tagged the way the
// teacher package tags its TileDB array structs: a "tiledb" tag naming
// the attribute's on-disk dtype. Nothing here builds an array — the
// cache stores each record as JSON-encoded group metadata — but parsing
// the struct tag the same way keeps the on-disk dtype declaration next
// to the field it describes instead of hand-written elsewhere.
type record struct {
	MinLongitude float64 `tiledb:"dtype=float64"`
	MinLatitude  float64 `tiledb:"dtype=float64"`
	AnchorLon    float64 `tiledb:"dtype=float64"`
	AnchorLat    float64 `tiledb:"dtype=float64"`
	OrigLon      float64 `tiledb:"dtype=float64"`
	OrigLat      float64 `tiledb:"dtype=float64"`
}

var errMissingDtype = errors.New("scancache: field missing dtype tag")

// recordDtypes returns the declared dtype of every field of record, keyed
// by field name, failing if any field omits the tag.
func recordDtypes() (map[string]string, error) {
	defs, err := stgpsr.ParseStruct(&record{}, "tiledb")
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(defs))
	for field, fieldDefs := range defs {
		var found string
		for _, def := range fieldDefs {
			if v, ok := def.Attribute("dtype"); ok {
				found = v.(string)
			}
		}
		if found == "" {
			return nil, errMissingDtype
		}
		out[field] = found
	}
	return out, nil
}
