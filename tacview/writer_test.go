package tacview

import (
	"strings"
	"testing"
)

func mustWrite(t *testing.T, recs ...Record) string {
	t.Helper()
	var b strings.Builder
	w := NewWriter(&b)
	for _, r := range recs {
		if err := w.Write(r); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if int64(b.Len()) != w.BytesWritten() {
		t.Errorf("BytesWritten %d does not match actual output length %d", w.BytesWritten(), b.Len())
	}
	return b.String()
}

func TestWriter_GlobalProperty(t *testing.T) {
	got := mustWrite(t, GlobalPropertyRecord{Tag: TagReferenceLatitude, Value: "10.5"})
	if want := "0,ReferenceLatitude=10.5\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_Event(t *testing.T) {
	got := mustWrite(t, EventRecord{Raw: "Message|Pilot1|hello"})
	if want := "0,Event=Message|Pilot1|hello\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_Frame(t *testing.T) {
	got := mustWrite(t, FrameRecord{Timestamp: 12.5})
	if want := "#12.5\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_Remove(t *testing.T) {
	got := mustWrite(t, RemoveRecord{ID: 0x64})
	if want := "-64\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_UpdateSortsPropertiesByTag(t *testing.T) {
	lon, lat := 1.0, 2.0
	got := mustWrite(t, UpdateRecord{
		ID: 0x64,
		Props: []Property{
			{Tag: "Name", Value: "F-16"},
			{Tag: TagCoords, Coords: Coords{Longitude: &lon, Latitude: &lat}},
		},
	})
	// "Name" < "T" lexicographically, so Name comes first regardless of
	// input order.
	if want := "64,Name=F-16,T=1|2\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_UpdateWithNoPropertiesWritesNothing(t *testing.T) {
	got := mustWrite(t, UpdateRecord{ID: 0x64})
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestWriter_EscapesCommaAndBackslash(t *testing.T) {
	got := mustWrite(t, UpdateRecord{ID: 1, Props: []Property{{Tag: "Pilot", Value: `Smith, J\ones`}}})
	if want := `1,Pilot=Smith\, J\\ones` + "\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_CoordsOmitsTrailingAbsentFields(t *testing.T) {
	lon, lat, alt := 1.0, 2.0, 3.0
	got := mustWrite(t, UpdateRecord{
		ID: 1,
		Props: []Property{
			{Tag: TagCoords, Coords: Coords{Longitude: &lon, Latitude: &lat, Altitude: &alt}},
		},
	})
	if want := "1,T=1|2|3\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_CoordsBlanksInteriorAbsentFields(t *testing.T) {
	lon, alt := 1.0, 3.0
	got := mustWrite(t, UpdateRecord{
		ID: 1,
		Props: []Property{
			{Tag: TagCoords, Coords: Coords{Longitude: &lon, Altitude: &alt}},
		},
	})
	if want := "1,T=1||3\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
