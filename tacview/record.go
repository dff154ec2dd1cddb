// Package tacview implements a minimal reader and writer for the ACMI
// flight-recorder text format used by the Tacview analysis tool.
//
// It exposes a stream of typed Records and a Writer that serialises them
// back to the same text form. Everything in this module's rewriter
// package treats the format as an opaque wire protocol and only depends
// on the types declared here.
package tacview

// Record is the sum type yielded by Parser.Next and accepted by
// Writer.Write. It is implemented by GlobalPropertyRecord, EventRecord,
// FrameRecord, UpdateRecord and RemoveRecord.
type Record interface {
	isRecord()
}

// GlobalPropertyRecord carries one global header property, e.g.
// ReferenceLatitude, ReferenceLongitude, or an arbitrary opaque
// Name=Value pair such as FileType or RecordingTime.
type GlobalPropertyRecord struct {
	Tag   string
	Value string
}

func (GlobalPropertyRecord) isRecord() {}

// Well-known global property tags. Any other tag is opaque and passed
// through unchanged.
const (
	TagReferenceLatitude  = "ReferenceLatitude"
	TagReferenceLongitude = "ReferenceLongitude"
)

// EventRecord is a discrete, timestamped event line (e.g. a "Message" or
// "Bookmark" event). Its contents are opaque to the rewriter; it is
// passed through unchanged.
type EventRecord struct {
	Raw string
}

func (EventRecord) isRecord() {}

// FrameRecord marks the start of a new frame at the given absolute
// timestamp, in seconds since the start of the recording.
type FrameRecord struct {
	Timestamp float64
}

func (FrameRecord) isRecord() {}

// UpdateRecord is a state update for one entity. Props carries one
// Property per changed or present attribute; order is not significant on
// the wire, but Writer emits them in a canonical order (see sortProps).
type UpdateRecord struct {
	ID    uint64
	Props []Property
}

func (UpdateRecord) isRecord() {}

// RemoveRecord marks an entity as no longer present in the trace.
type RemoveRecord struct {
	ID uint64
}

func (RemoveRecord) isRecord() {}

// PropertyTag identifies a property's kind within an entity, independent
// of its value. The Tacview wire format keys properties by name, so the
// tag is simply that name; TagCoords is the one structurally special
// case, carrying a Coords value instead of an opaque string.
type PropertyTag = string

// TagCoords is the reserved property tag for positional/attitude data.
const TagCoords PropertyTag = "T"

// Property is one Name=Value entry of an Update record. Tag is the
// property's identity (spec: "the variant tag, not value"). Exactly one
// of Coords or Value is meaningful: Coords when Tag == TagCoords, Value
// otherwise.
type Property struct {
	Tag    PropertyTag
	Coords Coords
	Value  string
}

// Coords is the decoded form of a "T" property: up to nine optional
// fields, matching the Tacview object-coordinates layout. A nil field
// means "unchanged since the entity's last coordinate update" — it is
// simply absent from the wire encoding, not zero.
type Coords struct {
	Longitude *float64
	Latitude  *float64
	Altitude  *float64
	Roll      *float64
	Pitch     *float64
	Yaw       *float64
	U         *float64
	V         *float64
	Heading   *float64
}
