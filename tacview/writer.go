package tacview

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Writer serialises Records back to ACMI text form. It tracks the
// number of bytes written so callers can report a compression ratio
// without a second pass over the output.
type Writer struct {
	w       io.Writer
	written int64
}

// NewWriter constructs a Writer over w. w should already be buffered by
// the caller (a *bufio.Writer wrapping stdout, typically).
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// BytesWritten returns the total number of bytes handed to the
// underlying writer so far.
func (w *Writer) BytesWritten() int64 {
	return w.written
}

// Write serialises a single Record.
func (w *Writer) Write(rec Record) error {
	switch r := rec.(type) {
	case GlobalPropertyRecord:
		return w.writeLine(fmt.Sprintf("0,%s=%s", r.Tag, escape(r.Value)))
	case EventRecord:
		return w.writeLine(fmt.Sprintf("0,Event=%s", escape(r.Raw)))
	case FrameRecord:
		return w.writeLine("#" + strconv.FormatFloat(r.Timestamp, 'f', -1, 64))
	case UpdateRecord:
		return w.writeUpdate(r)
	case RemoveRecord:
		return w.writeLine("-" + strconv.FormatUint(r.ID, 16))
	default:
		return fmt.Errorf("tacview: unknown record type %T", rec)
	}
}

func (w *Writer) writeUpdate(r UpdateRecord) error {
	if len(r.Props) == 0 {
		return nil
	}
	props := sortProps(r.Props)
	var b strings.Builder
	b.WriteString(strconv.FormatUint(r.ID, 16))
	for _, p := range props {
		b.WriteByte(',')
		b.WriteString(p.Tag)
		b.WriteByte('=')
		if p.Tag == TagCoords {
			b.WriteString(formatCoords(p.Coords))
		} else {
			b.WriteString(escape(p.Value))
		}
	}
	return w.writeLine(b.String())
}

// sortProps returns props in a canonical, tag-sorted order so emitted
// Updates are deterministic regardless of map-iteration order upstream
// (see SPEC_FULL.md's resolution of the property-ordering open
// question).
func sortProps(props []Property) []Property {
	sorted := make([]Property, len(props))
	copy(sorted, props)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tag < sorted[j].Tag })
	return sorted
}

func formatCoords(c Coords) string {
	fields := []*float64{c.Longitude, c.Latitude, c.Altitude, c.Roll, c.Pitch, c.Yaw, c.U, c.V, c.Heading}
	last := -1
	for i, f := range fields {
		if f != nil {
			last = i
		}
	}
	parts := make([]string, last+1)
	for i := 0; i <= last; i++ {
		if fields[i] != nil {
			parts[i] = strconv.FormatFloat(*fields[i], 'f', -1, 64)
		}
	}
	return strings.Join(parts, "|")
}

func escape(s string) string {
	if !strings.ContainsAny(s, ",\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		if s[i] == ',' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func (w *Writer) writeLine(line string) error {
	n, err := io.WriteString(w.w, line+"\n")
	w.written += int64(n)
	return err
}
