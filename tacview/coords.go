package tacview

// IsZero reports whether every field of c is absent. A Coords value
// with every field nil carries no information and should never be
// emitted.
func (c Coords) IsZero() bool {
	return c.Longitude == nil && c.Latitude == nil && c.Altitude == nil &&
		c.Roll == nil && c.Pitch == nil && c.Yaw == nil &&
		c.U == nil && c.V == nil && c.Heading == nil
}

// Delta yields a Coords in which a field is present iff the
// corresponding field of curr is present and differs from the
// corresponding field of prev. A field present in curr but absent from
// prev counts as differing (it is new information).
func (prev Coords) Delta(curr Coords) Coords {
	return Coords{
		Longitude: deltaField(prev.Longitude, curr.Longitude),
		Latitude:  deltaField(prev.Latitude, curr.Latitude),
		Altitude:  deltaField(prev.Altitude, curr.Altitude),
		Roll:      deltaField(prev.Roll, curr.Roll),
		Pitch:     deltaField(prev.Pitch, curr.Pitch),
		Yaw:       deltaField(prev.Yaw, curr.Yaw),
		U:         deltaField(prev.U, curr.U),
		V:         deltaField(prev.V, curr.V),
		Heading:   deltaField(prev.Heading, curr.Heading),
	}
}

func deltaField(prev, curr *float64) *float64 {
	if curr == nil {
		return nil
	}
	if prev != nil && *prev == *curr {
		return nil
	}
	return curr
}

// Merge returns c with every non-nil field of partial overwriting the
// corresponding field of c. Fields absent from partial are left as-is —
// this is how an entity's accumulated absolute position grows one
// partial update at a time.
func (c Coords) Merge(partial Coords) Coords {
	merged := c
	if partial.Longitude != nil {
		merged.Longitude = partial.Longitude
	}
	if partial.Latitude != nil {
		merged.Latitude = partial.Latitude
	}
	if partial.Altitude != nil {
		merged.Altitude = partial.Altitude
	}
	if partial.Roll != nil {
		merged.Roll = partial.Roll
	}
	if partial.Pitch != nil {
		merged.Pitch = partial.Pitch
	}
	if partial.Yaw != nil {
		merged.Yaw = partial.Yaw
	}
	if partial.U != nil {
		merged.U = partial.U
	}
	if partial.V != nil {
		merged.V = partial.V
	}
	if partial.Heading != nil {
		merged.Heading = partial.Heading
	}
	return merged
}
