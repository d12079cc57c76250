package applehealth

import "fmt"

var trackPointExtensions = []string{"speed", "course", "hAcc", "vAcc"}

// ConvertTrackPoint turns a GPX trkpt element into a row of TrackPointColumns.
// Every coordinate, child and extension value is required.
func ConvertTrackPoint(e *Element) (Row, error) {
	if e.Name != TagTrackPoint {
		return nil, fmt.Errorf("%w: track point converter got <%s>", ErrSchemaMismatch, e.Name)
	}
	row := make(Row, 0, len(TrackPointColumns))
	for _, attr := range []string{"lon", "lat"} {
		v, ok := e.Attr(attr)
		if !ok {
			return nil, fmt.Errorf("%w: trkpt is missing %q", ErrSchemaMismatch, attr)
		}
		row = append(row, v)
	}
	for _, child := range []string{"ele", "time"} {
		v, ok := e.ChildText(child)
		if !ok {
			return nil, fmt.Errorf("%w: trkpt is missing <%s>", ErrSchemaMismatch, child)
		}
		row = append(row, v)
	}

	ext := e.Child("extensions")
	if ext == nil {
		return nil, fmt.Errorf("%w: trkpt is missing <extensions>", ErrSchemaMismatch)
	}
	for _, child := range trackPointExtensions {
		v, ok := ext.ChildText(child)
		if !ok {
			return nil, fmt.Errorf("%w: trkpt extensions are missing <%s>", ErrSchemaMismatch, child)
		}
		row = append(row, v)
	}
	return row, nil
}
