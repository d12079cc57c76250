package applehealth

import "fmt"

const motionContextKey = "HKMetadataKeyHeartRateMotionContext"

var recordRequiredAttrs = []string{"type", "sourceName", "startDate", "endDate"}

// ConvertRecord turns a Record element into a row of RecordColumnsFor(typeName).
// The first column holds the resolved type name.
func ConvertRecord(e *Element) (typeName string, row Row, err error) {
	if e.Name != TagRecord {
		return "", nil, fmt.Errorf("%w: record converter got <%s>", ErrSchemaMismatch, e.Name)
	}
	for _, attr := range recordRequiredAttrs {
		if _, ok := e.Attr(attr); !ok {
			return "", nil, fmt.Errorf("%w: record is missing %q", ErrSchemaMismatch, attr)
		}
	}

	typeName = ResolveRecordTypePrefix(e.AttrValue("type"))
	row = Row{
		typeName,
		e.AttrValue("unit"),
		e.AttrValue("value"),
		e.AttrValue("sourceName"),
		e.AttrValue("sourceVersion"),
		e.AttrValue("device"),
		e.AttrValue("creationDate"),
		e.AttrValue("startDate"),
		e.AttrValue("endDate"),
	}
	if typeName == HeartRateType {
		motion, err := heartRateMotionContext(e)
		if err != nil {
			return "", nil, err
		}
		row = append(row, motion)
	}
	return typeName, row, nil
}

func heartRateMotionContext(e *Element) (string, error) {
	for _, c := range e.Children {
		if c.Name != "MetadataEntry" || c.AttrValue("key") != motionContextKey {
			continue
		}
		return labelForCode(MotionContextCodes, c.AttrValue("value"))
	}
	return NotFound, nil
}
