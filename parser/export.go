package parser

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/datapod/health-parser/schema/applehealth"
)

// scanExport streams the export document. Only direct children of the root
// are converted; each one is built in the arena and released before the next.
func (r *run) scanExport(name string, src io.Reader) error {
	if r.sawExport {
		return fmt.Errorf("%w: second export document %s", applehealth.ErrArchiveCorrupt, name)
	}
	r.sawExport = true

	r.table(r.layout.ActivitySummaryKey(), applehealth.ActivitySummaryColumns)
	r.table(r.layout.WorkoutKey(), applehealth.MasterWorkoutColumns)

	dec := newDecoder(src)
	sawRoot := false
	depth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", applehealth.ErrArchiveCorrupt, name, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				if sawRoot {
					return fmt.Errorf("%w: %s has more than one root element", applehealth.ErrArchiveCorrupt, name)
				}
				if t.Name.Local != applehealth.TagHealthData {
					return fmt.Errorf("%w: %s root is <%s>", applehealth.ErrSchemaMismatch, name, t.Name.Local)
				}
				sawRoot = true
				depth++
				continue
			}

			switch t.Name.Local {
			case applehealth.TagActivitySummary, applehealth.TagRecord, applehealth.TagWorkout:
				r.arena.Reset()
				el, err := r.arena.Build(dec, t)
				if err != nil {
					return fmt.Errorf("%w: %s: %v", applehealth.ErrArchiveCorrupt, name, err)
				}
				if err := r.convert(el); err != nil {
					return err
				}
			default:
				if err := dec.Skip(); err != nil {
					return fmt.Errorf("%w: %s: %v", applehealth.ErrArchiveCorrupt, name, err)
				}
			}
		case xml.EndElement:
			depth--
		}
	}
	r.arena.Reset()

	if !sawRoot {
		return fmt.Errorf("%w: %s has no root element", applehealth.ErrArchiveCorrupt, name)
	}
	return nil
}

func (r *run) convert(el *applehealth.Element) error {
	switch el.Name {
	case applehealth.TagActivitySummary:
		row, err := applehealth.ConvertActivitySummary(el)
		if err != nil {
			return err
		}
		r.result.Summaries++
		return r.table(r.layout.ActivitySummaryKey(), applehealth.ActivitySummaryColumns).Append(row)

	case applehealth.TagRecord:
		typeName, row, err := applehealth.ConvertRecord(el)
		if err != nil {
			return err
		}
		key := r.layout.RecordKey(r.router.Route(typeName), typeName)
		r.result.Records++
		return r.table(key, applehealth.RecordColumnsFor(typeName)).Append(row)

	case applehealth.TagWorkout:
		row, err := applehealth.ConvertWorkout(el)
		if err != nil {
			return fmt.Errorf("workout starting %s: %w", el.AttrValue("startDate"), err)
		}
		r.result.Workouts++
		return r.table(r.layout.WorkoutKey(), applehealth.MasterWorkoutColumns).Append(row)
	}
	return nil
}
