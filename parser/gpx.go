package parser

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/datapod/health-parser/schema/applehealth"
)

// scanRoute turns one GPX file into a route table, one row per trkpt in
// document order. Track points must sit inside trk/trkseg.
func (r *run) scanRoute(name string, src io.Reader) error {
	key := r.layout.RouteKey(name)
	if _, dup := r.tables[key]; dup {
		return fmt.Errorf("%w: route %s appears twice", applehealth.ErrArchiveCorrupt, key)
	}
	table := r.table(key, applehealth.TrackPointColumns)
	r.result.Routes++

	dec := newDecoder(src)
	var stack []string
	sawRoot := false
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
			sawRoot = true
			if t.Name.Local != applehealth.TagTrackPoint {
				stack = append(stack, t.Name.Local)
				continue
			}
			if len(stack) < 2 || stack[len(stack)-1] != "trkseg" || stack[len(stack)-2] != "trk" {
				return fmt.Errorf("%w: %s: trkpt outside trk/trkseg", applehealth.ErrSchemaMismatch, name)
			}
			r.arena.Reset()
			el, err := r.arena.Build(dec, t)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", applehealth.ErrArchiveCorrupt, name, err)
			}
			row, err := applehealth.ConvertTrackPoint(el)
			if err != nil {
				return fmt.Errorf("%s point %d: %w", name, table.Len()+1, err)
			}
			if err := table.Append(row); err != nil {
				return err
			}
			r.result.TrackPoints++
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	r.arena.Reset()

	if !sawRoot {
		return fmt.Errorf("%w: %s has no root element", applehealth.ErrArchiveCorrupt, name)
	}
	return nil
}
