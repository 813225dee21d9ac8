package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	domdoc "github.com/kailas-cloud/geodocs/internal/domain/document"
	"github.com/kailas-cloud/geodocs/internal/domain/geo"
)

// storedDocument is the JSON shape persisted under a document key. Location
// is a GeoJSON Point with [lon, lat] ordering; the flat latitude/longitude
// pair is a legacy representation still honored on read. Geo holds the
// unit-sphere vector the proximity index ranks against.
type storedDocument struct {
	Title     string          `json:"title"`
	Author    string          `json:"author"`
	Content   string          `json:"content"`
	Date      string          `json:"date"`
	Location  json.RawMessage `json:"location,omitempty"`
	Latitude  *float64        `json:"latitude,omitempty"`
	Longitude *float64        `json:"longitude,omitempty"`
	Geo       []float32       `json:"geo,omitempty"`
}

// buildStoredDocument converts a domain Document into its persisted shape.
func buildStoredDocument(doc *domdoc.Document) (*storedDocument, error) {
	sd := &storedDocument{
		Title:   doc.Title(),
		Author:  doc.Author(),
		Content: doc.Content(),
		Date:    doc.Date(),
	}
	if c := doc.Coordinates(); c != nil {
		raw, err := geojson.Marshal(geom.NewPointFlat(geom.XY, []float64{c.Lon, c.Lat}))
		if err != nil {
			return nil, fmt.Errorf("encode location: %w", err)
		}
		sd.Location = raw
		sd.Geo = geo.ToVector(c.Lat, c.Lon)
	}
	return sd, nil
}

// toDocument converts the persisted shape back into a domain Document.
func (sd *storedDocument) toDocument(id string) domdoc.Document {
	return domdoc.Reconstruct(id, sd.Title, sd.Author, sd.Content, sd.Date, sd.coordinates())
}

// coordinates resolves the stored location, preferring the GeoJSON point over
// the legacy flat fields. Malformed or out-of-range locations resolve to nil.
func (sd *storedDocument) coordinates() *geo.Coordinates {
	if len(sd.Location) > 0 {
		var g geom.T
		if err := geojson.Unmarshal(sd.Location, &g); err == nil {
			if pt, ok := g.(*geom.Point); ok {
				c := geo.Coordinates{Lat: pt.Y(), Lon: pt.X()}
				if c.Valid() {
					return &c
				}
			}
		}
	}
	if sd.Latitude != nil && sd.Longitude != nil {
		c := geo.Coordinates{Lat: *sd.Latitude, Lon: *sd.Longitude}
		if c.Valid() {
			return &c
		}
	}
	return nil
}

// parseStored decodes a JSON.GET payload, unwrapping the array envelope the
// "$" path produces.
func parseStored(raw []byte) (*storedDocument, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var arr []storedDocument
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return nil, fmt.Errorf("unmarshal document: %w", err)
		}
		if len(arr) == 0 {
			return nil, fmt.Errorf("empty document payload")
		}
		return &arr[0], nil
	}

	var sd storedDocument
	if err := json.Unmarshal(trimmed, &sd); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return &sd, nil
}
