package search

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/kailas-cloud/geodocs/internal/domain/geo"
	"github.com/kailas-cloud/geodocs/internal/domain/search/result"
)

// hitDocument mirrors the persisted document shape for decoding search
// payloads. Location is a GeoJSON Point; the flat latitude/longitude pair is
// the legacy representation still honored on read.
type hitDocument struct {
	Title     string          `json:"title"`
	Author    string          `json:"author"`
	Content   string          `json:"content"`
	Date      string          `json:"date"`
	Location  json.RawMessage `json:"location,omitempty"`
	Latitude  *float64        `json:"latitude,omitempty"`
	Longitude *float64        `json:"longitude,omitempty"`
}

// parseEntry decodes a search payload into a normalized hit, unwrapping the
// array envelope the "$" return path produces.
func parseEntry(id, raw string) (result.Hit, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 {
		return result.Hit{}, fmt.Errorf("empty payload for %s", id)
	}

	var hd hitDocument
	if trimmed[0] == '[' {
		var arr []hitDocument
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return result.Hit{}, fmt.Errorf("unmarshal hit %s: %w", id, err)
		}
		if len(arr) == 0 {
			return result.Hit{}, fmt.Errorf("empty payload for %s", id)
		}
		hd = arr[0]
	} else if err := json.Unmarshal(trimmed, &hd); err != nil {
		return result.Hit{}, fmt.Errorf("unmarshal hit %s: %w", id, err)
	}

	return result.New(id, hd.Title, hd.Author, hd.Content, hd.Date, hd.coordinates()), nil
}

// coordinates resolves the stored location, preferring the GeoJSON point over
// the legacy flat fields. Malformed or out-of-range locations resolve to nil.
func (hd *hitDocument) coordinates() *geo.Coordinates {
	if len(hd.Location) > 0 {
		var g geom.T
		if err := geojson.Unmarshal(hd.Location, &g); err == nil {
			if pt, ok := g.(*geom.Point); ok {
				c := geo.Coordinates{Lat: pt.Y(), Lon: pt.X()}
				if c.Valid() {
					return &c
				}
			}
		}
	}
	if hd.Latitude != nil && hd.Longitude != nil {
		c := geo.Coordinates{Lat: *hd.Latitude, Lon: *hd.Longitude}
		if c.Valid() {
			return &c
		}
	}
	return nil
}
