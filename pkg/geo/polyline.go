package geo

import "github.com/twpayne/go-polyline"

// PolylineFromCoords encodes a coordinate sequence with the google
// polyline algorithm.
func PolylineFromCoords(coords []Coordinate) string {
	buf := make([][]float64, 0, len(coords))
	for _, c := range coords {
		buf = append(buf, []float64{c.Lat, c.Lon})
	}
	return string(polyline.EncodeCoords(buf))
}

// CoordsFromPolyline decodes a google polyline string.
func CoordsFromPolyline(s string) []Coordinate {
	decoded, _, err := polyline.DecodeCoords([]byte(s))
	if err != nil {
		return nil
	}
	coords := make([]Coordinate, 0, len(decoded))
	for _, c := range decoded {
		coords = append(coords, NewCoordinate(c[0], c[1]))
	}
	return coords
}
