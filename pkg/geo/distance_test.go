package geo

import (
	"math"
	"testing"
)

func TestCalculateHaversineDistance(t *testing.T) {
	testCases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		expectedKm             float64
		toleranceKm            float64
	}{
		{
			name: "yogyakarta to surakarta",
			lat1: -7.797068, lon1: 110.370529,
			lat2: -7.575489, lon2: 110.824327,
			expectedKm:  55.57,
			toleranceKm: 1.0,
		},
		{
			name: "same point",
			lat1: -7.797068, lon1: 110.370529,
			lat2: -7.797068, lon2: 110.370529,
			expectedKm:  0,
			toleranceKm: 1e-9,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			expectedKm:  111.19,
			toleranceKm: 0.5,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateHaversineDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.expectedKm) > tt.toleranceKm {
				t.Errorf("got %f km, expected %f km", got, tt.expectedKm)
			}
		})
	}
}

func TestHaversineDistanceMeter(t *testing.T) {
	km := CalculateHaversineDistance(0, 0, 1, 0)
	m := HaversineDistanceMeter(0, 0, 1, 0)
	if math.Abs(m-km*1000) > 1e-6 {
		t.Errorf("meter and km variants disagree: %f vs %f", m, km*1000)
	}
}

func TestGetDestinationPoint(t *testing.T) {
	// walking radius km along any bearing must land radius km away
	for _, bearing := range []float64{0, 45, 90, 225} {
		lat, lon := GetDestinationPoint(-7.797068, 110.370529, bearing, 2.0)
		dist := CalculateHaversineDistance(-7.797068, 110.370529, lat, lon)
		if math.Abs(dist-2.0) > 0.01 {
			t.Errorf("bearing %f: destination point is %f km away, expected 2.0", bearing, dist)
		}
	}
}

func TestPolylineRoundTrip(t *testing.T) {
	coords := []Coordinate{
		NewCoordinate(-7.797068, 110.370529),
		NewCoordinate(-7.575489, 110.824327),
		NewCoordinate(-6.914744, 107.609810),
	}

	encoded := PolylineFromCoords(coords)
	if encoded == "" {
		t.Fatal("encoded polyline is empty")
	}

	decoded := CoordsFromPolyline(encoded)
	if len(decoded) != len(coords) {
		t.Fatalf("decoded %d coords, expected %d", len(decoded), len(coords))
	}
	for i := range coords {
		if math.Abs(decoded[i].Lat-coords[i].Lat) > 1e-5 ||
			math.Abs(decoded[i].Lon-coords[i].Lon) > 1e-5 {
			t.Errorf("coord %d: got %v, expected %v", i, decoded[i], coords[i])
		}
	}
}
