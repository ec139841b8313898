package pkg

const (
	INF_WEIGHT float64 = 1e15

	EPS = 1e-9

	KMH_TO_MS = 1.0 / 3.6
)

const (
	DEBUG = false
)

type OsmHighwayType uint8

// enum of osm highway classes accepted for car routing: https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing
const (
	MOTORWAY OsmHighwayType = iota
	TRUNK
	PRIMARY
	SECONDARY
	TERTIARY
	MOTORWAY_LINK
	TRUNK_LINK
	PRIMARY_LINK
	SECONDARY_LINK
	ROAD
	UNCLASSIFIED
	RESIDENTIAL
	LIVING_STREET
	SERVICE
	UNKNOWN
)

func GetHighwayType(roadType string) OsmHighwayType {
	switch roadType {
	case "motorway":
		return MOTORWAY
	case "trunk":
		return TRUNK
	case "primary":
		return PRIMARY
	case "secondary":
		return SECONDARY
	case "tertiary":
		return TERTIARY
	case "motorway_link":
		return MOTORWAY_LINK
	case "trunk_link":
		return TRUNK_LINK
	case "primary_link":
		return PRIMARY_LINK
	case "secondary_link":
		return SECONDARY_LINK
	case "road":
		return ROAD
	case "unclassified":
		return UNCLASSIFIED
	case "residential":
		return RESIDENTIAL
	case "living_street":
		return LIVING_STREET
	case "service":
		return SERVICE
	default:
		return UNKNOWN
	}
}

func (hw OsmHighwayType) String() string {
	switch hw {
	case MOTORWAY:
		return "motorway"
	case TRUNK:
		return "trunk"
	case PRIMARY:
		return "primary"
	case SECONDARY:
		return "secondary"
	case TERTIARY:
		return "tertiary"
	case MOTORWAY_LINK:
		return "motorway_link"
	case TRUNK_LINK:
		return "trunk_link"
	case PRIMARY_LINK:
		return "primary_link"
	case SECONDARY_LINK:
		return "secondary_link"
	case ROAD:
		return "road"
	case UNCLASSIFIED:
		return "unclassified"
	case RESIDENTIAL:
		return "residential"
	case LIVING_STREET:
		return "living_street"
	case SERVICE:
		return "service"
	default:
		return "unknown"
	}
}

// HighwaySpeedKmH fixed car speed profile per highway class, roughly the
// legal limits for the osm wiki's highway values. Zero means the class is
// not routable.
func HighwaySpeedKmH(hw OsmHighwayType) float64 {
	switch hw {
	case MOTORWAY, TRUNK:
		return 110
	case PRIMARY:
		return 70
	case SECONDARY:
		return 60
	case TERTIARY:
		return 50
	case MOTORWAY_LINK, TRUNK_LINK, PRIMARY_LINK, SECONDARY_LINK:
		return 50
	case ROAD, UNCLASSIFIED:
		return 40
	case RESIDENTIAL:
		return 30
	case LIVING_STREET:
		return 10
	case SERVICE:
		return 5
	default:
		return 0
	}
}
