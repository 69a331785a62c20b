package vectortile

import "strconv"

// GeomType is the kind of geometry a Feature carries.
type GeomType int8

const (
	GeomTypeUnknown    GeomType = 0
	GeomTypePoint      GeomType = 1
	GeomTypeLineString GeomType = 2
	GeomTypePolygon    GeomType = 3
)

var EnumNamesGeomType = map[GeomType]string{
	GeomTypeUnknown:    "UNKNOWN",
	GeomTypePoint:      "POINT",
	GeomTypeLineString: "LINESTRING",
	GeomTypePolygon:    "POLYGON",
}

var EnumValuesGeomType = map[string]GeomType{
	"UNKNOWN":    GeomTypeUnknown,
	"POINT":      GeomTypePoint,
	"LINESTRING": GeomTypeLineString,
	"POLYGON":    GeomTypePolygon,
}

func (v GeomType) String() string {
	if s, ok := EnumNamesGeomType[v]; ok {
		return s
	}
	return "GeomType(" + strconv.FormatInt(int64(v), 10) + ")"
}
