package controllers

import (
	"github.com/nordwand/routeplanner/pkg/metrics"
)

type RoutingService interface {
	ShortestPath(origLat, origLon, dstLat, dstLon float64, mode string) (float64, float64, string, *metrics.QueryStats, bool, error)
}
