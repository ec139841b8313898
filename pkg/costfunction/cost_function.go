package costfunction

import (
	"github.com/nordwand/routeplanner/pkg/datastructure"
)

// CostFunction selects which of the two stored metrics a query optimizes.
// Both metrics are fixed at build time and non-negative; a negative weight
// is a builder bug, not something the query engine defends against.
type CostFunction interface {
	GetWeight(e *datastructure.OutEdge) float64
	GetWeightIn(e *datastructure.InEdge) float64
	GetWeightCH(e *datastructure.CHEdge) float64
	Name() string
}

// TimeCostFunction optimizes travel time under the fixed speed profile.
type TimeCostFunction struct{}

func NewTimeCostFunction() *TimeCostFunction {
	return &TimeCostFunction{}
}

func (cf *TimeCostFunction) GetWeight(e *datastructure.OutEdge) float64 {
	return e.GetWeight()
}

func (cf *TimeCostFunction) GetWeightIn(e *datastructure.InEdge) float64 {
	return e.GetWeight()
}

func (cf *TimeCostFunction) GetWeightCH(e *datastructure.CHEdge) float64 {
	return e.GetWeight()
}

func (cf *TimeCostFunction) Name() string {
	return "time"
}

// DistanceCostFunction optimizes great-circle driving distance.
type DistanceCostFunction struct{}

func NewDistanceCostFunction() *DistanceCostFunction {
	return &DistanceCostFunction{}
}

func (cf *DistanceCostFunction) GetWeight(e *datastructure.OutEdge) float64 {
	return e.GetLength()
}

func (cf *DistanceCostFunction) GetWeightIn(e *datastructure.InEdge) float64 {
	return e.GetLength()
}

func (cf *DistanceCostFunction) GetWeightCH(e *datastructure.CHEdge) float64 {
	return e.GetLength()
}

func (cf *DistanceCostFunction) Name() string {
	return "distance"
}
