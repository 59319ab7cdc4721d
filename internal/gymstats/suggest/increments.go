package suggest

import "math"

type Unit string

const (
	UnitPounds    Unit = "lb"
	UnitKilograms Unit = "kg"
)

type Rounding string

const (
	RoundDown    Rounding = "down"
	RoundNearest Rounding = "nearest"
)

// WeightIncrement quantizes weights to what can actually be loaded for a piece of equipment.
type WeightIncrement struct {
	Step     float64  `json:"step"`
	Rounding Rounding `json:"rounding"`
}

const epsilon = 1e-9

var poundIncrements = map[EquipmentType]WeightIncrement{
	EquipmentBarbell:      {Step: 5, Rounding: RoundDown},
	EquipmentEZBar:        {Step: 5, Rounding: RoundDown},
	EquipmentTrapBar:      {Step: 5, Rounding: RoundDown},
	EquipmentSmithMachine: {Step: 5, Rounding: RoundDown},
	EquipmentDumbbell:     {Step: 5, Rounding: RoundDown},
	EquipmentKettlebell:   {Step: 5, Rounding: RoundDown},
	EquipmentMachine:      {Step: 5, Rounding: RoundDown},
	EquipmentCable:        {Step: 5, Rounding: RoundDown},
	EquipmentBodyweight:   {Step: 1, Rounding: RoundNearest},
	EquipmentBand:         {Step: 1, Rounding: RoundNearest},
	EquipmentOther:        {Step: 1, Rounding: RoundNearest},
}

var kiloIncrements = map[EquipmentType]WeightIncrement{
	EquipmentBarbell:      {Step: 2.5, Rounding: RoundDown},
	EquipmentEZBar:        {Step: 2.5, Rounding: RoundDown},
	EquipmentTrapBar:      {Step: 2.5, Rounding: RoundDown},
	EquipmentSmithMachine: {Step: 2.5, Rounding: RoundDown},
	EquipmentDumbbell:     {Step: 2, Rounding: RoundDown},
	EquipmentKettlebell:   {Step: 4, Rounding: RoundDown},
	EquipmentMachine:      {Step: 2.5, Rounding: RoundDown},
	EquipmentCable:        {Step: 2.5, Rounding: RoundDown},
	EquipmentBodyweight:   {Step: 1, Rounding: RoundNearest},
	EquipmentBand:         {Step: 1, Rounding: RoundNearest},
	EquipmentOther:        {Step: 1, Rounding: RoundNearest},
}

// IncrementFor returns the rounding rule for the equipment, defaulting to
// the "other" rule for unknown equipment.
func IncrementFor(unit Unit, equipment EquipmentType) WeightIncrement {
	table := poundIncrements
	if unit == UnitKilograms {
		table = kiloIncrements
	}
	if inc, ok := table[equipment]; ok {
		return inc
	}
	return table[EquipmentOther]
}

// Round quantizes w to the increment. With inverted set (assistance weights),
// the conservative direction flips and "down" rounds up.
func (wi WeightIncrement) Round(w float64, inverted bool) float64 {
	if wi.Step <= 0 {
		return cleanFloat(w)
	}
	switch {
	case wi.Rounding == RoundNearest:
		return cleanFloat(math.Round(w/wi.Step) * wi.Step)
	case inverted:
		return wi.ceil(w)
	default:
		return wi.floor(w)
	}
}

func (wi WeightIncrement) floor(w float64) float64 {
	return cleanFloat(math.Floor(w/wi.Step+epsilon) * wi.Step)
}

func (wi WeightIncrement) ceil(w float64) float64 {
	return cleanFloat(math.Ceil(w/wi.Step-epsilon) * wi.Step)
}

// candidates lists the quantized values that may stand for w, preferred first.
// Directional rounding has a single candidate; nearest rounding may fall back
// to either neighbour when the nearest one breaks a bound.
func (wi WeightIncrement) candidates(w float64, inverted bool) []float64 {
	primary := wi.Round(w, inverted)
	if wi.Rounding != RoundNearest || wi.Step <= 0 {
		return []float64{primary}
	}
	return []float64{primary, wi.floor(w), wi.ceil(w)}
}

// cleanFloat drops floating point noise such as 102.49999999999999.
func cleanFloat(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
