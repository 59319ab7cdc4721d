package suggest

import "time"

// Options tunes the analyzer. Zero fields are replaced by DefaultOptions values.
type Options struct {
	Unit Unit

	LookbackWindow     time.Duration
	MaxSessions        int
	MinSessions        int
	StalenessThreshold time.Duration

	CompoundMinRSquared  float64
	IsolationMinRSquared float64

	// deload is detected when the last session volume drops by more than
	// DeloadVolumeDrop compared to the trailing average
	DeloadVolumeDrop   float64
	DeloadExplainedGap time.Duration
	DeloadReduction    float64
	DeloadRepCut       float64

	RepCyclingMinSessions int
	RepCyclingMinStdDev   float64
	FlatWeightTolerance   float64

	CompoundMaxIncrease  float64
	IsolationMaxIncrease float64
	MaxDecrease          float64

	MinReps int
	MaxReps int

	EasyMargin    int
	MissMargin    int
	EasyBump      float64
	MissReduction float64

	DeloadConfidence     float64
	RepCyclingConfidence float64
	StableConfidence     float64
}

func DefaultOptions() Options {
	return Options{
		Unit: UnitPounds,

		LookbackWindow:     8 * 7 * 24 * time.Hour,
		MaxSessions:        20,
		MinSessions:        3,
		StalenessThreshold: 21 * 24 * time.Hour,

		CompoundMinRSquared:  0.6,
		IsolationMinRSquared: 0.5,

		DeloadVolumeDrop:   0.2,
		DeloadExplainedGap: 10 * 24 * time.Hour,
		DeloadReduction:    0.075,
		DeloadRepCut:       0.2,

		RepCyclingMinSessions: 4,
		RepCyclingMinStdDev:   3,
		FlatWeightTolerance:   0.1,

		CompoundMaxIncrease:  0.05,
		IsolationMaxIncrease: 0.10,
		MaxDecrease:          0.10,

		MinReps: 1,
		MaxReps: 30,

		EasyMargin:    2,
		MissMargin:    2,
		EasyBump:      0.025,
		MissReduction: 0.05,

		DeloadConfidence:     0.7,
		RepCyclingConfidence: 0.6,
		StableConfidence:     0.5,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Unit == "" {
		o.Unit = d.Unit
	}
	setDuration(&o.LookbackWindow, d.LookbackWindow)
	setInt(&o.MaxSessions, d.MaxSessions)
	setInt(&o.MinSessions, d.MinSessions)
	setDuration(&o.StalenessThreshold, d.StalenessThreshold)
	setFloat(&o.CompoundMinRSquared, d.CompoundMinRSquared)
	setFloat(&o.IsolationMinRSquared, d.IsolationMinRSquared)
	setFloat(&o.DeloadVolumeDrop, d.DeloadVolumeDrop)
	setDuration(&o.DeloadExplainedGap, d.DeloadExplainedGap)
	setFloat(&o.DeloadReduction, d.DeloadReduction)
	setFloat(&o.DeloadRepCut, d.DeloadRepCut)
	setInt(&o.RepCyclingMinSessions, d.RepCyclingMinSessions)
	setFloat(&o.RepCyclingMinStdDev, d.RepCyclingMinStdDev)
	setFloat(&o.FlatWeightTolerance, d.FlatWeightTolerance)
	setFloat(&o.CompoundMaxIncrease, d.CompoundMaxIncrease)
	setFloat(&o.IsolationMaxIncrease, d.IsolationMaxIncrease)
	setFloat(&o.MaxDecrease, d.MaxDecrease)
	setInt(&o.MinReps, d.MinReps)
	setInt(&o.MaxReps, d.MaxReps)
	setInt(&o.EasyMargin, d.EasyMargin)
	setInt(&o.MissMargin, d.MissMargin)
	setFloat(&o.EasyBump, d.EasyBump)
	setFloat(&o.MissReduction, d.MissReduction)
	setFloat(&o.DeloadConfidence, d.DeloadConfidence)
	setFloat(&o.RepCyclingConfidence, d.RepCyclingConfidence)
	setFloat(&o.StableConfidence, d.StableConfidence)

	// the deload step can never exceed the decrease cap
	if o.DeloadReduction > o.MaxDecrease {
		o.DeloadReduction = o.MaxDecrease
	}
	if o.MissReduction > o.MaxDecrease {
		o.MissReduction = o.MaxDecrease
	}
	if o.MinSessions < 2 {
		o.MinSessions = 2
	}
	return o
}

func setInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func setFloat(v *float64, def float64) {
	if *v <= 0 {
		*v = def
	}
}

func setDuration(v *time.Duration, def time.Duration) {
	if *v <= 0 {
		*v = def
	}
}
