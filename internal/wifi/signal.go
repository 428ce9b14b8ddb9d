package wifi

// Anchor is one point on the percentage-to-dBm conversion curve.
type Anchor struct {
	Percent int
	DBm     float64
}

// SignalModelParams holds the tunable constants of the RF model. The
// defaults are empirical approximations, not physical facts; only the
// monotonicity of the curve and the classification boundaries are load
// bearing for callers.
type SignalModelParams struct {
	// Curve anchors in descending Percent order. Values between anchors
	// are linearly interpolated.
	Curve []Anchor

	// Receiver noise floor estimates per band.
	NoiseFloor24GHz float64
	NoiseFloor5GHz  float64

	// SNR classification boundaries (closed on the lower side).
	ExcellentSNR float64
	VeryGoodSNR  float64
	GoodSNR      float64
	FairSNR      float64
}

// DefaultSignalModelParams returns the stock model constants.
func DefaultSignalModelParams() SignalModelParams {
	return SignalModelParams{
		Curve: []Anchor{
			{100, -30},
			{90, -40},
			{75, -50},
			{50, -60},
			{25, -70},
			{10, -80},
			{0, -95},
		},
		NoiseFloor24GHz: -95,
		NoiseFloor5GHz:  -100,
		ExcellentSNR:    40,
		VeryGoodSNR:     30,
		GoodSNR:         20,
		FairSNR:         15,
	}
}

// SignalModel converts platform signal percentages into estimated
// physical quantities. All methods are pure and total over their domains.
type SignalModel struct {
	params SignalModelParams
}

// NewSignalModel creates a model. Zero-value params fall back to the
// defaults so an unconfigured model is still usable.
func NewSignalModel(params SignalModelParams) *SignalModel {
	if len(params.Curve) == 0 {
		params = DefaultSignalModelParams()
	}
	return &SignalModel{params: params}
}

// PercentToDBm maps a 0-100 signal percentage to an approximate power
// level in dBm via piecewise-linear interpolation. Inputs outside the
// range are clamped.
func (m *SignalModel) PercentToDBm(pct int) float64 {
	curve := m.params.Curve
	if pct >= curve[0].Percent {
		return curve[0].DBm
	}
	last := curve[len(curve)-1]
	if pct <= last.Percent {
		return last.DBm
	}

	for i := 1; i < len(curve); i++ {
		hi, lo := curve[i-1], curve[i]
		if pct >= lo.Percent {
			span := float64(hi.Percent - lo.Percent)
			frac := float64(pct-lo.Percent) / span
			return lo.DBm + frac*(hi.DBm-lo.DBm)
		}
	}
	return last.DBm
}

// NoiseFloor returns the estimated receiver noise floor for a band.
func (m *SignalModel) NoiseFloor(band Band) float64 {
	if band == Band24GHz {
		return m.params.NoiseFloor24GHz
	}
	return m.params.NoiseFloor5GHz
}

// SNR computes the signal-to-noise ratio in dB.
func (m *SignalModel) SNR(signalDBm, noiseDBm float64) float64 {
	return signalDBm - noiseDBm
}

// ClassifyQuality buckets an SNR value into one of the five quality
// categories. Boundaries are closed: an SNR of exactly 40 is Excellent.
func (m *SignalModel) ClassifyQuality(snrDB float64) Quality {
	switch {
	case snrDB >= m.params.ExcellentSNR:
		return QualityExcellent
	case snrDB >= m.params.VeryGoodSNR:
		return QualityVeryGood
	case snrDB >= m.params.GoodSNR:
		return QualityGood
	case snrDB >= m.params.FairSNR:
		return QualityFair
	default:
		return QualityPoor
	}
}

// Annotate fills the derived RF fields of a record from its signal
// percentage and channel. Records without a reported percentage are
// left untouched.
func (m *SignalModel) Annotate(rec *AccessPointRecord) {
	if rec.SignalPercentage <= 0 {
		return
	}
	rec.Band = BandForChannel(rec.Channel)

	dbm := m.PercentToDBm(rec.SignalPercentage)
	noise := m.NoiseFloor(rec.Band)
	snr := m.SNR(dbm, noise)

	rec.SignalDBm = &dbm
	rec.NoiseDBm = &noise
	rec.SNRdB = &snr
	rec.SignalQuality = m.ClassifyQuality(snr)
}
