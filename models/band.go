package models

// ScoreBand buckets a 0-100 score for display.
type ScoreBand string

const (
	BandPoor ScoreBand = "poor"
	BandFair ScoreBand = "fair"
	BandGood ScoreBand = "good"
)

// BandFor maps a score to its band: below 40 is poor, below 75 fair, otherwise good.
func BandFor(score int) ScoreBand {
	switch {
	case score < 40:
		return BandPoor
	case score < 75:
		return BandFair
	default:
		return BandGood
	}
}
