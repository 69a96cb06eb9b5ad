// Package branch provides the branch predictor of the MISC timing model.
package branch

// Config holds configuration for the branch predictor.
type Config struct {
	// BHTSize is the number of entries in the Branch History Table.
	// Must be a power of 2. Default is 256.
	BHTSize uint32
	// BTBSize is the number of entries in the Branch Target Buffer.
	// Must be a power of 2. Default is 64.
	BTBSize uint32
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		BHTSize: 256,
		BTBSize: 64,
	}
}

// Stats holds statistics for the branch predictor.
type Stats struct {
	// Predictions is the total number of branch predictions made.
	Predictions uint64 `json:"predictions"`
	// Correct is the number of correct direction predictions.
	Correct uint64 `json:"correct"`
	// Mispredictions is the number of incorrect direction predictions.
	Mispredictions uint64 `json:"mispredictions"`
	// BTBHits is the number of BTB hits.
	BTBHits uint64 `json:"btb_hits"`
	// BTBMisses is the number of BTB misses.
	BTBMisses uint64 `json:"btb_misses"`
}

// Accuracy returns the prediction accuracy as a percentage.
func (s Stats) Accuracy() float64 {
	if s.Predictions == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Predictions) * 100
}

// MispredictionRate returns the misprediction rate as a percentage.
func (s Stats) MispredictionRate() float64 {
	if s.Predictions == 0 {
		return 0
	}
	return float64(s.Mispredictions) / float64(s.Predictions) * 100
}

// BTBHitRate returns the BTB hit rate as a percentage.
func (s Stats) BTBHitRate() float64 {
	total := s.BTBHits + s.BTBMisses
	if total == 0 {
		return 0
	}
	return float64(s.BTBHits) / float64(total) * 100
}

// Prediction represents a branch prediction result.
type Prediction struct {
	// Taken indicates whether the branch is predicted to be taken.
	Taken bool
	// Target is the predicted target address (if known from BTB).
	Target uint32
	// TargetKnown indicates whether the target address is known.
	TargetKnown bool
}

// Predictor implements a 2-bit saturating counter (bimodal) predictor with
// a Branch Target Buffer (BTB). PCs are word addresses.
type Predictor struct {
	// Branch History Table (BHT) - 2-bit saturating counters
	// States: 0=Strongly Not Taken, 1=Weakly Not Taken,
	//         2=Weakly Taken, 3=Strongly Taken
	bht []uint8

	btb      []btbEntry
	btbValid []bool

	bhtSize uint32
	btbSize uint32

	stats Stats
}

type btbEntry struct {
	pc     uint32
	target uint32
}

// NewPredictor creates a new branch predictor with the given configuration.
func NewPredictor(config Config) *Predictor {
	bhtSize := config.BHTSize
	btbSize := config.BTBSize

	if bhtSize == 0 {
		bhtSize = DefaultConfig().BHTSize
	}
	if btbSize == 0 {
		btbSize = DefaultConfig().BTBSize
	}

	bp := &Predictor{
		bht:      make([]uint8, bhtSize),
		btb:      make([]btbEntry, btbSize),
		btbValid: make([]bool, btbSize),
		bhtSize:  bhtSize,
		btbSize:  btbSize,
	}
	bp.Reset()

	return bp
}

// Predict makes a branch prediction for the branch at pc.
func (bp *Predictor) Predict(pc uint32) Prediction {
	pred := Prediction{
		Taken: bp.bht[pc&(bp.bhtSize-1)] >= 2,
	}

	btbIdx := pc & (bp.btbSize - 1)
	if bp.btbValid[btbIdx] && bp.btb[btbIdx].pc == pc {
		pred.Target = bp.btb[btbIdx].target
		pred.TargetKnown = true
		bp.stats.BTBHits++
	} else {
		bp.stats.BTBMisses++
	}

	bp.stats.Predictions++
	return pred
}

// Update trains the predictor with the actual outcome of the branch at pc.
func (bp *Predictor) Update(pc uint32, taken bool, target uint32) {
	bhtIdx := pc & (bp.bhtSize - 1)
	counter := bp.bht[bhtIdx]

	predicted := counter >= 2
	if predicted == taken {
		bp.stats.Correct++
	} else {
		bp.stats.Mispredictions++
	}

	if taken {
		if counter < 3 {
			bp.bht[bhtIdx] = counter + 1
		}
	} else if counter > 0 {
		bp.bht[bhtIdx] = counter - 1
	}

	if taken {
		btbIdx := pc & (bp.btbSize - 1)
		bp.btb[btbIdx] = btbEntry{pc: pc, target: target}
		bp.btbValid[btbIdx] = true
	}
}

// Stats returns the branch predictor statistics.
func (bp *Predictor) Stats() Stats {
	return bp.stats
}

// Reset clears all predictor state and statistics. Counters restart at
// weakly taken.
func (bp *Predictor) Reset() {
	for i := range bp.bht {
		bp.bht[i] = 2
	}
	for i := range bp.btbValid {
		bp.btbValid[i] = false
	}
	bp.stats = Stats{}
}
