package main

import (
	"math"
)

var errorProbs [256]float64

func init() {
	// Pre-compute error probabilities for Phred scores
	for i := range errorProbs {
		errorProbs[i] = math.Pow(10, float64(i)/-10)
	}
}

// errorProb converts a Phred score to its error probability.
// Scores outside the table are computed directly; nothing is rejected.
func errorProb(q int) float64 {
	if q >= 0 && q < len(errorProbs) {
		return errorProbs[q]
	}
	return math.Pow(10, float64(q)/-10)
}

// Sum of error probabilities for quality scores
func sumErrorProbs(quals []int) float64 {
	var sum float64
	for _, q := range quals {
		sum += errorProb(q)
	}
	return sum
}

// averageQuality returns the average Phred quality of a read, computed
// through the mean error probability rather than the mean of the scores.
// The second return value is false when quals is empty and no quality
// can be reported.
func averageQuality(quals []int) (float64, bool) {
	if len(quals) == 0 {
		return 0, false
	}
	meanProb := sumErrorProbs(quals) / float64(len(quals))
	return -10 * math.Log10(meanProb), true
}

// decodeQuals turns FASTQ quality characters into Phred scores
func decodeQuals(qual []byte) []int {
	quals := make([]int, len(qual))
	for i, q := range qual {
		quals[i] = int(q) - PHRED_OFFSET
	}
	return quals
}
