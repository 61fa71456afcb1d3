package qrng

import "fmt"

// Sample draws batchSize Bernoulli bits for every channel.
//
// probs supplies P(1) per channel; the bias-to-probability mapping is owned by
// the caller so the sampler stays a pure function of its inputs and the
// randomness source. The result is indexed [channel][sample] and every value
// is 0 or 1.
func Sample(src Source, probs []float64, batchSize int) ([][]byte, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive", ErrInvalidParameter)
	}
	if len(probs) == 0 {
		return nil, fmt.Errorf("%w: at least one channel is required", ErrInvalidParameter)
	}

	batches := make([][]byte, len(probs))
	for c, p := range probs {
		bits := make([]byte, batchSize)
		for i := range bits {
			u, err := src.Float64()
			if err != nil {
				return nil, err
			}
			if u < p {
				bits[i] = 1
			}
		}
		batches[c] = bits
	}

	return batches, nil
}
