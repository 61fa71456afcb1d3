package qrng

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidParameter is returned when the generator configuration is
	// unusable (zero batch size, tolerance outside [0,1], and so on).
	ErrInvalidParameter = errors.New("qrng: invalid parameter")

	// ErrInsufficientEntropy is returned when the round budget cannot supply
	// the requested number of output bits.
	ErrInsufficientEntropy = errors.New("qrng: round budget too small for target length")

	// ErrBalanceNotAchieved is returned when every attempt failed the final
	// balance check.
	ErrBalanceNotAchieved = errors.New("qrng: balance tolerance not achieved")
)

// DefaultInitialBias is the maximally unbiased starting point of the bias
// parameter space [0, pi].
const DefaultInitialBias = math.Pi / 2

// Config holds the tuning parameters of a Generator.
type Config struct {
	// Channels is the number of independent bit channels sampled per round.
	Channels int
	// BatchSize is the number of bits drawn per channel per round.
	BatchSize int
	// Rounds is the number of bit-collecting rounds after warmup.
	Rounds int
	// WarmupRounds is the number of feedback-only rounds whose bits are discarded.
	WarmupRounds int
	// InitialBias seeds every channel's bias parameter; zero means DefaultInitialBias.
	InitialBias float64
	// LearningRate scales the per-round feedback correction.
	LearningRate float64
	// Tolerance is the maximum accepted |P(0)-P(1)| over the output stream.
	Tolerance float64
	// TargetBits is the exact length of the collected bit stream.
	TargetBits int
	// SequenceBits is the chunk size the stream is partitioned into.
	SequenceBits int
	// MaxAttempts bounds the restart loop when the balance check fails.
	MaxAttempts int
}

func (c Config) validate() error {
	if c.Channels <= 0 {
		return fmt.Errorf("%w: channels must be positive", ErrInvalidParameter)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive", ErrInvalidParameter)
	}
	if c.Rounds <= 0 || c.WarmupRounds < 0 {
		return fmt.Errorf("%w: round budget must be positive and warmup non-negative", ErrInvalidParameter)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("%w: learning rate must be positive", ErrInvalidParameter)
	}
	if c.Tolerance < 0 || c.Tolerance > 1 {
		return fmt.Errorf("%w: tolerance must be within [0,1]", ErrInvalidParameter)
	}
	if c.TargetBits <= 0 || c.SequenceBits <= 0 {
		return fmt.Errorf("%w: target and sequence lengths must be positive", ErrInvalidParameter)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max attempts must be positive", ErrInvalidParameter)
	}
	if c.InitialBias < 0 || c.InitialBias > math.Pi {
		return fmt.Errorf("%w: initial bias must be within [0,pi]", ErrInvalidParameter)
	}
	if c.Rounds*c.BatchSize*c.Channels < c.TargetBits {
		return fmt.Errorf("%w: %d rounds of %d x %d bits cannot cover %d",
			ErrInsufficientEntropy, c.Rounds, c.Channels, c.BatchSize, c.TargetBits)
	}

	return nil
}

// Round is an immutable snapshot taken after every sampling round.
type Round struct {
	// Index is the zero-based round number, warmup included.
	Index int
	// Bias is a copy of the bias vector after this round's update.
	Bias []float64
	// P1 is the observed one-fraction per channel for this round.
	P1 []float64
}

// Balance summarizes the zero/one split of the full output stream.
type Balance struct {
	P0 float64
	P1 float64
}

// Result is the outcome of one accepted generation.
type Result struct {
	// History records every round of the accepted attempt.
	History []Round
	// Sequences is the output stream cut into SequenceBits-sized bit strings.
	Sequences []string
	// Balance is computed over the whole truncated stream.
	Balance Balance
	// Attempts counts generation attempts including the accepted one.
	Attempts int
}

// Generator produces balanced bit sequences using closed-loop feedback.
//
// A Generator is not safe for concurrent use; concurrent callers must each
// construct their own with an independent Source.
type Generator struct {
	cfg Config
	src Source
}

// New validates cfg and returns a Generator drawing from src.
func New(cfg Config, src Source) (*Generator, error) {
	if cfg.InitialBias == 0 {
		cfg.InitialBias = DefaultInitialBias
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: randomness source is required", ErrInvalidParameter)
	}

	return &Generator{cfg: cfg, src: src}, nil
}

// Generate runs attempts until one passes the balance check or the attempt
// budget is exhausted. All state is rebuilt from scratch on every attempt.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := g.attempt()
		if err != nil {
			return nil, err
		}

		if math.Abs(res.Balance.P0-res.Balance.P1) <= g.cfg.Tolerance {
			res.Attempts = attempt
			return res, nil
		}

		if attempt >= g.cfg.MaxAttempts {
			return nil, fmt.Errorf("%w after %d attempts", ErrBalanceNotAchieved, attempt)
		}
	}
}

func (g *Generator) attempt() (*Result, error) {
	bias := make([]float64, g.cfg.Channels)
	probs := make([]float64, g.cfg.Channels)
	for c := range bias {
		bias[c] = g.cfg.InitialBias
		probs[c] = 0.5
	}

	totalRounds := g.cfg.WarmupRounds + g.cfg.Rounds
	history := make([]Round, 0, totalRounds)
	stream := make([]byte, 0, g.cfg.TargetBits)

	for round := 0; round < totalRounds && len(stream) < g.cfg.TargetBits; round++ {
		batches, err := Sample(g.src, probs, g.cfg.BatchSize)
		if err != nil {
			return nil, err
		}

		p1s := make([]float64, g.cfg.Channels)
		for c, bits := range batches {
			ones := 0
			for _, b := range bits {
				ones += int(b)
			}
			p1s[c] = float64(ones) / float64(g.cfg.BatchSize)

			correction := g.cfg.LearningRate * (0.5 - p1s[c])
			bias[c] = clamp(bias[c]+correction, 0, math.Pi)
			probs[c] = clamp(probs[c]+correction, 0, 1)
		}

		snapshot := make([]float64, len(bias))
		copy(snapshot, bias)
		history = append(history, Round{Index: round, Bias: snapshot, P1: p1s})

		if round < g.cfg.WarmupRounds {
			continue
		}

		// Flatten sample-major: one bit from every channel per sample index.
		for s := 0; s < g.cfg.BatchSize && len(stream) < g.cfg.TargetBits; s++ {
			for c := 0; c < g.cfg.Channels && len(stream) < g.cfg.TargetBits; c++ {
				stream = append(stream, batches[c][s])
			}
		}
	}

	if len(stream) < g.cfg.TargetBits {
		return nil, fmt.Errorf("%w: collected %d of %d bits", ErrInsufficientEntropy, len(stream), g.cfg.TargetBits)
	}

	ones := 0
	for _, b := range stream {
		ones += int(b)
	}
	p1 := float64(ones) / float64(g.cfg.TargetBits)

	return &Result{
		History:   history,
		Sequences: partition(stream, g.cfg.SequenceBits),
		Balance:   Balance{P0: 1 - p1, P1: p1},
	}, nil
}

func partition(stream []byte, size int) []string {
	seqs := make([]string, 0, (len(stream)+size-1)/size)
	for start := 0; start < len(stream); start += size {
		end := min(start+size, len(stream))

		var sb strings.Builder
		sb.Grow(end - start)
		for _, b := range stream[start:end] {
			sb.WriteByte('0' + b)
		}
		seqs = append(seqs, sb.String())
	}

	return seqs
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
