package qrng

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Channels:     5,
		BatchSize:    64,
		Rounds:       8,
		WarmupRounds: 2,
		LearningRate: 0.5,
		Tolerance:    1.0,
		TargetBits:   240,
		SequenceBits: 24,
		MaxAttempts:  3,
	}
}

func TestSample(t *testing.T) {
	t.Run("ShapeAndValues", func(t *testing.T) {
		src := NewSeededSource(1, 2)
		probs := []float64{0.1, 0.5, 0.9}

		batches, err := Sample(src, probs, 128)
		require.NoError(t, err)
		require.Len(t, batches, 3)

		for _, bits := range batches {
			require.Len(t, bits, 128)
			for _, b := range bits {
				require.Contains(t, []byte{0, 1}, b)
			}
		}
	})

	t.Run("ExtremeProbabilities", func(t *testing.T) {
		src := NewSeededSource(3, 4)

		batches, err := Sample(src, []float64{0, 1}, 32)
		require.NoError(t, err)

		for _, b := range batches[0] {
			require.EqualValues(t, 0, b)
		}
		for _, b := range batches[1] {
			require.EqualValues(t, 1, b)
		}
	})

	t.Run("RejectsZeroBatch", func(t *testing.T) {
		_, err := Sample(NewSeededSource(0, 0), []float64{0.5}, 0)
		require.ErrorIs(t, err, ErrInvalidParameter)
	})
}

func TestNewValidation(t *testing.T) {
	src := NewSeededSource(1, 1)

	cases := map[string]func(*Config){
		"ZeroBatchSize":      func(c *Config) { c.BatchSize = 0 },
		"ZeroChannels":       func(c *Config) { c.Channels = 0 },
		"NegativeTolerance":  func(c *Config) { c.Tolerance = -0.1 },
		"ToleranceAboveOne":  func(c *Config) { c.Tolerance = 1.1 },
		"ZeroTargetBits":     func(c *Config) { c.TargetBits = 0 },
		"ZeroSequenceBits":   func(c *Config) { c.SequenceBits = 0 },
		"ZeroMaxAttempts":    func(c *Config) { c.MaxAttempts = 0 },
		"ZeroLearningRate":   func(c *Config) { c.LearningRate = 0 },
		"BiasOutsideRange":   func(c *Config) { c.InitialBias = 4 },
		"NegativeWarmup":     func(c *Config) { c.WarmupRounds = -1 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			mutate(&cfg)
			_, err := New(cfg, src)
			require.ErrorIs(t, err, ErrInvalidParameter)
		})
	}

	t.Run("NilSource", func(t *testing.T) {
		_, err := New(testConfig(), nil)
		require.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("BudgetTooSmall", func(t *testing.T) {
		cfg := testConfig()
		cfg.TargetBits = cfg.Rounds*cfg.BatchSize*cfg.Channels + 1
		_, err := New(cfg, src)
		require.ErrorIs(t, err, ErrInsufficientEntropy)
	})
}

func TestGenerate(t *testing.T) {
	t.Run("TrivialToleranceAcceptsFirstAttempt", func(t *testing.T) {
		cfg := testConfig()
		cfg.Tolerance = 1.0

		gen, err := New(cfg, NewSeededSource(42, 42))
		require.NoError(t, err)

		res, err := gen.Generate(t.Context())
		require.NoError(t, err)
		require.Equal(t, 1, res.Attempts)
	})

	t.Run("BalanceSumsToOne", func(t *testing.T) {
		gen, err := New(testConfig(), NewSeededSource(9, 9))
		require.NoError(t, err)

		res, err := gen.Generate(t.Context())
		require.NoError(t, err)
		require.InDelta(t, 1.0, res.Balance.P0+res.Balance.P1, 1e-12)
		require.GreaterOrEqual(t, res.Balance.P0, 0.0)
		require.LessOrEqual(t, res.Balance.P1, 1.0)
	})

	t.Run("AcceptedBalanceWithinTolerance", func(t *testing.T) {
		cfg := testConfig()
		cfg.Tolerance = 0.2
		cfg.MaxAttempts = 50

		gen, err := New(cfg, NewSeededSource(5, 6))
		require.NoError(t, err)

		res, err := gen.Generate(t.Context())
		require.NoError(t, err)
		require.LessOrEqual(t, math.Abs(res.Balance.P0-res.Balance.P1), cfg.Tolerance)
	})

	t.Run("SequenceShape", func(t *testing.T) {
		gen, err := New(testConfig(), NewSeededSource(13, 37))
		require.NoError(t, err)

		res, err := gen.Generate(t.Context())
		require.NoError(t, err)
		require.Len(t, res.Sequences, 10)
		for _, seq := range res.Sequences {
			require.Len(t, seq, 24)
			require.Regexp(t, `^[01]+$`, seq)
		}
	})

	t.Run("HistoryRecordsEveryRound", func(t *testing.T) {
		cfg := testConfig()
		// Force the full round budget: more bits than one round can supply.
		cfg.TargetBits = cfg.Rounds * cfg.BatchSize * cfg.Channels

		gen, err := New(cfg, NewSeededSource(2, 2))
		require.NoError(t, err)

		res, err := gen.Generate(t.Context())
		require.NoError(t, err)
		require.Len(t, res.History, cfg.WarmupRounds+cfg.Rounds)

		for i, round := range res.History {
			require.Equal(t, i, round.Index)
			require.Len(t, round.Bias, cfg.Channels)
			require.Len(t, round.P1, cfg.Channels)
			for _, b := range round.Bias {
				require.GreaterOrEqual(t, b, 0.0)
				require.LessOrEqual(t, b, math.Pi)
			}
		}
	})

	t.Run("FeedbackPushesTowardHalf", func(t *testing.T) {
		cfg := testConfig()
		cfg.TargetBits = cfg.Rounds * cfg.BatchSize * cfg.Channels

		gen, err := New(cfg, NewSeededSource(21, 22))
		require.NoError(t, err)

		res, err := gen.Generate(t.Context())
		require.NoError(t, err)

		prev := make([]float64, cfg.Channels)
		for c := range prev {
			prev[c] = DefaultInitialBias
		}

		for _, round := range res.History {
			for c, p1 := range round.P1 {
				delta := round.Bias[c] - prev[c]
				switch {
				case p1 < 0.5 && prev[c] < math.Pi:
					require.Greater(t, delta, 0.0, "round %d channel %d", round.Index, c)
				case p1 > 0.5 && prev[c] > 0:
					require.Less(t, delta, 0.0, "round %d channel %d", round.Index, c)
				}
				prev[c] = round.Bias[c]
			}
		}
	})

	t.Run("DeterministicWithSeededSource", func(t *testing.T) {
		genA, err := New(testConfig(), NewSeededSource(77, 78))
		require.NoError(t, err)
		genB, err := New(testConfig(), NewSeededSource(77, 78))
		require.NoError(t, err)

		resA, err := genA.Generate(t.Context())
		require.NoError(t, err)
		resB, err := genB.Generate(t.Context())
		require.NoError(t, err)

		require.Equal(t, resA.History, resB.History)
		require.Equal(t, resA.Sequences, resB.Sequences)
		require.Equal(t, resA.Balance, resB.Balance)
	})

	t.Run("BalanceNotAchieved", func(t *testing.T) {
		cfg := testConfig()
		cfg.Tolerance = 0
		cfg.TargetBits = 5 // odd length can never split evenly
		cfg.SequenceBits = 5
		cfg.MaxAttempts = 4

		gen, err := New(cfg, NewSeededSource(3, 3))
		require.NoError(t, err)

		_, err = gen.Generate(t.Context())
		require.ErrorIs(t, err, ErrBalanceNotAchieved)
	})

	t.Run("ContextCancellation", func(t *testing.T) {
		gen, err := New(testConfig(), NewSeededSource(1, 1))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err = gen.Generate(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestCryptoSource(t *testing.T) {
	src := NewCryptoSource()
	for range 100 {
		v, err := src.Float64()
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}
