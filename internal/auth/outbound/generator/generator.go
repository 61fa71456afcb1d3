package generator

import (
	"context"
	"fmt"

	"github.com/qbitio/qotp/internal/auth/entity"
	"github.com/qbitio/qotp/internal/pkg/config"
	"github.com/qbitio/qotp/internal/pkg/instrument"
	"github.com/qbitio/qotp/internal/pkg/qrng"
	"go.opentelemetry.io/otel/codes"
)

const bitsPerDigit = 4

// Fallbacks used when the configuration leaves a generator knob unset.
const (
	defaultChannels     = 5
	defaultBatchSize    = 2048
	defaultRounds       = 8
	defaultWarmupRounds = 2
	defaultLearningRate = 0.5
	defaultTolerance    = 0.01
	defaultMaxAttempts  = 10
)

// Generator produces decimal one-time passcodes from the balanced bit stream.
type Generator struct {
	cfg config.Config
	ins instrument.Instrumentation
}

func New(cfg config.Config, ins instrument.Instrumentation) *Generator {
	return &Generator{cfg: cfg, ins: ins}
}

// Passcode generates one passcode of the requested digit length.
//
// Every call builds a fresh qrng.Generator so the closed-loop state never
// leaks between passcodes.
func (g *Generator) Passcode(ctx context.Context, digits int) (*entity.Passcode, error) {
	ctx, span := g.ins.Tracer("auth.outbound.generator").Start(ctx, "Passcode")
	defer span.End()

	seqBits := digits * bitsPerDigit

	src, err := g.source()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	gen, err := qrng.New(qrng.Config{
		Channels:     intOr(g.cfg.GetInt("modules.auth.generator.channels"), defaultChannels),
		BatchSize:    intOr(g.cfg.GetInt("modules.auth.generator.batch_size"), defaultBatchSize),
		Rounds:       intOr(g.cfg.GetInt("modules.auth.generator.rounds"), defaultRounds),
		WarmupRounds: intOr(g.cfg.GetInt("modules.auth.generator.warmup_rounds"), defaultWarmupRounds),
		LearningRate: floatOr(g.cfg.GetFloat64("modules.auth.generator.learning_rate"), defaultLearningRate),
		Tolerance:    floatOr(g.cfg.GetFloat64("modules.auth.generator.tolerance"), defaultTolerance),
		TargetBits:   seqBits,
		SequenceBits: seqBits,
		MaxAttempts:  intOr(g.cfg.GetInt("modules.auth.generator.max_attempts"), defaultMaxAttempts),
	}, src)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	res, err := gen.Generate(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	code, err := qrng.EncodeDecimal(res.Sequences[0], digits)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &entity.Passcode{
		Code:      code,
		Digits:    digits,
		Attempts:  res.Attempts,
		ZeroRatio: res.Balance.P0,
		OneRatio:  res.Balance.P1,
	}, nil
}

// source picks the randomness supply by config driver. There is no silent
// fallback: an unknown driver is an error, and "seeded" must be opted into
// explicitly since it makes passcodes reproducible.
func (g *Generator) source() (qrng.Source, error) {
	switch driver := g.cfg.GetString("modules.auth.generator.source"); driver {
	case "", "crypto":
		return qrng.NewCryptoSource(), nil
	case "seeded":
		return qrng.NewSeededSource(
			g.cfg.GetUint64("modules.auth.generator.seed1"),
			g.cfg.GetUint64("modules.auth.generator.seed2"),
		), nil
	default:
		return nil, fmt.Errorf("unsupported randomness source %q", driver)
	}
}

func intOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func floatOr(v, fallback float64) float64 {
	if v <= 0 {
		return fallback
	}
	return v
}
