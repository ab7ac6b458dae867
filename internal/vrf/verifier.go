package vrf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sirupsen/logrus"

	"github.com/Mutu-s/MonFair-sub001/internal/models"
)

// ErrMalformedRecord is returned when a record cannot be packed into the
// contract's hash layout.
var ErrMalformedRecord = errors.New("malformed game record")

type Verifier struct {
	blocks   BlockReader
	log      logrus.FieldLogger
	now      func() time.Time
	interval time.Duration
}

type Option func(*Verifier)

func WithLogger(log logrus.FieldLogger) Option {
	return func(v *Verifier) { v.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

func WithBlockInterval(d time.Duration) Option {
	return func(v *Verifier) {
		if d > 0 {
			v.interval = d
		}
	}
}

// NewVerifier builds a verifier. A nil reader runs in degraded mode where no
// block data is ever resolved.
func NewVerifier(blocks BlockReader, opts ...Option) *Verifier {
	v := &Verifier{
		blocks:   blocks,
		log:      logrus.StandardLogger(),
		now:      time.Now,
		interval: DefaultBlockInterval,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifyGame reconstructs and validates a FlipMatch proof.
func (v *Verifier) VerifyGame(ctx context.Context, rec models.GameRecord, block *uint64) (*models.Verification, error) {
	requestID, err := parseRequestID(rec.VRFRequestID)
	if err != nil {
		return nil, err
	}
	order, err := cardPositions(rec.CardOrder)
	if err != nil {
		return nil, err
	}

	now := v.now()
	lookup := resolveBlock(ctx, v.blocks, rec.CreatedAt, block, now, v.interval)
	v.logLookup(models.FlipMatchKind, rec.GameID, lookup)

	digest := Digest(
		Uint64(rec.GameID),
		Bytes32(requestID),
		Uint256Array(order),
		Bytes32(lookup.HashOrZero()),
		Uint64(rec.CreatedAt),
	)

	proof := models.VerificationProof{
		Variant:          models.VariantFlipMatch,
		Kind:             models.FlipMatchKind,
		GameID:           rec.GameID,
		VRFRequestID:     rec.VRFRequestID,
		CardOrder:        append([]int(nil), rec.CardOrder...),
		VRFFulfilled:     rec.VRFFulfilled,
		Timestamp:        rec.CreatedAt,
		BlockRequested:   block != nil,
		VerificationHash: digest.Hex(),
	}
	applyLookup(&proof, lookup)

	var result models.ValidationResult
	result.Add(models.CheckCardOrder, CardOrderMatches(rec.CardOrder))
	result.Add(models.CheckRequestID, RequestIDPresent(rec.VRFRequestID))
	result.Add(models.CheckBlockData, BlockDataValid(block != nil, lookup))

	return models.NewVerification(proof, result), nil
}

// VerifyCasinoGame reconstructs and validates a casino wager proof.
func (v *Verifier) VerifyCasinoGame(ctx context.Context, rec models.CasinoGameRecord, block *uint64) (*models.Verification, error) {
	if !rec.GameType.WellFormed() {
		return nil, fmt.Errorf("%w: game type %q", ErrMalformedRecord, rec.GameType)
	}
	player, err := parsePlayer(rec.Player)
	if err != nil {
		return nil, err
	}
	if !rec.GameType.Known() {
		v.log.WithField("game_type", rec.GameType).Debug("unrecognised game type, result range not enforced")
	}

	now := v.now()
	lookup := resolveBlock(ctx, v.blocks, rec.Timestamp, block, now, v.interval)
	v.logLookup(string(rec.GameType), rec.GameID, lookup)

	blockHash := lookup.HashOrZero()
	seed := Digest(
		Uint64(rec.Timestamp),
		Bytes32(blockHash),
		Address(player),
	)
	digest := Digest(
		String(string(rec.GameType)),
		Uint64(rec.GameID),
		Uint64(rec.Result),
		Address(player),
		Bytes32(blockHash),
		Uint64(rec.Timestamp),
	)

	proof := models.VerificationProof{
		Variant:          models.VariantCasino,
		Kind:             string(rec.GameType),
		GameID:           rec.GameID,
		GameType:         rec.GameType,
		Player:           player.Hex(),
		Result:           rec.Result,
		BetAmount:        models.Wei(rec.BetAmount).String(),
		Payout:           models.Wei(rec.Payout).String(),
		Settled:          rec.Settled,
		Seed:             seed.Hex(),
		Timestamp:        rec.Timestamp,
		BlockRequested:   block != nil,
		VerificationHash: digest.Hex(),
	}
	applyLookup(&proof, lookup)

	var result models.ValidationResult
	result.Add(models.CheckResultInRange, ResultInRange(rec.GameType, rec.Result))
	result.Add(models.CheckSeed, SeedPresent(proof.Seed))
	result.Add(models.CheckBlockData, BlockDataValid(block != nil, lookup))
	result.Add(models.CheckTimestamp, TimestampValid(rec.Timestamp, now))

	return models.NewVerification(proof, result), nil
}

// GameReport verifies rec against the estimated block and renders the report.
func (v *Verifier) GameReport(ctx context.Context, rec models.GameRecord) (string, error) {
	res, err := v.VerifyGame(ctx, rec, nil)
	if err != nil {
		return "", err
	}
	return Report(res), nil
}

// CasinoReport verifies rec against the estimated block and renders the report.
func (v *Verifier) CasinoReport(ctx context.Context, rec models.CasinoGameRecord) (string, error) {
	res, err := v.VerifyCasinoGame(ctx, rec, nil)
	if err != nil {
		return "", err
	}
	return Report(res), nil
}

func (v *Verifier) logLookup(kind string, gameID uint64, l BlockLookup) {
	entry := v.log.WithFields(logrus.Fields{
		"kind":    kind,
		"game_id": gameID,
	})
	if !l.Found {
		entry.WithError(l.Reason).Debug("block data absent")
		return
	}
	entry.WithFields(logrus.Fields{
		"block":     l.Number,
		"estimated": l.Estimated,
	}).Debug("block data resolved")
}

func applyLookup(p *models.VerificationProof, l BlockLookup) {
	if !l.Found {
		return
	}
	n := l.Number
	p.BlockNumber = &n
	p.BlockHash = l.Hash.Hex()
}

func parseRequestID(id string) (common.Hash, error) {
	if isZeroHex(id) {
		return common.Hash{}, nil
	}
	s := strings.TrimSpace(id)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	if len(s)%2 == 1 {
		s = "0x0" + s[2:]
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: vrf request id %q: %v", ErrMalformedRecord, id, err)
	}
	if len(b) > common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: vrf request id %q longer than 32 bytes", ErrMalformedRecord, id)
	}
	return common.BytesToHash(b), nil
}

func parsePlayer(addr string) (common.Address, error) {
	if !common.IsHexAddress(addr) {
		return common.Address{}, fmt.Errorf("%w: player %q is not an address", ErrMalformedRecord, addr)
	}
	return common.HexToAddress(addr), nil
}

func cardPositions(order []int) ([]uint64, error) {
	out := make([]uint64, len(order))
	for i, p := range order {
		if p < 0 || p > 0xFF {
			return nil, fmt.Errorf("%w: card position %d out of uint8 range", ErrMalformedRecord, p)
		}
		out[i] = uint64(p)
	}
	return out, nil
}
