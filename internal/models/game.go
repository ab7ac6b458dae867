package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
)

type GameType string

const (
	GameTypeCoinFlip GameType = "coinflip"
	GameTypeDice     GameType = "dice"
	GameTypeSlots    GameType = "slots"
	GameTypePlinko   GameType = "plinko"
	GameTypeCrash    GameType = "crash"
)

// FlipMatchKind names the card-matching game in report filenames and topics.
const FlipMatchKind = "flipmatch"

const maxGameTypeLen = 32

// CardCount is the number of positions on a FlipMatch board.
const CardCount = 12

func (t GameType) Known() bool {
	switch t {
	case GameTypeCoinFlip, GameTypeDice, GameTypeSlots, GameTypePlinko, GameTypeCrash:
		return true
	}
	return false
}

// WellFormed reports whether t can name a casino game in digests, archive
// keys and filenames: lower-case letters, digits, '_' and '-', and not the
// FlipMatch tag.
func (t GameType) WellFormed() bool {
	if t == "" || len(t) > maxGameTypeLen || string(t) == FlipMatchKind {
		return false
	}
	for _, r := range string(t) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// ValidKind reports whether kind names a report archive: FlipMatch or a
// well-formed casino game type.
func ValidKind(kind string) bool {
	return kind == FlipMatchKind || GameType(kind).WellFormed()
}

func (t GameType) Label() string {
	switch t {
	case GameTypeCoinFlip:
		return "Coin Flip"
	case GameTypeDice:
		return "Dice"
	case GameTypeSlots:
		return "Slots"
	case GameTypePlinko:
		return "Plinko"
	case GameTypeCrash:
		return "Crash"
	}
	if t == "" {
		return "Unknown"
	}
	return string(t)
}

// GameRecord is a settled FlipMatch game as read from the FlipMatch contract.
type GameRecord struct {
	GameID       uint64 `json:"game_id"`
	VRFRequestID string `json:"vrf_request_id"`
	CardOrder    []int  `json:"card_order"`
	CreatedAt    uint64 `json:"created_at"`
	VRFFulfilled bool   `json:"vrf_fulfilled"`
}

// CasinoGameRecord is one settled single-round wager from the casino contracts.
type CasinoGameRecord struct {
	GameID    uint64                `json:"game_id"`
	GameType  GameType              `json:"game_type"`
	Player    string                `json:"player"`
	Result    uint64                `json:"result"`
	BetAmount *math.HexOrDecimal256 `json:"bet_amount,omitempty"`
	Payout    *math.HexOrDecimal256 `json:"payout,omitempty"`
	Timestamp uint64                `json:"timestamp"`
	Settled   bool                  `json:"settled"`
}

// Wei returns the amount as a big.Int, zero when unset.
func Wei(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(v))
}
