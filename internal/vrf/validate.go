package vrf

import (
	"strings"
	"time"

	"github.com/Mutu-s/MonFair-sub001/internal/models"
)

// MaxGameAge bounds how old a settlement timestamp may be.
const MaxGameAge = 365 * 24 * time.Hour

const maxSlotSymbol = 6

// CardOrderMatches reports whether order is a permutation of the board
// positions 0..11.
func CardOrderMatches(order []int) bool {
	if len(order) != models.CardCount {
		return false
	}
	for i, v := range order {
		if v < 0 || v >= models.CardCount {
			return false
		}
		if firstIndex(order, v) != i {
			return false
		}
	}
	return true
}

func firstIndex(order []int, v int) int {
	for i, o := range order {
		if o == v {
			return i
		}
	}
	return -1
}

// RequestIDPresent is false for an empty id and for the all-zero placeholder.
func RequestIDPresent(id string) bool {
	return !isZeroHex(id)
}

// SeedPresent is false for an empty seed and for the all-zero placeholder.
func SeedPresent(seed string) bool {
	return !isZeroHex(seed)
}

func isZeroHex(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return strings.Trim(s, "0") == ""
}

// SlotReels unpacks the three 8-bit reel values from a slots result.
func SlotReels(result uint64) [3]uint64 {
	return [3]uint64{
		(result >> 16) & 0xFF,
		(result >> 8) & 0xFF,
		result & 0xFF,
	}
}

// ResultInRange checks a casino outcome against its game's encoding.
// Unknown game types are accepted.
func ResultInRange(gameType models.GameType, result uint64) bool {
	switch gameType {
	case models.GameTypeCoinFlip:
		return result <= 1
	case models.GameTypeDice:
		return result >= 1 && result <= 100
	case models.GameTypeSlots:
		for _, r := range SlotReels(result) {
			if r > maxSlotSymbol {
				return false
			}
		}
		return true
	case models.GameTypePlinko:
		return true
	default:
		return true
	}
}

// BlockDataValid only fails when a specific block was asked for and could
// not be resolved.
func BlockDataValid(requested bool, lookup BlockLookup) bool {
	if !requested {
		return true
	}
	return lookup.Found
}

// TimestampValid rejects zero, future and year-old settlement times.
func TimestampValid(ts uint64, now time.Time) bool {
	if ts == 0 {
		return false
	}
	nowSec := now.Unix()
	if nowSec <= 0 || ts > uint64(nowSec) {
		return false
	}
	age := time.Duration(uint64(nowSec)-ts) * time.Second
	return age < MaxGameAge
}
