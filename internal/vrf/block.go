package vrf

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultBlockInterval is the approximate Monad block time.
const DefaultBlockInterval = 2 * time.Second

// BlockReader is the read side of a chain provider.
type BlockReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
	BlockHash(ctx context.Context, number uint64) (common.Hash, error)
}

var errNoProvider = errors.New("no chain provider connected")

// BlockLookup is the outcome of resolving block data for a proof. A lookup
// that found nothing carries the reason instead of an error.
type BlockLookup struct {
	Number    uint64
	Hash      common.Hash
	Found     bool
	Estimated bool
	Reason    error
}

func absent(reason error) BlockLookup {
	return BlockLookup{Reason: reason}
}

// HashOrZero is the bytes32 value fed to the digests.
func (l BlockLookup) HashOrZero() common.Hash {
	if !l.Found {
		return common.Hash{}
	}
	return l.Hash
}

// EstimateBlock walks back from the current head by the time elapsed since
// ts, assuming a fixed block interval.
func EstimateBlock(current uint64, ts uint64, now time.Time, interval time.Duration) uint64 {
	if interval <= 0 {
		interval = DefaultBlockInterval
	}
	nowSec := now.Unix()
	if nowSec <= 0 || uint64(nowSec) <= ts {
		return current
	}
	elapsed := time.Duration(uint64(nowSec)-ts) * time.Second
	back := uint64(elapsed / interval)
	if back >= current {
		return 0
	}
	return current - back
}

func resolveBlock(ctx context.Context, r BlockReader, ts uint64, requested *uint64, now time.Time, interval time.Duration) BlockLookup {
	if r == nil {
		return absent(errNoProvider)
	}

	var number uint64
	estimated := false
	if requested != nil {
		number = *requested
	} else {
		current, err := r.BlockNumber(ctx)
		if err != nil {
			return absent(err)
		}
		number = EstimateBlock(current, ts, now, interval)
		estimated = true
	}

	hash, err := r.BlockHash(ctx, number)
	if err != nil {
		return absent(err)
	}
	if hash == (common.Hash{}) {
		return absent(errors.New("block hash unavailable"))
	}

	return BlockLookup{Number: number, Hash: hash, Found: true, Estimated: estimated}
}
