package vrf_test

import (
	"context"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var errBlockNotFound = errors.New("block not found")

type fakeBlocks struct {
	mu        sync.Mutex
	head      uint64
	headErr   error
	hashes    map[uint64]common.Hash
	requested []uint64
}

func newFakeBlocks(head uint64) *fakeBlocks {
	return &fakeBlocks{head: head, hashes: map[uint64]common.Hash{}}
}

func (f *fakeBlocks) BlockNumber(context.Context) (uint64, error) {
	if f.headErr != nil {
		return 0, f.headErr
	}
	return f.head, nil
}

func (f *fakeBlocks) BlockHash(_ context.Context, n uint64) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, n)
	h, ok := f.hashes[n]
	if !ok {
		return common.Hash{}, errBlockNotFound
	}
	return h, nil
}

func (f *fakeBlocks) lastRequested() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requested) == 0 {
		return 0
	}
	return f.requested[len(f.requested)-1]
}
