package chain_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutu-s/MonFair-sub001/internal/chain"
	"github.com/Mutu-s/MonFair-sub001/internal/models"
	"github.com/Mutu-s/MonFair-sub001/internal/vrf"
)

type stubHeaders struct {
	head     uint64
	headers  map[uint64]*types.Header
	deadline bool
}

func (s *stubHeaders) BlockNumber(ctx context.Context) (uint64, error) {
	_, s.deadline = ctx.Deadline()
	return s.head, nil
}

func (s *stubHeaders) HeaderByNumber(_ context.Context, number *big.Int) (*types.Header, error) {
	h, ok := s.headers[number.Uint64()]
	if !ok {
		return nil, ethereum.NotFound
	}
	return h, nil
}

var _ vrf.BlockReader = (*chain.Client)(nil)

func TestClientBlockHash(t *testing.T) {
	t.Parallel()

	header := &types.Header{Number: big.NewInt(12), Time: 1_700_000_000, Difficulty: big.NewInt(0)}
	src := &stubHeaders{head: 20, headers: map[uint64]*types.Header{12: header}}
	c := chain.NewClient(src, time.Second)

	n, err := c.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(20), n)
	assert.True(t, src.deadline)

	hash, err := c.BlockHash(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, header.Hash(), hash)

	_, err = c.BlockHash(context.Background(), 13)
	assert.True(t, errors.Is(err, ethereum.NotFound))
}

func TestClientFeedsVerifier(t *testing.T) {
	t.Parallel()

	header := &types.Header{Number: big.NewInt(5), Difficulty: big.NewInt(0)}
	src := &stubHeaders{head: 10, headers: map[uint64]*types.Header{5: header}}
	v := vrf.NewVerifier(chain.NewClient(src, 0))

	block := uint64(5)
	rec := models.GameRecord{
		GameID:       1,
		VRFRequestID: "0x2a",
		CardOrder:    []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
		CreatedAt:    uint64(time.Now().Add(-time.Minute).Unix()),
		VRFFulfilled: true,
	}
	res, err := v.VerifyGame(context.Background(), rec, &block)
	require.NoError(t, err)
	assert.Equal(t, header.Hash().Hex(), res.VerificationData.BlockHash)
	assert.True(t, res.IsValid)
}
