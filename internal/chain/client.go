package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// HeaderSource is the subset of ethclient.Client the block reader needs.
type HeaderSource interface {
	BlockNumber(ctx context.Context) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// Client reads block metadata from a Monad JSON-RPC endpoint.
type Client struct {
	src     HeaderSource
	closer  func()
	timeout time.Duration
}

func Dial(ctx context.Context, url string, timeout time.Duration) (*Client, error) {
	ec, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc %s: %w", url, err)
	}
	c := NewClient(ec, timeout)
	c.closer = ec.Close
	return c, nil
}

func NewClient(src HeaderSource, timeout time.Duration) *Client {
	return &Client{src: src, timeout: timeout}
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	n, err := c.src.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get block number: %w", err)
	}
	return n, nil
}

func (c *Client) BlockHash(ctx context.Context, number uint64) (common.Hash, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	header, err := c.src.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get block %d: %w", number, err)
	}
	if header == nil {
		return common.Hash{}, fmt.Errorf("block %d not found", number)
	}
	return header.Hash(), nil
}

func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
