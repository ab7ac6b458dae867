package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/Mutu-s/MonFair-sub001/internal/chain"
	"github.com/Mutu-s/MonFair-sub001/internal/models"
	"github.com/Mutu-s/MonFair-sub001/internal/vrf"
)

// errInvalid makes the process exit non-zero after a report was written.
var errInvalid = errors.New("verification failed")

func runVerify(ctx context.Context, cmd *cli.Command) error {
	log := newLogger(cmd.String("log-level"))

	kind := strings.ToLower(cmd.String("kind"))
	if kind != models.FlipMatchKind && kind != models.VariantCasino {
		return fmt.Errorf("unknown kind %q, want %s or %s", kind, models.FlipMatchKind, models.VariantCasino)
	}

	block, err := parseBlock(cmd.String("block"))
	if err != nil {
		return err
	}

	raw, err := readRecord(cmd.String("record"))
	if err != nil {
		return err
	}

	blocks, closeBlocks, err := dialBlocks(ctx, cmd.String("rpc"), cmd.Duration("rpc-timeout"))
	if err != nil {
		return err
	}
	defer closeBlocks()
	if blocks == nil {
		log.Warn("no RPC endpoint, block data will be absent")
	}

	verifier := vrf.NewVerifier(blocks,
		vrf.WithLogger(log),
		vrf.WithBlockInterval(cmd.Duration("block-interval")),
	)

	res, err := verify(ctx, verifier, kind, raw, block)
	if err != nil {
		return err
	}

	report := vrf.Report(res)
	fmt.Print(report)

	if dir := cmd.String("out"); dir != "" {
		name := models.ReportFilename(res.VerificationData.Kind, res.VerificationData.GameID)
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.WithField("path", path).Info("report written")
	}

	if !res.IsValid {
		return errInvalid
	}
	return nil
}

// dialBlocks returns a nil reader, not a typed nil, when url is empty so the
// verifier runs without block data.
func dialBlocks(ctx context.Context, url string, timeout time.Duration) (vrf.BlockReader, func(), error) {
	if url == "" {
		return nil, func() {}, nil
	}
	client, err := chain.Dial(ctx, url, timeout)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

func verify(ctx context.Context, v *vrf.Verifier, kind string, raw []byte, block *uint64) (*models.Verification, error) {
	if kind == models.FlipMatchKind {
		var rec models.GameRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode flipmatch record: %w", err)
		}
		return v.VerifyGame(ctx, rec, block)
	}

	var rec models.CasinoGameRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode casino record: %w", err)
	}
	return v.VerifyCasinoGame(ctx, rec, block)
}

func runFormat(_ context.Context, cmd *cli.Command) error {
	result, err := strconv.ParseUint(cmd.String("result"), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid result %q: %w", cmd.String("result"), err)
	}
	fmt.Println(vrf.FormatResult(models.GameType(strings.ToLower(cmd.String("game-type"))), result))
	return nil
}

func parseBlock(s string) (*uint64, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid block %q: %w", s, err)
	}
	return &n, nil
}

func readRecord(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	return raw, nil
}
