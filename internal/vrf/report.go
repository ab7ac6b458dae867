package vrf

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/Mutu-s/MonFair-sub001/internal/models"
)

const unresolved = "not resolved"

// Report renders a verification as plain text. The output depends only on
// its input so it can be compared byte for byte.
func Report(v *models.Verification) string {
	p := v.VerificationData

	var b strings.Builder
	b.WriteString("MonFair VRF Verification Report\n")
	b.WriteString("===============================\n\n")

	if p.Variant == models.VariantFlipMatch {
		line(&b, "Game Type", "FlipMatch")
		line(&b, "Game ID", strconv.FormatUint(p.GameID, 10))
		line(&b, "VRF Request ID", orNone(p.VRFRequestID))
		line(&b, "Card Order", cardOrder(p.CardOrder))
		line(&b, "VRF Fulfilled", yesNo(p.VRFFulfilled))
		line(&b, "Created At", timestamp(p.Timestamp))
	} else {
		line(&b, "Game Type", p.GameType.Label())
		line(&b, "Game ID", strconv.FormatUint(p.GameID, 10))
		line(&b, "Player", p.Player)
		line(&b, "Result", FormatResult(p.GameType, p.Result))
		line(&b, "Raw Result", strconv.FormatUint(p.Result, 10))
		line(&b, "Bet Amount", amount(p.BetAmount))
		line(&b, "Payout", amount(p.Payout))
		line(&b, "Settled", yesNo(p.Settled))
		line(&b, "Timestamp", timestamp(p.Timestamp))
	}

	b.WriteString("\nVerification Data\n-----------------\n")
	if p.Variant == models.VariantCasino {
		line(&b, "Seed", orNone(p.Seed))
	}
	if p.BlockNumber != nil {
		line(&b, "Block Number", strconv.FormatUint(*p.BlockNumber, 10))
	} else {
		line(&b, "Block Number", unresolved)
	}
	if p.BlockHash != "" {
		line(&b, "Block Hash", p.BlockHash)
	} else {
		line(&b, "Block Hash", unresolved)
	}
	line(&b, "Block Requested", yesNo(p.BlockRequested))
	line(&b, "Verification Hash", p.VerificationHash)

	b.WriteString("\nChecks\n------\n")
	for _, c := range v.Result.Checks {
		mark := "PASS"
		if !c.Passed {
			mark = "FAIL"
		}
		fmt.Fprintf(&b, "[%s] %s\n", mark, models.CheckLabel(c.Name))
	}

	verdict := "INVALID"
	if v.IsValid {
		verdict = "VALID"
	}
	fmt.Fprintf(&b, "\nOverall: %s\n", verdict)

	b.WriteString("\nRecompute the verification hash as keccak256(abi.encodePacked(...)) over\n")
	if p.Variant == models.VariantFlipMatch {
		b.WriteString("(uint256 gameId, bytes32 vrfRequestId, uint256[] cardOrder, bytes32 blockHash, uint256 createdAt).\n")
	} else {
		b.WriteString("(string gameType, uint256 gameId, uint256 result, address player, bytes32 blockHash, uint256 timestamp);\n")
		b.WriteString("the seed is keccak256(abi.encodePacked(uint256 timestamp, bytes32 blockHash, address player)).\n")
	}
	return b.String()
}

func line(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%-18s %s\n", label+":", value)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func timestamp(ts uint64) string {
	if ts == 0 || ts > math.MaxInt64 {
		return strconv.FormatUint(ts, 10)
	}
	t := time.Unix(int64(ts), 0).UTC()
	return fmt.Sprintf("%d (%s)", ts, t.Format("2006-01-02 15:04:05 UTC"))
}

func amount(wei string) string {
	v, ok := new(big.Int).SetString(wei, 10)
	if !ok {
		return wei
	}
	return fmt.Sprintf("%s wei (%s)", wei, models.FormatMON(v))
}

func cardOrder(order []int) string {
	if len(order) == 0 {
		return "none"
	}
	parts := make([]string, len(order))
	for i, c := range order {
		parts[i] = strconv.Itoa(c)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
