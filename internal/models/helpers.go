package models

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewRunID identifies one verification run in logs and websocket pushes.
func NewRunID() string {
	return fmt.Sprintf("vrf_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

// ReportFilename follows the download convention used by the web client.
func ReportFilename(kind string, gameID uint64) string {
	return fmt.Sprintf("vrf-verification-%s-%d.txt", strings.ToLower(kind), gameID)
}

// Topic is the websocket subscription key for a game.
func Topic(kind string, gameID uint64) string {
	return fmt.Sprintf("%s:%d", strings.ToLower(kind), gameID)
}

var weiPerMON = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// FormatMON renders a wei amount as MON with 18 decimals, trailing zeros trimmed.
func FormatMON(wei *big.Int) string {
	if wei == nil {
		return "0 MON"
	}
	sign := ""
	v := new(big.Int).Set(wei)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	whole, frac := new(big.Int).QuoRem(v, weiPerMON, new(big.Int))
	if frac.Sign() == 0 {
		return fmt.Sprintf("%s%s MON", sign, whole.String())
	}
	fs := frac.String()
	fs = strings.TrimRight(strings.Repeat("0", 18-len(fs))+fs, "0")
	return fmt.Sprintf("%s%s.%s MON", sign, whole.String(), fs)
}
