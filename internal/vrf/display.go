package vrf

import (
	"strconv"

	"github.com/Mutu-s/MonFair-sub001/internal/models"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
	StatusError   Status = "error"
)

type CheckView struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Passed bool   `json:"passed"`
}

// Display is the state a verification badge renders.
type Display struct {
	Status           Status      `json:"status"`
	Message          string      `json:"message,omitempty"`
	Result           string      `json:"result,omitempty"`
	Checks           []CheckView `json:"checks,omitempty"`
	Seed             string      `json:"seed,omitempty"`
	BlockNumber      string      `json:"block_number,omitempty"`
	BlockHash        string      `json:"block_hash,omitempty"`
	VerificationHash string      `json:"verification_hash,omitempty"`
}

// NewDisplay maps a verification outcome to UI state. A nil verification
// with no error is still pending.
func NewDisplay(v *models.Verification, err error) Display {
	if err != nil {
		return Display{Status: StatusError, Message: "Verification failed: " + err.Error()}
	}
	if v == nil {
		return Display{Status: StatusPending}
	}

	p := v.VerificationData
	d := Display{
		Status:           StatusInvalid,
		Seed:             Shorten(p.Seed),
		BlockHash:        Shorten(p.BlockHash),
		VerificationHash: Shorten(p.VerificationHash),
	}
	if v.IsValid {
		d.Status = StatusValid
	}
	if p.Variant == models.VariantCasino {
		d.Result = FormatResult(p.GameType, p.Result)
	}
	if p.BlockNumber != nil {
		d.BlockNumber = strconv.FormatUint(*p.BlockNumber, 10)
	}
	for _, c := range v.Result.Checks {
		d.Checks = append(d.Checks, CheckView{
			Name:   c.Name,
			Label:  models.CheckLabel(c.Name),
			Passed: c.Passed,
		})
	}
	return d
}

// Shorten keeps the 0x prefix, the first eight and the last six hex digits.
func Shorten(h string) string {
	if len(h) <= 2+8+6+3 {
		return h
	}
	return h[:10] + "..." + h[len(h)-6:]
}
