package models

const (
	CheckCardOrder     = "cardOrderMatches"
	CheckRequestID     = "vrfRequestIdValid"
	CheckBlockData     = "blockDataValid"
	CheckResultInRange = "resultInRange"
	CheckSeed          = "seedValid"
	CheckTimestamp     = "timestampValid"
)

var checkLabels = map[string]string{
	CheckCardOrder:     "Card Order Valid",
	CheckRequestID:     "VRF Request ID Valid",
	CheckBlockData:     "Block Data Valid",
	CheckResultInRange: "Result In Range",
	CheckSeed:          "Seed Valid",
	CheckTimestamp:     "Timestamp Valid",
}

// CheckLabel returns the human readable name of a check.
func CheckLabel(name string) string {
	if label, ok := checkLabels[name]; ok {
		return label
	}
	return name
}

type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
}

// ValidationResult keeps checks in evaluation order so reports stay stable.
type ValidationResult struct {
	Checks []Check `json:"checks"`
}

func (r *ValidationResult) Add(name string, passed bool) {
	r.Checks = append(r.Checks, Check{Name: name, Passed: passed})
}

// Valid is the AND of every check. An empty result is not valid.
func (r ValidationResult) Valid() bool {
	if len(r.Checks) == 0 {
		return false
	}
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Passed reports the outcome of a named check; unknown names are false.
func (r ValidationResult) Passed(name string) bool {
	for _, c := range r.Checks {
		if c.Name == name {
			return c.Passed
		}
	}
	return false
}

func (r ValidationResult) Map() map[string]bool {
	m := make(map[string]bool, len(r.Checks))
	for _, c := range r.Checks {
		m[c.Name] = c.Passed
	}
	return m
}

// Proof variants. Kind names the game, Variant picks the proof layout.
const (
	VariantFlipMatch = FlipMatchKind
	VariantCasino    = "casino"
)

// VerificationProof is the reconstructed proof for one settled game. Fields
// that do not apply to a variant stay at their zero value.
type VerificationProof struct {
	Variant string `json:"variant"`
	Kind    string `json:"kind"`

	GameID uint64 `json:"game_id"`

	// FlipMatch
	VRFRequestID string `json:"vrf_request_id,omitempty"`
	CardOrder    []int  `json:"card_order,omitempty"`
	VRFFulfilled bool   `json:"vrf_fulfilled,omitempty"`

	// Casino
	GameType  GameType `json:"game_type,omitempty"`
	Player    string   `json:"player,omitempty"`
	Result    uint64   `json:"result"`
	BetAmount string   `json:"bet_amount,omitempty"`
	Payout    string   `json:"payout,omitempty"`
	Settled   bool     `json:"settled,omitempty"`
	Seed      string   `json:"seed,omitempty"`

	Timestamp        uint64  `json:"timestamp"`
	BlockNumber      *uint64 `json:"block_number,omitempty"`
	BlockHash        string  `json:"block_hash,omitempty"`
	BlockRequested   bool    `json:"block_requested"`
	VerificationHash string  `json:"verification_hash"`
}

type Verification struct {
	IsValid          bool              `json:"is_valid"`
	VerificationData VerificationProof `json:"verification_data"`
	Details          map[string]bool   `json:"details"`

	Result ValidationResult `json:"-"`
}

// NewVerification binds a proof to its checks.
func NewVerification(proof VerificationProof, result ValidationResult) *Verification {
	return &Verification{
		IsValid:          result.Valid(),
		VerificationData: proof,
		Details:          result.Map(),
		Result:           result,
	}
}
