package vrf

import (
	"fmt"

	"github.com/Mutu-s/MonFair-sub001/internal/models"
)

// FormatResult renders a casino outcome the way the game shows it.
func FormatResult(gameType models.GameType, result uint64) string {
	switch gameType {
	case models.GameTypeCoinFlip:
		switch result {
		case 0:
			return "Heads"
		case 1:
			return "Tails"
		}
		return fmt.Sprintf("Unknown (%d)", result)
	case models.GameTypeDice:
		return fmt.Sprintf("Roll: %d", result)
	case models.GameTypeSlots:
		r := SlotReels(result)
		return fmt.Sprintf("Reels: %d | %d | %d", r[0], r[1], r[2])
	case models.GameTypePlinko:
		return fmt.Sprintf("Position: %d", result)
	case models.GameTypeCrash:
		// hundredths of a multiplier
		return fmt.Sprintf("Crash: %d.%02dx", result/100, result%100)
	}
	return fmt.Sprintf("Result: %d", result)
}
