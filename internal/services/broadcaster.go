package services

import "github.com/Mutu-s/MonFair-sub001/internal/models"

type Broadcaster interface {
	BroadcastVerification(topic string, runID string, result *models.Verification)
}
