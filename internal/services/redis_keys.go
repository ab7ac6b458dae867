package services

import "time"

const (
	KeyReport      = "vrf:report:%s:%d"
	KeyReportIndex = "vrf:reports:%s"
	KeyRateLimit   = "ratelimit:%s:%s"

	DefaultReportTTL  = 30 * 24 * time.Hour // 30 days
	MaxIndexedReports = 100
)
