package usage

import "time"

const (
	defaultPlan  = "Starter"
	defaultLimit = 10
	resetPeriod  = 7 * 24 * time.Hour
)

func defaultUsage() Usage {
	return Usage{
		Plan:     defaultPlan,
		Limit:    defaultLimit,
		Used:     0,
		ResetsAt: time.Now().UTC().Add(resetPeriod),
	}
}
