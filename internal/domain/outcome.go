package domain

import "strings"

// QuestOutcome is the free-text result of a daily quest claim.
type QuestOutcome = string

// NetworkTestOutcome is the free-text result of a network test submission.
type NetworkTestOutcome = string

// Quest outcomes. Upstream messages are recorded verbatim when no current
// day is found, so the set is open.
const (
	QuestHL2Required    QuestOutcome = "HL2 Package is Required"
	QuestAlreadyClaimed QuestOutcome = "Already Claimed"
	QuestClaimed        QuestOutcome = "Claimed for Today"
	QuestRequestError   QuestOutcome = "Error occurred during daily quest request"
	QuestClaimError     QuestOutcome = "Error occurred during reward claim"
	QuestNoCurrentDay   QuestOutcome = "No current day found"
)

const questErrorPrefix = "Error: "

// Network test outcomes.
const (
	NetworkTestSuccess    NetworkTestOutcome = "Network test success"
	NetworkTestFailed     NetworkTestOutcome = "Network test failed"
	NetworkTestParseError NetworkTestOutcome = "Network test failed and response parsing error"
	NetworkTestNoResponse NetworkTestOutcome = "No response from server"
)

// claimRule maps a substring of the upstream claim message to an outcome.
type claimRule struct {
	contains string
	outcome  QuestOutcome
}

// claimRules is evaluated in order before the success flag is consulted.
// The upstream API only signals these states through human-readable text.
var claimRules = []claimRule{
	{contains: "HL2", outcome: QuestHL2Required},
	{contains: "Already", outcome: QuestAlreadyClaimed},
}

// ClassifyClaim turns a send-reward response into a quest outcome.
func ClassifyClaim(message string, success bool) QuestOutcome {
	for _, rule := range claimRules {
		if strings.Contains(message, rule.contains) {
			return rule.outcome
		}
	}
	if success {
		return QuestClaimed
	}
	return questErrorPrefix + message
}

// IsClaimed reports whether the quest outcome counts as a successful claim
// in the run summary.
func IsClaimed(outcome string) bool {
	return outcome == QuestClaimed
}
