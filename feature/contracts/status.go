package contracts

import (
	"regexp"
	"strings"

	"natsumin/feature/contracts/models"
)

func parseUserStatus(code string) models.UserStatus {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "P":
		return models.UserPassed
	case "F":
		return models.UserFailed
	case "INC":
		return models.UserIncomplete
	case "LP":
		return models.UserLatePass
	default:
		return models.UserPending
	}
}

func parseContractStatus(code string) models.ContractStatus {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "PASSED", "BADGE":
		return models.ContractPassed
	case "FAILED":
		return models.ContractFailed
	case "LATE PASS":
		return models.ContractLatePass
	default:
		return models.ContractPending
	}
}

func parseArcanaStatus(code string) models.ContractStatus {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "PASSED", "PURIFIED", "ENLIGHTENMENT":
		return models.ContractPassed
	case "DEATH":
		return models.ContractFailed
	case "UNVERIFIED":
		return models.ContractUnverified
	default:
		return models.ContractPending
	}
}

func parseAidStatus(code string) models.ContractStatus {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "PASSED":
		return models.ContractPassed
	case "FAILED":
		return models.ContractFailed
	default:
		return models.ContractPending
	}
}

var nameMediumPattern = regexp.MustCompile(`(.*) \((.*)\)`)

// mediumOf extracts "Medium" from a "Title (Medium)" cell.
func mediumOf(title string) string {
	if m := nameMediumPattern.FindStringSubmatch(title); m != nil {
		return m[2]
	}
	return ""
}

// contractName flattens a multi-line title cell.
func contractName(value string) string {
	return strings.ReplaceAll(strings.TrimSpace(value), "\n", "")
}

func oneLine(value string) string {
	return strings.ReplaceAll(value, "\n", "")
}
