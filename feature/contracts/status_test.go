package contracts

import (
	"testing"

	"natsumin/feature/contracts/models"

	"github.com/stretchr/testify/assert"
)

func TestParseUserStatus(t *testing.T) {
	tests := map[string]models.UserStatus{
		"P":   models.UserPassed,
		" p ": models.UserPassed,
		"F":   models.UserFailed,
		"INC": models.UserIncomplete,
		"LP":  models.UserLatePass,
		"":    models.UserPending,
		"?":   models.UserPending,
	}
	for code, want := range tests {
		assert.Equal(t, want, parseUserStatus(code), code)
	}
}

func TestParseContractStatus(t *testing.T) {
	tests := map[string]models.ContractStatus{
		"PASSED":    models.ContractPassed,
		"badge":     models.ContractPassed,
		"FAILED":    models.ContractFailed,
		"LATE PASS": models.ContractLatePass,
		"":          models.ContractPending,
	}
	for code, want := range tests {
		assert.Equal(t, want, parseContractStatus(code), code)
	}
}

func TestParseArcanaStatus(t *testing.T) {
	tests := map[string]models.ContractStatus{
		"PURIFIED":      models.ContractPassed,
		"ENLIGHTENMENT": models.ContractPassed,
		"DEATH":         models.ContractFailed,
		"UNVERIFIED":    models.ContractUnverified,
		"LATE PASS":     models.ContractPending,
	}
	for code, want := range tests {
		assert.Equal(t, want, parseArcanaStatus(code), code)
	}
}

func TestParseAidStatus(t *testing.T) {
	assert.Equal(t, models.ContractPassed, parseAidStatus("passed"))
	assert.Equal(t, models.ContractFailed, parseAidStatus("FAILED"))
	assert.Equal(t, models.ContractPending, parseAidStatus("BADGE"))
}

func TestMediumOf(t *testing.T) {
	assert.Equal(t, "Anime", mediumOf("Frieren (Anime)"))
	assert.Equal(t, "LN", mediumOf("Title (Part 2) (LN)"))
	assert.Empty(t, mediumOf("Frieren"))
}

func TestContractName(t *testing.T) {
	assert.Equal(t, "Frieren Part 2", contractName("  Frieren\n Part 2 "))
	assert.Equal(t, "ab", oneLine("a\nb"))
}

func TestLayoutIsOptional(t *testing.T) {
	assert.True(t, seasonX.IsOptional("aria special"))
	assert.False(t, seasonX.IsOptional("Base Contract"))
	assert.Equal(t, []string{"season_x"}, LayoutIDs())
}
