package models

// UserStatus is a participant's overall result for a season.
type UserStatus int

const (
	UserPending UserStatus = iota
	UserPassed
	UserFailed
	UserLatePass
	UserIncomplete
)

var userStatusNames = [...]string{"PENDING", "PASSED", "FAILED", "LATE_PASS", "INCOMPLETE"}

func (s UserStatus) String() string {
	if s < 0 || int(s) >= len(userStatusNames) {
		return "UNKNOWN"
	}
	return userStatusNames[s]
}

func (s UserStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ContractStatus is the result of one contract slot.
type ContractStatus int

const (
	ContractPending ContractStatus = iota
	ContractPassed
	ContractFailed
	ContractLatePass
	ContractUnverified
)

var contractStatusNames = [...]string{"PENDING", "PASSED", "FAILED", "LATE_PASS", "UNVERIFIED"}

func (s ContractStatus) String() string {
	if s < 0 || int(s) >= len(contractStatusNames) {
		return "UNKNOWN"
	}
	return contractStatusNames[s]
}

func (s ContractStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Kind separates normal participants and contracts from aid ones.
type Kind int

const (
	KindNormal Kind = iota
	KindAid
)

func (k Kind) String() string {
	if k == KindAid {
		return "AID"
	}
	return "NORMAL"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
