package profile

import (
	"strings"

	"github.com/vpnetscape/client/common"
)

// Credential factor kinds a profile may require. An auth type joins
// one or more of these with underscores, e.g. "pin_duo_otp".
const (
	FactorUsername = "username"
	FactorPassword = "password"
	FactorPin      = "pin"
	FactorDuo      = "duo"
	FactorYubikey  = "yubikey"
	FactorOtp      = "otp"
)

// factorOrder is the collection order of recognized factors. Duo also
// consumes the otp slot its classification carries.
var factorOrder = []string{
	FactorUsername,
	FactorPassword,
	FactorPin,
	FactorDuo,
	FactorYubikey,
	FactorOtp,
}

// PromptFunc requests a single credential value for the given factor
// kind from the shell. Returning ok == false, or an empty value,
// cancels the whole sequence.
type PromptFunc func(factor string) (value string, ok bool)

// RunAuthSequence collects the credential factors named by authType,
// one prompt at a time, and fires done exactly once with the
// accumulated username/password pair. The username factor fills the
// username slot; every other factor appends its value to the password,
// so composite passwords like password+OTP are built in collection
// order. Any cancellation aborts the sequence without firing done;
// unrecognized factor tokens are skipped.
func RunAuthSequence(authType string, prompt PromptFunc, done func(username, password string)) {
	worklist := strings.Split(authType, "_")
	username := ""
	password := ""

	for {
		factor, ok := popFactor(&worklist)
		if !ok {
			break
		}

		value, ok := prompt(factor)
		if !ok || value == "" {
			return
		}

		if factor == FactorUsername {
			username = value
		} else {
			password += value
		}
	}

	if username == "" {
		username = common.DefaultUser
	}
	done(username, password)
}

// popFactor removes and returns the next recognized factor from the
// worklist, honoring the fixed collection order. A worklist holding
// only unrecognized tokens is exhausted.
func popFactor(worklist *[]string) (string, bool) {
	for _, factor := range factorOrder {
		i := indexOf(*worklist, factor)
		if i == -1 {
			continue
		}

		*worklist = append((*worklist)[:i], (*worklist)[i+1:]...)

		if factor == FactorDuo {
			if j := indexOf(*worklist, FactorOtp); j != -1 {
				*worklist = append((*worklist)[:j], (*worklist)[j+1:]...)
			}
		}

		return factor, true
	}

	return "", false
}

func indexOf(list []string, value string) int {
	for i, item := range list {
		if item == value {
			return i
		}
	}
	return -1
}
