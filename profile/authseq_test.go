package profile

import (
	"reflect"
	"testing"
)

// kindPrompt returns a canned value per requested factor kind and
// records the order factors were requested in.
func kindPrompt(values map[string]string, asked *[]string) PromptFunc {
	return func(factor string) (string, bool) {
		*asked = append(*asked, factor)
		value, ok := values[factor]
		return value, ok
	}
}

func TestRunAuthSequence_DuoPassword(t *testing.T) {
	var asked []string
	prompt := kindPrompt(map[string]string{
		FactorPassword: "secretpw",
		FactorDuo:      "123456",
	}, &asked)

	var username, password string
	fired := 0
	RunAuthSequence("duo_password", prompt, func(user, pass string) {
		username = user
		password = pass
		fired++
	})

	if fired != 1 {
		t.Fatalf("callback fired %d times, want 1", fired)
	}
	if username != "vpnetscape" {
		t.Errorf("username = %q, want fallback identity", username)
	}
	if password != "secretpw123456" {
		t.Errorf("password = %q, want %q", password, "secretpw123456")
	}
	if !reflect.DeepEqual(asked, []string{FactorPassword, FactorDuo}) {
		t.Errorf("factor collection order = %v", asked)
	}
}

func TestRunAuthSequence_UsernamePassword(t *testing.T) {
	var asked []string
	prompt := kindPrompt(map[string]string{
		FactorUsername: "user0",
		FactorPassword: "secretpw",
	}, &asked)

	var username, password string
	RunAuthSequence("username_password", prompt, func(user, pass string) {
		username = user
		password = pass
	})

	if username != "user0" {
		t.Errorf("username = %q, want user0", username)
	}
	if password != "secretpw" {
		t.Errorf("password = %q, want secretpw", password)
	}
}

func TestRunAuthSequence_PinOtp(t *testing.T) {
	var asked []string
	prompt := kindPrompt(map[string]string{
		FactorPin: "9999",
		FactorOtp: "123456",
	}, &asked)

	var password string
	RunAuthSequence("pin_otp", prompt, func(_, pass string) {
		password = pass
	})

	// The PIN is collected before the one-time code.
	if password != "9999123456" {
		t.Errorf("password = %q, want %q", password, "9999123456")
	}
}

func TestRunAuthSequence_DuoConsumesOtp(t *testing.T) {
	var asked []string
	prompt := kindPrompt(map[string]string{
		FactorDuo: "123456",
	}, &asked)

	fired := false
	RunAuthSequence("duo_otp", prompt, func(_, _ string) {
		fired = true
	})

	if !fired {
		t.Fatal("callback should fire")
	}
	if !reflect.DeepEqual(asked, []string{FactorDuo}) {
		t.Errorf("duo should consume the otp slot, asked %v", asked)
	}
}

func TestRunAuthSequence_CancelAborts(t *testing.T) {
	calls := 0
	prompt := func(factor string) (string, bool) {
		calls++
		return "", false
	}

	RunAuthSequence("password_otp", prompt, func(_, _ string) {
		t.Fatal("callback must not fire after cancellation")
	})

	if calls != 1 {
		t.Errorf("sequence continued after cancellation: %d prompts", calls)
	}
}

func TestRunAuthSequence_EmptyValueAborts(t *testing.T) {
	prompt := func(factor string) (string, bool) {
		return "", true
	}

	RunAuthSequence("otp", prompt, func(_, _ string) {
		t.Fatal("callback must not fire for an empty value")
	})
}

func TestRunAuthSequence_UnrecognizedSkipped(t *testing.T) {
	var asked []string
	prompt := kindPrompt(map[string]string{
		FactorOtp: "123456",
	}, &asked)

	var password string
	fired := false
	RunAuthSequence("sso_otp", prompt, func(_, pass string) {
		fired = true
		password = pass
	})

	if !fired {
		t.Fatal("unrecognized tokens must not block completion")
	}
	if password != "123456" {
		t.Errorf("password = %q, want 123456", password)
	}
	if !reflect.DeepEqual(asked, []string{FactorOtp}) {
		t.Errorf("asked = %v, want only otp", asked)
	}
}
