package validate

import (
	"errors"
	"testing"
)

func TestPasswordPolicy(t *testing.T) {
	cases := []struct {
		name     string
		password string
		reason   string
	}{
		{"valid", "Aa1@aaaa", ""},
		{"valid complex", "AAaa@@88$$99", ""},
		{"too short", "Aa1@", "PasswordShorterThan6Characters"},
		{"too long", "Aa1@" + string(make([]byte, 50)), "PasswordLongerThan50Characters"},
		{"no digit", "Aaaa@aaa", "MissingNumericCharacter"},
		{"no upper", "aa1@aaaa", "MissingUppercaseCharacter"},
		{"no lower", "AA1@AAAA", "MissingLowercaseCharacter"},
		{"no special", "Aa1aaaaa", "MissingSpecialCharacter"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Password(tc.password)
			if tc.reason == "" {
				if err != nil {
					t.Fatalf("Password(%q) = %v, want nil", tc.password, err)
				}
				return
			}
			var perr *PasswordError
			if !errors.As(err, &perr) {
				t.Fatalf("Password(%q) = %v, want *PasswordError", tc.password, err)
			}
			if perr.Reason != tc.reason {
				t.Fatalf("reason = %q, want %q", perr.Reason, tc.reason)
			}
		})
	}
}

func TestRequiredFields(t *testing.T) {
	fields := map[string]string{"email": "a@test.com", "password": "", "name": "  "}
	missing := RequiredFields(fields, []string{"email", "password", "name", "dob"})
	want := []string{"password", "name", "dob"}
	if len(missing) != len(want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Fatalf("missing = %v, want %v", missing, want)
		}
	}
}

func TestUserID(t *testing.T) {
	if !UserID("8f4e7a1c-9a44-4b22-b9e1-2f6f3b3f7a10") {
		t.Fatal("well-formed uuid rejected")
	}
	if UserID("not-a-uuid") {
		t.Fatal("malformed id accepted")
	}
}
