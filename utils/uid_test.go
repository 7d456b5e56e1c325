package utils

import "testing"

func TestNormalizeUID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"04A23B1C5D6E80", "04A23B1C5D6E80"},
		{"04a23b1c5d6e80", "04A23B1C5D6E80"},
		{"04:a2:3b:1c:5d:6e:80", "04A23B1C5D6E80"},
		{"04-A2-3B-1C-5D-6E-80", "04A23B1C5D6E80"},
		{"  04a23b1c5d6e80\n", "04A23B1C5D6E80"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeUID(tc.in); got != tc.want {
			t.Errorf("NormalizeUID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidUID(t *testing.T) {
	valid := []string{"AABBCCDD", "04A23B1C5D6E80", "0011223344556677AABB"}
	for _, uid := range valid {
		if !ValidUID(uid) {
			t.Errorf("ValidUID(%q) = false, want true", uid)
		}
	}

	invalid := []string{"", "AABBCC", "not a tag", "04a23b1c5d6e80", "ZZZZZZZZ", "0011223344556677AABBCCDDEEFF00112233"}
	for _, uid := range invalid {
		if ValidUID(uid) {
			t.Errorf("ValidUID(%q) = true, want false", uid)
		}
	}
}
