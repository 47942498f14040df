package auth

import (
	"testing"
)

func TestHashToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{
			name:  "empty string",
			token: "",
			want:  "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:  "simple token",
			token: "test-token",
			want:  "4c5dc9b7708905f77f5e5d16316b5dfb425e68cb326dcd55a860e90a7707031e",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HashToken(tt.token)
			if got != tt.want {
				t.Errorf("HashToken(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	if got := Fingerprint(""); got != "" {
		t.Errorf("Fingerprint(\"\") = %q, want empty", got)
	}

	got := Fingerprint("test-token")
	if got != "4c5dc9b77089" {
		t.Errorf("Fingerprint() = %q, want %q", got, "4c5dc9b77089")
	}
	if Fingerprint("test-token") != got {
		t.Error("Fingerprint() is not stable")
	}
	if Fingerprint("other-token") == got {
		t.Error("Fingerprint() collided for different tokens")
	}
}
