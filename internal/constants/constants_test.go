package constants

import "testing"

// TestProtocolVersionString tests String method for ProtocolVersion.
func TestProtocolVersionString(t *testing.T) {
	tests := []struct {
		version ProtocolVersion
		want    string
	}{
		{VersionTLS13, "TLSv1.3"},
		{VersionTLS12, "TLSv1.2"},
		{VersionTLS10, "TLSv1.0"},
		{VersionSSL30, "SSLv3"},
		{ProtocolVersion(0x7f12), "Unknown(0x7f12)"},
	}

	for _, tt := range tests {
		got := tt.version.String()
		if got != tt.want {
			t.Errorf("ProtocolVersion(%#04x).String() = %q, want %q", uint16(tt.version), got, tt.want)
		}
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input string
		want  ProtocolVersion
		ok    bool
	}{
		{"TLSv1.3", VersionTLS13, true},
		{"tls13", VersionTLS13, true},
		{"1.2", VersionTLS12, true},
		{"TLS12", VersionTLS12, true},
		{"tls10", VersionTLS10, true},
		{"ssl3", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseVersion(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseVersion(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

// TestVersionOrdering checks that the latest/prior pair is adjacent.
func TestVersionOrdering(t *testing.T) {
	if LatestVersion != PriorVersion+1 {
		t.Errorf("LatestVersion = %v, PriorVersion = %v: not adjacent", LatestVersion, PriorVersion)
	}
}

func TestNonceLayout(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"GCM salt + explicit", GCMFixedIVSize + GCMExplicitNonceSize, AEADNonceSize},
		{"FullIVSize", FullIVSize, 12},
		{"LegacyAdditionalDataSize", LegacyAdditionalDataSize, 8 + RecordHeaderSize},
		{"MaxHashSize", MaxHashSize, 48},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}
