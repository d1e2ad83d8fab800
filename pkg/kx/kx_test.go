package kx_test

import (
	"bytes"
	"testing"

	"github.com/sara-star-quant/suitekit/pkg/crypto"
	"github.com/sara-star-quant/suitekit/pkg/kx"
	"github.com/sara-star-quant/suitekit/pkg/suites"
)

func TestKeyExchangeRoundTrip(t *testing.T) {
	for _, g := range kx.AllGroups() {
		t.Run(g.Name(), func(t *testing.T) {
			client, err := g.Start()
			if err != nil {
				t.Fatalf("Start failed: %v", err)
			}
			share := client.Share()
			if len(share) != g.ShareSize() {
				t.Fatalf("share size = %d, want %d", len(share), g.ShareSize())
			}

			answer, serverSecret, err := g.Respond(share)
			if err != nil {
				t.Fatalf("Respond failed: %v", err)
			}
			clientSecret, err := client.Complete(answer)
			if err != nil {
				t.Fatalf("Complete failed: %v", err)
			}
			if !bytes.Equal(clientSecret, serverSecret) {
				t.Error("client and server secrets differ")
			}
			if len(clientSecret) == 0 {
				t.Error("empty shared secret")
			}
		})
	}
}

func TestRespondRejectsBadShare(t *testing.T) {
	for _, g := range kx.AllGroups() {
		if _, _, err := g.Respond(make([]byte, g.ShareSize()-1)); err == nil {
			t.Errorf("%s: Respond accepted a short share", g)
		}
	}
}

func TestCompleteRejectsBadAnswer(t *testing.T) {
	for _, g := range []*kx.Group{kx.MLKEM768, kx.X25519MLKEM768, kx.P256} {
		client, err := g.Start()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := client.Complete([]byte{1, 2, 3}); err == nil {
			t.Errorf("%s: Complete accepted a truncated answer", g)
		}
	}
}

func TestGroupProperties(t *testing.T) {
	tests := []struct {
		group *kx.Group
		id    kx.GroupID
		pq    bool
		fips  bool
	}{
		{kx.X25519MLKEM768, 0x11ec, true, false},
		{kx.X25519, 0x001d, false, false},
		{kx.P256, 0x0017, false, true},
		{kx.P384, 0x0018, false, true},
		{kx.MLKEM768, 0x0201, true, true},
	}
	for _, tt := range tests {
		if tt.group.ID() != tt.id || tt.group.IsPostQuantum() != tt.pq || tt.group.IsFIPSApproved() != tt.fips {
			t.Errorf("%s: id=%04x pq=%v fips=%v", tt.group, uint16(tt.group.ID()), tt.group.IsPostQuantum(), tt.group.IsFIPSApproved())
		}
		if kx.Lookup(tt.id) != tt.group {
			t.Errorf("Lookup(%04x) should return %s", uint16(tt.id), tt.group)
		}
		if kx.LookupName(tt.group.Name()) != tt.group {
			t.Errorf("LookupName(%q) should return %s", tt.group.Name(), tt.group)
		}
	}
	if kx.LookupName("P-256") != kx.P256 || kx.LookupName("ffdhe2048") != nil {
		t.Error("LookupName alias handling")
	}
	if kx.GroupID(0x0100).String() != "Unknown(0x0100)" {
		t.Errorf("unknown id String() = %s", kx.GroupID(0x0100))
	}
}

func TestDefaultGroups(t *testing.T) {
	defaults := kx.DefaultGroups()
	if !crypto.FIPSMode() {
		if len(defaults) != len(kx.AllGroups()) || defaults[0] != kx.X25519MLKEM768 {
			t.Errorf("defaults = %v", defaults)
		}
		return
	}
	for _, g := range defaults {
		if !g.IsFIPSApproved() {
			t.Errorf("FIPS defaults contain %s", g)
		}
	}
}

func TestChooseGroup(t *testing.T) {
	local := []*kx.Group{kx.X25519MLKEM768, kx.X25519, kx.P256}
	offered := []kx.GroupID{kx.GroupSecp256r1, kx.GroupX25519}

	if got := kx.Choose(suites.PreferServer, offered, local); got != kx.X25519 {
		t.Errorf("server preference chose %v, want X25519", got)
	}
	if got := kx.Choose(suites.PreferClient, offered, local); got != kx.P256 {
		t.Errorf("client preference chose %v, want secp256r1", got)
	}
	if got := kx.Choose(suites.PreferServer, []kx.GroupID{kx.GroupSecp384r1}, local); got != nil {
		t.Errorf("disjoint offer chose %v", got)
	}
	if got := kx.Choose(suites.Policy(7), offered, local); got != nil {
		t.Errorf("unknown policy chose %v", got)
	}
}
