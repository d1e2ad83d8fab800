package suites

import "fmt"

// ChoosePreferringClient returns the first suite in the peer's offered order
// that is also in local. It returns nil when nothing overlaps.
func ChoosePreferringClient(offered []CipherSuiteID, local []*SupportedCipherSuite) *SupportedCipherSuite {
	for _, id := range offered {
		for _, s := range local {
			if s.Suite == id {
				return s
			}
		}
	}
	return nil
}

// ChoosePreferringServer returns the first suite in local order whose id the
// peer offered. It returns nil when nothing overlaps.
func ChoosePreferringServer(offered []CipherSuiteID, local []*SupportedCipherSuite) *SupportedCipherSuite {
	for _, s := range local {
		for _, id := range offered {
			if s.Suite == id {
				return s
			}
		}
	}
	return nil
}

// Policy selects which side's preference order wins negotiation.
type Policy uint8

const (
	// PreferServer walks the local list first. This is the usual server posture.
	PreferServer Policy = iota
	// PreferClient honours the order in which the peer offered suites.
	PreferClient
)

func (p Policy) String() string {
	switch p {
	case PreferServer:
		return "server"
	case PreferClient:
		return "client"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// ParsePolicy accepts "server" or "client".
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "server":
		return PreferServer, true
	case "client":
		return PreferClient, true
	default:
		return 0, false
	}
}

// Choose dispatches to ChoosePreferringServer or ChoosePreferringClient.
// Unknown policies select nothing.
func (p Policy) Choose(offered []CipherSuiteID, local []*SupportedCipherSuite) *SupportedCipherSuite {
	switch p {
	case PreferServer:
		return ChoosePreferringServer(offered, local)
	case PreferClient:
		return ChoosePreferringClient(offered, local)
	default:
		return nil
	}
}
