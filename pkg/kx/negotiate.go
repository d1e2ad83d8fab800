package kx

import "github.com/sara-star-quant/suitekit/pkg/suites"

// ChoosePreferringClient returns the first group in the peer's offered order
// that is also in local, or nil.
func ChoosePreferringClient(offered []GroupID, local []*Group) *Group {
	for _, id := range offered {
		for _, g := range local {
			if g.id == id {
				return g
			}
		}
	}
	return nil
}

// ChoosePreferringServer returns the first group in local order that the peer
// offered, or nil.
func ChoosePreferringServer(offered []GroupID, local []*Group) *Group {
	for _, g := range local {
		for _, id := range offered {
			if g.id == id {
				return g
			}
		}
	}
	return nil
}

// Choose selects a group using the same posture as suite negotiation.
func Choose(policy suites.Policy, offered []GroupID, local []*Group) *Group {
	switch policy {
	case suites.PreferServer:
		return ChoosePreferringServer(offered, local)
	case suites.PreferClient:
		return ChoosePreferringClient(offered, local)
	default:
		return nil
	}
}
