package suites

// ReduceGivenVersion returns the suites in list usable for version v, in
// their original order.
func ReduceGivenVersion(list []*SupportedCipherSuite, v ProtocolVersion) []*SupportedCipherSuite {
	out := make([]*SupportedCipherSuite, 0, len(list))
	for _, s := range list {
		if s.UsableForVersion(v) {
			out = append(out, s)
		}
	}
	return out
}

// ReduceGivenSigAlg returns the suites in list usable with a key that only
// produces alg signatures, in their original order.
func ReduceGivenSigAlg(list []*SupportedCipherSuite, alg SignatureAlgorithm) []*SupportedCipherSuite {
	out := make([]*SupportedCipherSuite, 0, len(list))
	for _, s := range list {
		if s.UsableForSigAlg(alg) {
			out = append(out, s)
		}
	}
	return out
}

// CompatibleSigSchemeForSuites reports whether at least one suite in list is
// usable for the signing algorithm of scheme.
func CompatibleSigSchemeForSuites(scheme SignatureScheme, list []*SupportedCipherSuite) bool {
	alg := scheme.Sign()
	for _, s := range list {
		if s.UsableForSigAlg(alg) {
			return true
		}
	}
	return false
}
