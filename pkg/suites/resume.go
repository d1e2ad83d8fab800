package suites

// CanResumeTo reports whether a session established under s may be resumed
// under next.
//
// TLS 1.3 sessions resume across any suites sharing a hash algorithm. TLS 1.2
// sessions only resume under the identical suite. A session never resumes
// across protocol versions.
//
// Call it as prev.CanResumeTo(next); do not rely on symmetry.
func (s *SupportedCipherSuite) CanResumeTo(next *SupportedCipherSuite) bool {
	if s == nil || next == nil {
		return false
	}
	switch {
	case s.UsableForVersion(TLS13) && next.UsableForVersion(TLS13):
		return s.Hash == next.Hash
	case s.UsableForVersion(TLS12) && next.UsableForVersion(TLS12):
		return s.Suite == next.Suite
	default:
		return false
	}
}
