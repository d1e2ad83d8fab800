package version

import (
	"regexp"
	"strings"
	"testing"
)

func TestVersionStrings(t *testing.T) {
	v := String()
	if !regexp.MustCompile(`^v\d+\.\d+\.\d+(-[0-9A-Za-z.]+)?$`).MatchString(v) {
		t.Errorf("String() = %q, not a semantic version", v)
	}

	full := Full()
	if !strings.HasPrefix(full, "suitekit ") || !strings.HasSuffix(full, v) {
		t.Errorf("Full() = %q", full)
	}

	if ua := UserAgent(); ua != "suitectl/"+strings.TrimPrefix(v, "v") {
		t.Errorf("UserAgent() = %q", ua)
	}
}
