package version

import (
	"strings"
	"testing"
)

func TestGetVersion_Default(t *testing.T) {
	if got := GetVersion(); got != "dev" {
		t.Errorf("expected dev, got %q", got)
	}
}

func TestInfo(t *testing.T) {
	info := Info()
	for _, want := range []string{"Version: dev", "Git commit:", "Go version: go"} {
		if !strings.Contains(info, want) {
			t.Errorf("Info() missing %q:\n%s", want, info)
		}
	}
}
