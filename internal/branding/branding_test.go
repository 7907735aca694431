package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	if CLIName() != "createkit" {
		t.Errorf("CLIName() = %q", CLIName())
	}
	if HomeDir() != ".createkit" {
		t.Errorf("HomeDir() = %q", HomeDir())
	}
	if got := EnvVar("package_manager"); got != "CREATEKIT_PACKAGE_MANAGER" {
		t.Errorf("EnvVar() = %q", got)
	}
}
