package cli

import "fmt"

func errBadFlag(flag, got, want string) error {
	return fmt.Errorf("invalid --%s %q (want %s)", flag, got, want)
}

func errBadArg(what, got, want string) error {
	return fmt.Errorf("invalid %s %q (want %s)", what, got, want)
}
