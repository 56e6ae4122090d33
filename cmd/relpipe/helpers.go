package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// usageError marks failures of the command-line contract itself (missing
// required flags, invalid enumerated values). main maps it to exit code 2,
// distinct from the runtime-failure exit code 1.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usagef(format string, args ...interface{}) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// requireString fetches a string flag that must be non-empty.
func requireString(cmd *cobra.Command, name string) (string, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return "", usagef("required flag --%s not set", name)
	}
	return v, nil
}

// requireChoice fetches a string flag whose value must be one of the
// enumerated choices.
func requireChoice(cmd *cobra.Command, name string, choices ...string) (string, error) {
	v, err := requireString(cmd, name)
	if err != nil {
		return "", err
	}
	for _, c := range choices {
		if v == c {
			return v, nil
		}
	}
	return "", usagef("invalid value %q for --%s (choose from %s)", v, name, strings.Join(choices, ", "))
}

// parseBool interprets the boolean-like flag values accepted by the
// pipeline: "true", "1" and "yes" (any case) are true, everything else is
// false.
func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
