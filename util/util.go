package util

import (
	"fmt"
	"os"
	"strings"
)

// Errors collects the problems found while reading configuration, so a
// caller can report every missing variable at once.
type Errors []error

func (e Errors) Error() string {
	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// RequireEnv returns the value of the named environment variable, and
// appends to errs if it is unset.
func RequireEnv(varName string, errs *Errors) string {
	envVar := os.Getenv(varName)
	if len(envVar) == 0 {
		*errs = append(*errs, fmt.Errorf("environment variable %s must be set", varName))
	}
	return envVar
}
