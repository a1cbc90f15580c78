package configbuilder

import (
	"errors"
	"strings"

	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
)

// Sentinel errors.
var (
	// ErrUnsupportedExtensionKey means the extension key has no builder class in the key table.
	ErrUnsupportedExtensionKey = errors.New("unsupported extension key")
	// ErrUnresolvableValue means a configuration value is not known at compile time.
	ErrUnresolvableValue = errors.New("configuration value is not statically resolvable")
	// ErrMalformedConfig means the configuration array has a shape no builder call can express.
	ErrMalformedConfig = errors.New("malformed extension configuration")
	// ErrInvalidKeyTable means a key table entry failed validation.
	ErrInvalidKeyTable = errors.New("invalid extension key table")
	// ErrInvalidPolicy means an unresolved value policy name is not recognized.
	ErrInvalidPolicy = errors.New("invalid unresolved value policy")
	// ErrInvalidFact means a configuration fact has the wrong type.
	ErrInvalidFact = errors.New("invalid configuration fact")
)

// UnresolvableValueError reports the key path of a value that could not be resolved.
type UnresolvableValueError struct {
	// Path lists the array keys from the top-level configuration key down to the value.
	Path []string
	// Reason describes why resolution failed.
	Reason string
	// Node is the expression that could not be resolved, when known.
	Node *node.Node
}

// Error implements error.
func (e *UnresolvableValueError) Error() string {
	msg := ErrUnresolvableValue.Error() + " at " + formatPath(e.Path)

	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	if e.Node != nil {
		msg += " (" + node.Source(e.Node) + ")"
	}

	return msg
}

// Unwrap returns ErrUnresolvableValue.
func (e *UnresolvableValueError) Unwrap() error {
	return ErrUnresolvableValue
}

func formatPath(path []string) string {
	if len(path) == 0 {
		return "<root>"
	}

	return strings.Join(path, ".")
}
