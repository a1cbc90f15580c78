package refactor

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ConfigurationOptionType is the kind of value a ConfigurationOption holds.
type ConfigurationOptionType int

// Option value kinds.
const (
	BoolConfigurationOption ConfigurationOptionType = iota
	StringConfigurationOption
	StringsConfigurationOption
	StringMapConfigurationOption
)

var optionTypeNames = [...]string{
	BoolConfigurationOption:      "bool",
	StringConfigurationOption:    "string",
	StringsConfigurationOption:   "strings",
	StringMapConfigurationOption: "map",
}

// String returns the type name shown next to an option in generated docs.
func (opt ConfigurationOptionType) String() string {
	if opt < 0 || int(opt) >= len(optionTypeNames) {
		return fmt.Sprintf("ConfigurationOptionType(%d)", int(opt))
	}

	return optionTypeNames[opt]
}

// ConfigurationOption describes one setting a rule accepts through Configure.
// Name is the facts key, e.g. "ConfigBuilder.Unresolved".
type ConfigurationOption struct {
	Default     any
	Name        string
	Description string
	Type        ConfigurationOptionType
}

// FormatDefault renders Default for help output. Strings, string lists, and
// maps are quoted; maps print as sorted key=value pairs.
func (opt ConfigurationOption) FormatDefault() string {
	switch value := opt.Default.(type) {
	case string:
		return fmt.Sprintf("%q", value)
	case []string:
		return fmt.Sprintf("%q", strings.Join(value, ","))
	case map[string]string:
		pairs := make([]string, 0, len(value))

		for _, key := range slices.Sorted(maps.Keys(value)) {
			pairs = append(pairs, key+"="+value[key])
		}

		return fmt.Sprintf("%q", strings.Join(pairs, ","))
	default:
		return fmt.Sprint(value)
	}
}
