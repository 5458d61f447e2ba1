package flagparse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/weft/internal/config"
)

// UsageError reports malformed command-line input: an unknown flag, a
// missing value, or a value that does not fit the declared type.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

func usageErrorf(format string, args ...any) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// Result holds the outcome of tokenizing one argument vector.
type Result struct {
	// Flags maps flag names (CLI spelling) to their parsed values. Only
	// flags actually present on the command line appear here.
	Flags map[string]cty.Value

	// PosArgs are the positional arguments before any "--" separator.
	PosArgs []string

	// PostPosArgs are the arguments after the "--" separator.
	PostPosArgs []string

	// Help is set when -h or --help was supplied.
	Help bool
}

// Parse tokenizes args against the active flag definitions. Long and
// short spellings are treated alike; boolean flags take an optional
// =value; every other type consumes the following token when no =value
// is attached. A bare "--" ends flag parsing and routes the remainder to
// PostPosArgs.
func Parse(args []string, defs []*config.FlagDefinition) (*Result, error) {
	byName := make(map[string]*config.FlagDefinition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}

	res := &Result{Flags: make(map[string]cty.Value)}

	for i := 0; i < len(args); i++ {
		token := args[i]

		if token == "--" {
			res.PostPosArgs = append(res.PostPosArgs, args[i+1:]...)
			break
		}
		if token == "" || token[0] != '-' || token == "-" {
			res.PosArgs = append(res.PosArgs, token)
			continue
		}

		var name string
		if strings.HasPrefix(token, "--") {
			name = token[2:]
		} else {
			name = token[1:]
		}
		if strings.HasPrefix(name, "-") {
			return nil, usageErrorf("unknown flag: %s", token)
		}

		var attached string
		hasAttached := false
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name, attached = name[:eq], name[eq+1:]
			hasAttached = true
		}

		def, ok := byName[name]
		if !ok {
			// A declared flag named h or help shadows the help shorthand.
			if token == "-h" || token == "--help" {
				res.Help = true
				continue
			}
			return nil, usageErrorf("unknown flag: --%s", name)
		}

		var raw string
		switch {
		case hasAttached:
			raw = attached
		case def.Type == cty.Bool:
			// Presence alone means true.
			res.Flags[def.Name] = cty.True
			continue
		default:
			if i+1 >= len(args) {
				return nil, usageErrorf("flag --%s requires a value", name)
			}
			i++
			raw = args[i]
		}

		val, err := parseValue(raw, def.Type)
		if err != nil {
			return nil, usageErrorf("invalid value %q for flag --%s: %v", raw, name, err)
		}

		// Repeated list and map flags accumulate.
		if prev, exists := res.Flags[def.Name]; exists && def.Type.IsListType() {
			elems := append(prev.AsValueSlice(), val.AsValueSlice()...)
			res.Flags[def.Name] = cty.ListVal(elems)
			continue
		}
		if prev, exists := res.Flags[def.Name]; exists && def.Type.IsMapType() {
			merged := prev.AsValueMap()
			for k, v := range val.AsValueMap() {
				merged[k] = v
			}
			res.Flags[def.Name] = cty.MapVal(merged)
			continue
		}
		res.Flags[def.Name] = val
	}

	return res, nil
}

// parseValue converts one raw token into a value of the declared type.
func parseValue(raw string, ty cty.Type) (cty.Value, error) {
	switch {
	case ty == cty.String:
		return cty.StringVal(raw), nil

	case ty == cty.Number:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return cty.NilVal, fmt.Errorf("expected a number")
		}
		return cty.NumberFloatVal(f), nil

	case ty == cty.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return cty.NilVal, fmt.Errorf("expected true or false")
		}
		return cty.BoolVal(b), nil

	case ty.IsListType():
		elem, err := parseValue(raw, ty.ElementType())
		if err != nil {
			return cty.NilVal, err
		}
		return cty.ListVal([]cty.Value{elem}), nil

	case ty.IsMapType():
		key, rawVal, found := strings.Cut(raw, "=")
		if !found {
			return cty.NilVal, fmt.Errorf("expected key=value")
		}
		elem, err := parseValue(rawVal, ty.ElementType())
		if err != nil {
			return cty.NilVal, err
		}
		return cty.MapVal(map[string]cty.Value{key: elem}), nil

	default:
		return cty.NilVal, fmt.Errorf("unsupported flag type %s", ty.FriendlyName())
	}
}
