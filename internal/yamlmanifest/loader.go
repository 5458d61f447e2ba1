// Package yamlmanifest loads weft manifests written in YAML into the
// format-agnostic config model. It exists for hosts that embed weft but
// do not want an HCL dependency in their own configuration surface; the
// produced model is indistinguishable from the HCL loader's.
package yamlmanifest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"gopkg.in/yaml.v3"

	"github.com/vk/weft/internal/config"
	"github.com/vk/weft/internal/ctxlog"
	"github.com/vk/weft/internal/fsutil"
)

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new YAML manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every .yaml and .yml file under the given paths and merges
// the parsed definitions into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := config.NewModel()

	for _, path := range paths {
		var files []string
		for _, ext := range []string{".yaml", ".yml"} {
			found, err := fsutil.FindFilesByExtension(path, ext)
			if err != nil {
				return nil, fmt.Errorf("scanning %q for manifests: %w", path, err)
			}
			files = append(files, found...)
		}
		for _, file := range files {
			logger.Debug("Loading manifest file.", "path", file)
			fileModel, err := loadFile(file)
			if err != nil {
				return nil, err
			}
			if err := model.Merge(fileModel); err != nil {
				return nil, fmt.Errorf("merging manifest %q: %w", file, err)
			}
		}
	}

	logger.Debug("Manifest loading complete.",
		"commands", len(model.Commands), "middlewares", len(model.Middlewares))
	return model, nil
}

// yamlRoot is the document structure of a manifest file.
type yamlRoot struct {
	Commands    map[string]*yamlCommand    `yaml:"commands"`
	Middlewares map[string]*yamlMiddleware `yaml:"middlewares"`
}

type yamlCommand struct {
	Description string                  `yaml:"description"`
	Handler     string                  `yaml:"handler"`
	Middleware  []string                `yaml:"middleware"`
	Flags       map[string]*yamlFlag    `yaml:"flags"`
	PosArgs     *yamlPosArgs            `yaml:"posargs"`
	Commands    map[string]*yamlCommand `yaml:"commands"`
}

type yamlMiddleware struct {
	Description string               `yaml:"description"`
	Handler     string               `yaml:"handler"`
	Provides    []string             `yaml:"provides"`
	Flags       map[string]*yamlFlag `yaml:"flags"`
}

type yamlFlag struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Default     any    `yaml:"default"`
}

type yamlPosArgs struct {
	Name string `yaml:"name"`
	Min  int    `yaml:"min"`
	Max  *int   `yaml:"max"`
}

func loadFile(path string) (*config.Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var root yamlRoot
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	model := config.NewModel()
	for name, mw := range root.Middlewares {
		def, err := translateMiddleware(name, mw)
		if err != nil {
			return nil, fmt.Errorf("%s: middleware %q: %w", path, name, err)
		}
		model.Middlewares[name] = def
	}
	for name, cmd := range root.Commands {
		def, err := translateCommand(name, cmd)
		if err != nil {
			return nil, fmt.Errorf("%s: command %q: %w", path, name, err)
		}
		model.Commands[name] = def
	}
	return model, nil
}

func translateMiddleware(name string, mw *yamlMiddleware) (*config.MiddlewareDefinition, error) {
	flags, err := translateFlags(mw.Flags)
	if err != nil {
		return nil, err
	}
	return &config.MiddlewareDefinition{
		Name:        name,
		Description: mw.Description,
		Handler:     mw.Handler,
		Provides:    mw.Provides,
		Flags:       flags,
	}, nil
}

func translateCommand(name string, cmd *yamlCommand) (*config.CommandDefinition, error) {
	flags, err := translateFlags(cmd.Flags)
	if err != nil {
		return nil, err
	}

	def := &config.CommandDefinition{
		Name:        name,
		Description: cmd.Description,
		Handler:     cmd.Handler,
		Middlewares: cmd.Middleware,
		Flags:       flags,
		Subcommands: make(map[string]*config.CommandDefinition),
	}

	if cmd.PosArgs != nil {
		def.PosArgs = &config.PosArgsDefinition{
			Name: cmd.PosArgs.Name,
			Min:  cmd.PosArgs.Min,
			Max:  -1,
		}
		if cmd.PosArgs.Max != nil {
			def.PosArgs.Max = *cmd.PosArgs.Max
		}
	}

	for subName, sub := range cmd.Commands {
		subDef, err := translateCommand(subName, sub)
		if err != nil {
			return nil, fmt.Errorf("subcommand %q: %w", subName, err)
		}
		def.Subcommands[subName] = subDef
	}
	return def, nil
}

func translateFlags(flags map[string]*yamlFlag) ([]*config.FlagDefinition, error) {
	var out []*config.FlagDefinition
	for name, f := range flags {
		ty, err := parseTypeName(f.Type)
		if err != nil {
			return nil, fmt.Errorf("flag %q: %w", name, err)
		}

		def := &config.FlagDefinition{
			Name:        name,
			Description: f.Description,
			Type:        ty,
		}
		if f.Default != nil {
			val, err := goToCty(f.Default)
			if err != nil {
				return nil, fmt.Errorf("flag %q: default: %w", name, err)
			}
			converted, err := convert.Convert(val, ty)
			if err != nil {
				return nil, fmt.Errorf("flag %q: default value is not compatible with type %s", name, ty.FriendlyName())
			}
			def.Default = &converted
		}
		out = append(out, def)
	}
	return out, nil
}

// parseTypeName maps a YAML type string to a cty type. The grammar
// mirrors the HCL loader: primitives plus list(...) and map(...).
func parseTypeName(name string) (cty.Type, error) {
	switch name {
	case "string":
		return cty.String, nil
	case "number":
		return cty.Number, nil
	case "bool":
		return cty.Bool, nil
	}

	for _, ctor := range []string{"list", "map"} {
		prefix := ctor + "("
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ")") {
			inner, err := parseTypeName(name[len(prefix) : len(name)-1])
			if err != nil {
				return cty.NilType, err
			}
			if ctor == "list" {
				return cty.List(inner), nil
			}
			return cty.Map(inner), nil
		}
	}
	return cty.NilType, fmt.Errorf("unsupported flag type %q", name)
}

// goToCty converts a decoded YAML value into a cty value.
func goToCty(v any) (cty.Value, error) {
	switch val := v.(type) {
	case string:
		return cty.StringVal(val), nil
	case bool:
		return cty.BoolVal(val), nil
	case int:
		return cty.NumberIntVal(int64(val)), nil
	case int64:
		return cty.NumberIntVal(val), nil
	case float64:
		return cty.NumberFloatVal(val), nil
	case []any:
		if len(val) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(val))
		for i, item := range val {
			conv, err := goToCty(item)
			if err != nil {
				return cty.NilVal, err
			}
			elems[i] = conv
		}
		return cty.TupleVal(elems), nil
	case map[string]any:
		if len(val) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(val))
		for key, item := range val {
			conv, err := goToCty(item)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[key] = conv
		}
		return cty.ObjectVal(attrs), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported YAML value of type %T", v)
	}
}
