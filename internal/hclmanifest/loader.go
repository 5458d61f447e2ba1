package hclmanifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/weft/internal/config"
	"github.com/vk/weft/internal/ctxlog"
	"github.com/vk/weft/internal/fsutil"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every .hcl file under the given paths and merges the parsed
// definitions into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := config.NewModel()

	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("scanning %q for manifests: %w", path, err)
		}
		for _, file := range files {
			logger.Debug("Loading manifest file.", "path", file)
			fileModel, err := l.loadFile(file)
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

// rootSchema is the top-level structure of a manifest file.
type rootSchema struct {
	Commands    []*hclBlock `hcl:"command,block"`
	Middlewares []*hclBlock `hcl:"middleware,block"`
}

// hclBlock is a labeled block whose body is decoded by a dedicated walker.
type hclBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

func (l *Loader) loadFile(path string) (*config.Model, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, diags
	}

	schema := &rootSchema{}
	if diags := gohcl.DecodeBody(hclFile.Body, nil, schema); diags.HasErrors() {
		return nil, diags
	}

	model := config.NewModel()
	var allDiags hcl.Diagnostics

	for _, block := range schema.Middlewares {
		def, defDiags := parseMiddleware(block)
		allDiags = append(allDiags, defDiags...)
		if defDiags.HasErrors() {
			continue
		}
		if _, exists := model.Middlewares[def.Name]; exists {
			return nil, fmt.Errorf("%s: duplicate middleware definition %q", path, def.Name)
		}
		model.Middlewares[def.Name] = def
	}

	for _, block := range schema.Commands {
		def, defDiags := parseCommand(block)
		allDiags = append(allDiags, defDiags...)
		if defDiags.HasErrors() {
			continue
		}
		if _, exists := model.Commands[def.Name]; exists {
			return nil, fmt.Errorf("%s: duplicate command definition %q", path, def.Name)
		}
		model.Commands[def.Name] = def
	}

	if allDiags.HasErrors() {
		return nil, allDiags
	}
	return model, nil
}

// middlewareBodySchema defines the body of a `middleware` block.
var middlewareBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "handler", Required: true},
		{Name: "provides"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "flag", LabelNames: []string{"name"}},
	},
}

func parseMiddleware(block *hclBlock) (*config.MiddlewareDefinition, hcl.Diagnostics) {
	bodyContent, diags := block.Body.Content(middlewareBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	def := &config.MiddlewareDefinition{Name: block.Name}

	if attr, exists := bodyContent.Attributes["description"]; exists {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &def.Description)...)
	}
	if attr, exists := bodyContent.Attributes["handler"]; exists {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &def.Handler)...)
	}
	if attr, exists := bodyContent.Attributes["provides"]; exists {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &def.Provides)...)
	}

	flags, flagDiags := parseFlags(bodyContent.Blocks)
	diags = append(diags, flagDiags...)
	def.Flags = flags

	if diags.HasErrors() {
		return nil, diags
	}
	return def, nil
}

// commandBodySchema defines the body of a `command` block. Commands nest:
// a `command` block inside another declares a subcommand.
var commandBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "handler"},
		{Name: "middleware"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "flag", LabelNames: []string{"name"}},
		{Type: "posargs"},
		{Type: "command", LabelNames: []string{"name"}},
	},
}

func parseCommand(block *hclBlock) (*config.CommandDefinition, hcl.Diagnostics) {
	bodyContent, diags := block.Body.Content(commandBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	def := &config.CommandDefinition{
		Name:        block.Name,
		Subcommands: make(map[string]*config.CommandDefinition),
	}

	if attr, exists := bodyContent.Attributes["description"]; exists {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &def.Description)...)
	}
	if attr, exists := bodyContent.Attributes["handler"]; exists {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &def.Handler)...)
	}
	if attr, exists := bodyContent.Attributes["middleware"]; exists {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &def.Middlewares)...)
	}

	flags, flagDiags := parseFlags(bodyContent.Blocks)
	diags = append(diags, flagDiags...)
	def.Flags = flags

	posargs, posDiags := parsePosArgs(bodyContent.Blocks)
	diags = append(diags, posDiags...)
	def.PosArgs = posargs

	for _, sub := range bodyContent.Blocks.OfType("command") {
		subDef, subDiags := parseCommand(&hclBlock{Name: sub.Labels[0], Body: sub.Body})
		diags = append(diags, subDiags...)
		if subDiags.HasErrors() {
			continue
		}
		if _, exists := def.Subcommands[subDef.Name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate subcommand definition",
				Detail:   fmt.Sprintf("A subcommand named '%s' has already been defined under '%s'.", subDef.Name, def.Name),
				Subject:  &sub.DefRange,
			})
			continue
		}
		def.Subcommands[subDef.Name] = subDef
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return def, nil
}

// posArgsBody decodes the body of a `posargs` block.
type posArgsBody struct {
	Name string `hcl:"name,optional"`
	Min  int    `hcl:"min,optional"`
	Max  *int   `hcl:"max,optional"`
}

func parsePosArgs(blocks hcl.Blocks) (*config.PosArgsDefinition, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var found *hcl.Block

	for _, block := range blocks.OfType("posargs") {
		if found != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"posargs\" block",
				Detail:   "Only one \"posargs\" block is allowed per command.",
				Subject:  &block.DefRange,
			})
			continue
		}
		found = block
	}
	if found == nil {
		return nil, diags
	}

	var body posArgsBody
	diags = append(diags, gohcl.DecodeBody(found.Body, nil, &body)...)
	if diags.HasErrors() {
		return nil, diags
	}

	def := &config.PosArgsDefinition{Name: body.Name, Min: body.Min, Max: -1}
	if body.Max != nil {
		def.Max = *body.Max
	}
	return def, nil
}
