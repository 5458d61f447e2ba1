package hclmanifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/weft/internal/config"
)

// flagBodySchema is the HCL schema for the body of a `flag` block.
var flagBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		// `type` is required, but we check for its existence manually to
		// provide a better error message.
		{Name: "type"},
		{Name: "description"},
		{Name: "default"},
	},
}

// parseFlags decodes all `flag` blocks from a command or middleware body.
func parseFlags(blocks hcl.Blocks) ([]*config.FlagDefinition, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var flags []*config.FlagDefinition
	seen := make(map[string]struct{})

	for _, block := range blocks.OfType("flag") {
		// The schema guarantees one label.
		flagName := block.Labels[0]

		if _, exists := seen[flagName]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate flag definition",
				Detail:   fmt.Sprintf("A flag named '%s' has already been defined in this block.", flagName),
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[flagName] = struct{}{}

		bodyContent, contentDiags := block.Body.Content(flagBodySchema)
		diags = append(diags, contentDiags...)
		if contentDiags.HasErrors() {
			continue
		}

		typeAttr, exists := bodyContent.Attributes["type"]
		if !exists {
			missingItemRange := block.Body.MissingItemRange()
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Missing 'type' attribute",
				Detail:   "The 'type' attribute is required for all flag blocks.",
				Subject:  &missingItemRange,
			})
			continue
		}

		ctyType, typeDiags := typeExprToCtyType(typeAttr.Expr)
		diags = append(diags, typeDiags...)
		if typeDiags.HasErrors() {
			continue
		}

		var description string
		if descAttr, exists := bodyContent.Attributes["description"]; exists {
			evalDiags := gohcl.DecodeExpression(descAttr.Expr, nil, &description)
			diags = append(diags, evalDiags...)
		}

		var defaultValue *cty.Value
		if defaultAttr, exists := bodyContent.Attributes["default"]; exists {
			// A nil eval context: defaults must be literal values.
			val, valDiags := defaultAttr.Expr.Value(nil)
			diags = append(diags, valDiags...)
			if valDiags.HasErrors() {
				continue
			}

			converted, err := convert.Convert(val, ctyType)
			if err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid default value type",
					Detail:   fmt.Sprintf("The default value for '%s' is not compatible with its type, '%s'.", flagName, ctyType.FriendlyName()),
					Subject:  defaultAttr.Expr.Range().Ptr(),
				})
				continue
			}
			defaultValue = &converted
		}

		flags = append(flags, &config.FlagDefinition{
			Name:        flagName,
			Description: description,
			Type:        ctyType,
			Default:     defaultValue,
		})
	}

	return flags, diags
}
