package hclmanifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// typeExprToCtyType converts an HCL expression representing a type into
// its cty.Type. Supported forms are the primitive keywords `string`,
// `number`, and `bool`, and the single-argument constructors
// `list(<primitive>)` and `map(<primitive>)`.
func typeExprToCtyType(expr hcl.Expression) (cty.Type, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	// Constructor form first: list(string), map(number), ...
	if call, callDiags := hcl.ExprCall(expr); !callDiags.HasErrors() && call != nil {
		return typeCallToCtyType(expr, call)
	}

	traversal, hclDiags := hcl.AbsTraversalForExpr(expr)
	if hclDiags.HasErrors() || len(traversal) != 1 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid type specification",
			Detail:   "The 'type' attribute must be a type keyword like 'string', 'number', or 'bool', or a constructor like 'list(string)'.",
			Subject:  expr.Range().Ptr(),
		})
		return cty.NilType, diags
	}

	switch typeName := traversal.RootName(); typeName {
	case "string":
		return cty.String, diags
	case "number":
		return cty.Number, diags
	case "bool":
		return cty.Bool, diags
	default:
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported type",
			Detail:   fmt.Sprintf("The keyword '%s' is not a valid flag type. Supported types are: string, number, bool, list(...), map(...).", typeName),
			Subject:  expr.Range().Ptr(),
		})
		return cty.NilType, diags
	}
}

func typeCallToCtyType(expr hcl.Expression, call *hcl.StaticCall) (cty.Type, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	if len(call.Arguments) != 1 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid type constructor",
			Detail:   fmt.Sprintf("The type constructor '%s' takes exactly one element type argument.", call.Name),
			Subject:  expr.Range().Ptr(),
		})
		return cty.NilType, diags
	}

	elemType, elemDiags := typeExprToCtyType(call.Arguments[0])
	diags = append(diags, elemDiags...)
	if elemDiags.HasErrors() {
		return cty.NilType, diags
	}

	switch call.Name {
	case "list":
		return cty.List(elemType), diags
	case "map":
		return cty.Map(elemType), diags
	default:
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported type constructor",
			Detail:   fmt.Sprintf("The constructor '%s' is not supported. Use 'list' or 'map'.", call.Name),
			Subject:  expr.Range().Ptr(),
		})
		return cty.NilType, diags
	}
}
