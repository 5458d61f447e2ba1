package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/weft/internal/config"
	"github.com/vk/weft/internal/ctxlog"
)

// Validate performs a strict parity check between the manifest model and
// the registered Go code. Every mismatch across the whole model is
// collected before failing, so drift is reported in one pass.
func (r *Registry) Validate(ctx context.Context, model *config.Model) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	mwNames := make([]string, 0, len(model.Middlewares))
	for name := range model.Middlewares {
		mwNames = append(mwNames, name)
	}
	sort.Strings(mwNames)

	for _, name := range mwNames {
		def := model.Middlewares[name]
		spec, ok := r.middlewares[def.Handler]
		if !ok {
			errs = append(errs, fmt.Sprintf("middleware '%s': manifest references Go handler '%s', which is not registered", name, def.Handler))
			continue
		}

		if !equalStringSets(def.Provides, spec.Provides) {
			errs = append(errs, fmt.Sprintf("middleware '%s': manifest provides %v, but Go handler '%s' provides %v", name, def.Provides, def.Handler, spec.Provides))
		}

		for _, flag := range def.Flags {
			injects := flag.Injects()
			if r.reserved.Contains(injects) {
				errs = append(errs, fmt.Sprintf("middleware '%s': flag '%s' injects reserved name '%s'", name, flag.Name, injects))
			}
			for _, prov := range spec.Provides {
				if prov == injects {
					errs = append(errs, fmt.Sprintf("middleware '%s': flag '%s' injects '%s', which the middleware also provides", name, flag.Name, injects))
				}
			}
		}
	}

	cmdNames := make([]string, 0, len(model.Commands))
	for name := range model.Commands {
		cmdNames = append(cmdNames, name)
	}
	sort.Strings(cmdNames)

	for _, name := range cmdNames {
		r.validateCommand(model, model.Commands[name], name, &errs)
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry parity validation passed.",
		"commands", len(model.Commands), "middlewares", len(model.Middlewares))
	return nil
}

func (r *Registry) validateCommand(model *config.Model, def *config.CommandDefinition, path string, errs *[]string) {
	if def.Handler == "" && len(def.Subcommands) == 0 {
		*errs = append(*errs, fmt.Sprintf("command '%s': has neither a handler nor subcommands", path))
	}
	if def.Handler != "" {
		if _, ok := r.handlers[def.Handler]; !ok {
			*errs = append(*errs, fmt.Sprintf("command '%s': manifest references Go handler '%s', which is not registered", path, def.Handler))
		}
	}

	for _, mwName := range def.Middlewares {
		if _, ok := model.Middlewares[mwName]; !ok {
			*errs = append(*errs, fmt.Sprintf("command '%s': references middleware '%s', which no manifest defines", path, mwName))
		}
	}

	for _, flag := range def.Flags {
		if r.reserved.Contains(flag.Injects()) {
			*errs = append(*errs, fmt.Sprintf("command '%s': flag '%s' injects reserved name '%s'", path, flag.Name, flag.Injects()))
		}
	}

	subNames := make([]string, 0, len(def.Subcommands))
	for subName := range def.Subcommands {
		subNames = append(subNames, subName)
	}
	sort.Strings(subNames)
	for _, subName := range subNames {
		r.validateCommand(model, def.Subcommands[subName], path+" "+subName, errs)
	}
}

func equalStringSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
