package hclmanifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return dir
}

func TestLoad_FullManifest(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	manifestHCL := `
		middleware "timing" {
		  description = "Measures command duration."
		  handler     = "TimingMiddleware"
		  provides    = ["start_time"]

		  flag "print-time" {
		    type        = bool
		    default     = false
		    description = "Print elapsed time when the command completes."
		  }
		}

		command "serve" {
		  description = "Start the server."
		  handler     = "OnServe"
		  middleware  = ["timing"]

		  flag "port" {
		    type    = number
		    default = 8080
		  }

		  posargs {
		    name = "config-path"
		    max  = 1
		  }

		  command "status" {
		    handler = "OnServeStatus"
		  }
		}
	`
	dir := writeManifest(t, "manifest.hcl", manifestHCL)

	// --- Act ---
	model, err := NewLoader().Load(context.Background(), dir)

	// --- Assert ---
	require.NoError(t, err)

	mw := model.Middlewares["timing"]
	require.NotNil(t, mw)
	assert.Equal(t, "TimingMiddleware", mw.Handler)
	assert.Equal(t, []string{"start_time"}, mw.Provides)
	require.Len(t, mw.Flags, 1)
	assert.Equal(t, "print-time", mw.Flags[0].Name)
	assert.Equal(t, "print_time", mw.Flags[0].Injects())
	assert.Equal(t, cty.Bool, mw.Flags[0].Type)
	require.NotNil(t, mw.Flags[0].Default)
	assert.Equal(t, cty.False, *mw.Flags[0].Default)

	cmd := model.Commands["serve"]
	require.NotNil(t, cmd)
	assert.Equal(t, "OnServe", cmd.Handler)
	assert.Equal(t, []string{"timing"}, cmd.Middlewares)
	require.Len(t, cmd.Flags, 1)
	assert.Equal(t, cty.Number, cmd.Flags[0].Type)

	require.NotNil(t, cmd.PosArgs)
	assert.Equal(t, 0, cmd.PosArgs.Min)
	assert.Equal(t, 1, cmd.PosArgs.Max)
	assert.Equal(t, "config-path", cmd.PosArgs.Name)

	sub := cmd.Subcommands["status"]
	require.NotNil(t, sub)
	assert.Equal(t, "OnServeStatus", sub.Handler)
}

func TestLoad_ListFlagTypes(t *testing.T) {
	t.Parallel()

	manifestHCL := `
		command "tag" {
		  handler = "OnTag"
		  flag "label" {
		    type    = list(string)
		    default = []
		  }
		}
	`
	dir := writeManifest(t, "manifest.hcl", manifestHCL)

	model, err := NewLoader().Load(context.Background(), dir)

	require.NoError(t, err)
	flag := model.Commands["tag"].Flags[0]
	assert.Equal(t, cty.List(cty.String), flag.Type)
	require.NotNil(t, flag.Default)
	assert.Equal(t, cty.ListValEmpty(cty.String), *flag.Default)
}

func TestLoad_DefaultTypeMismatchRejected(t *testing.T) {
	t.Parallel()

	manifestHCL := `
		command "serve" {
		  handler = "OnServe"
		  flag "port" {
		    type    = number
		    default = true
		  }
		}
	`
	dir := writeManifest(t, "manifest.hcl", manifestHCL)

	_, err := NewLoader().Load(context.Background(), dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "default value")
}

func TestLoad_MissingFlagTypeRejected(t *testing.T) {
	t.Parallel()

	manifestHCL := `
		command "serve" {
		  handler = "OnServe"
		  flag "port" {
		    default = 8080
		  }
		}
	`
	dir := writeManifest(t, "manifest.hcl", manifestHCL)

	_, err := NewLoader().Load(context.Background(), dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "type")
}

func TestLoad_DuplicateCommandAcrossFilesRejected(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cmdHCL := `command "serve" { handler = "OnServe" }`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(cmdHCL), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), []byte(cmdHCL), 0o600))

	_, err := NewLoader().Load(context.Background(), dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate command")
}
