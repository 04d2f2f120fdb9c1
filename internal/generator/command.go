package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/slidearchitect/internal/tempfs"
	"github.com/slidearchitect/pkg/models"
)

// Command delegates generation to an external tool that works on files.
// Args may reference {template}, {instructions} and {output}; the tool must
// write the presentation to {output}.
type Command struct {
	Path string
	Args []string
	log  zerolog.Logger
}

// NewCommand creates a generator running path with args
func NewCommand(path string, args []string, log zerolog.Logger) *Command {
	return &Command{Path: path, Args: args, log: log.With().Str("generator", "command").Logger()}
}

// Generate runs the tool inside a scratch workspace that is always removed
func (c *Command) Generate(ctx context.Context, template []byte, instr *models.CloningInstructions) ([]byte, error) {
	if c.Path == "" {
		return nil, errors.New("generator command is not configured")
	}
	if instr == nil || len(instr.Slides) == 0 {
		return nil, errors.New("no cloning instructions")
	}
	payload, err := json.MarshalIndent(instr, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode instructions: %w", err)
	}

	var out []byte
	err = tempfs.With("slidearchitect", func(w *tempfs.Workspace) error {
		templatePath, err := w.WriteFile("template.pptx", template)
		if err != nil {
			return err
		}
		instrPath, err := w.WriteFile("instructions.json", payload)
		if err != nil {
			return err
		}
		outputPath, err := w.Path("output.pptx")
		if err != nil {
			return err
		}

		r := strings.NewReplacer("{template}", templatePath, "{instructions}", instrPath, "{output}", outputPath)
		args := make([]string, len(c.Args))
		for i, a := range c.Args {
			args[i] = r.Replace(a)
		}

		cmd := exec.CommandContext(ctx, c.Path, args...)
		cmd.Dir = w.Dir()
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		c.log.Debug().Str("command", c.Path).Strs("args", args).Msg("running generator command")
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s failed: %w: %s", c.Path, err, strings.TrimSpace(stderr.String()))
		}

		out, err = w.ReadFile("output.pptx")
		if err != nil {
			return fmt.Errorf("generator command produced no output: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
