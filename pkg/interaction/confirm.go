// pkg/interaction/confirm.go

package interaction

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// PromptConfirmer asks a yes/no question on Out and reads the answer from In.
// Anything other than an explicit yes counts as no.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer
}

// Confirm prints prompt with a "[y/N]" suffix. EOF and context cancellation
// are returned as errors so the caller can tell them apart from a plain "no".
func (c *PromptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	label := fmt.Sprintf("%s [%s]", prompt, DefaultNoPrompt)
	input, err := ReadLine(ctx, bufio.NewReader(c.In), c.Out, label)
	if err != nil {
		return false, err
	}
	answer, ok := NormalizeYesNoInput(input)
	if !ok {
		otelzap.Ctx(ctx).Info("ℹ️ Unrecognised answer treated as no", zap.String("input", input))
		return false, nil
	}
	return answer, nil
}

// AssumeYes is the confirmer used for --yes.
type AssumeYes struct{}

func (AssumeYes) Confirm(ctx context.Context, prompt string) (bool, error) {
	otelzap.Ctx(ctx).Info("Confirmation skipped", zap.String("prompt", prompt))
	return true, nil
}

// IsInteractive reports whether stdin is attached to a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
