// pkg/interaction/reader.go

package interaction

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

type lineResult struct {
	text string
	err  error
}

// ReadLine prompts with a label on out and returns a trimmed line read from reader.
// It returns ctx.Err() as soon as the context is cancelled, even while the
// read is still blocked.
func ReadLine(ctx context.Context, reader *bufio.Reader, out io.Writer, label string) (string, error) {
	logger := otelzap.Ctx(ctx)
	logger.Debug("📝 Prompting user for input", zap.String("label", label))

	_, _ = fmt.Fprint(out, label+" ")

	ch := make(chan lineResult, 1)
	go func() {
		text, err := reader.ReadString('\n')
		ch <- lineResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(out)
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil {
			// A final line without a newline still counts as an answer.
			if cerr.Is(res.err, io.EOF) && strings.TrimSpace(res.text) != "" {
				return strings.TrimSpace(res.text), nil
			}
			logger.Debug("Failed to read user input", zap.Error(res.err))
			return "", res.err
		}
		value := strings.TrimSpace(res.text)
		logger.Debug("📥 User input received", zap.String("value", value))
		return value, nil
	}
}
