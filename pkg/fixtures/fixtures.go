// pkg/fixtures/fixtures.go

package fixtures

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iam"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Result is what LoadClients found. Warnings are human-readable notes the
// caller should surface (missing file, skipped entries).
type Result struct {
	Clients  []iam.ClientDescriptor
	Warnings []string
}

// LoadClients reads a JSON or YAML array of client descriptors from path.
// A missing file is not an error; it yields no clients and one warning.
// Entries without a client_id are skipped with a warning.
func LoadClients(ctx context.Context, path string) (*Result, error) {
	logger := otelzap.Ctx(ctx)
	res := &Result{}

	if path == "" {
		res.Warnings = append(res.Warnings, "no clients fixture configured")
		return res, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Clients fixture not found", zap.String("path", path))
			res.Warnings = append(res.Warnings, "clients fixture not found at "+path)
			return res, nil
		}
		return nil, cerr.Wrapf(err, "read clients fixture %s", path)
	}

	raw, err := decode(path, data)
	if err != nil {
		return nil, err
	}

	for i, entry := range raw {
		d := iam.ClientDescriptor(entry)
		if d.ClientID() == "" {
			msg := "skipping fixture entry without client_id"
			logger.Warn(msg, zap.Int("index", i), zap.String("path", path))
			res.Warnings = append(res.Warnings, msg)
			continue
		}
		res.Clients = append(res.Clients, d.Clean())
	}

	logger.Debug("Loaded clients fixture",
		zap.String("path", path),
		zap.Int("clients", len(res.Clients)),
		zap.Int("skipped", len(raw)-len(res.Clients)))
	return res, nil
}

func decode(path string, data []byte) ([]map[string]any, error) {
	var raw []map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, cerr.Wrapf(err, "parse YAML fixture %s", path)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, cerr.Wrapf(err, "parse JSON fixture %s", path)
		}
	}
	return raw, nil
}
