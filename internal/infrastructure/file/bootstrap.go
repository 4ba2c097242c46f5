// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package file

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/model"
	errs "github.com/linuxfoundation/lfx-v2-member-service/pkg/errors"
)

// Bootstrap creates the collection file when it does not exist yet.
// The new file holds the members of seedPath (a YAML list) or an empty array
// when no seed is configured. An existing file is never modified.
func (s *Store) Bootstrap(ctx context.Context, seedPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		slog.DebugContext(ctx, "members file already exists", "path", s.path)
		return nil
	} else if !os.IsNotExist(err) {
		return errs.NewServiceUnavailable("failed to inspect members file", err)
	}

	members := model.Collection{}
	if seedPath != "" {
		seeded, err := LoadSeed(seedPath)
		if err != nil {
			return err
		}
		members = seeded
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errs.NewServiceUnavailable("failed to create members directory", err)
	}

	if err := s.save(ctx, members); err != nil {
		return err
	}

	slog.InfoContext(ctx, "members file created",
		"path", s.path,
		"seed", seedPath,
		"count", len(members),
	)
	return nil
}

// LoadSeed reads a YAML list of members. Keys follow the JSON field names and
// ids or codes may be written as numbers or strings.
func LoadSeed(path string) (model.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewValidation("failed to read members seed file", err)
	}

	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errs.NewValidation("members seed file is not a YAML list", err)
	}

	// Round-trip through JSON so seeds share the API's decoding rules
	asJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, errs.NewValidation("members seed file has unsupported values", err)
	}
	var decoded model.Collection
	if err := json.Unmarshal(asJSON, &decoded); err != nil {
		return nil, errs.NewValidation("members seed file has invalid members", err)
	}

	members := make(model.Collection, 0, len(decoded))
	for _, m := range decoded {
		if err := members.Insert(m); err != nil {
			return nil, err
		}
	}
	return members, nil
}
