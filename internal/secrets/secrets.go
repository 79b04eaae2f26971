// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// The filename is the key and the trimmed contents are the value.
package secrets

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/internal/logger"
	"github.com/pdiddy/profile-engine/pkg/types"
)

// Recognized key files.
const (
	// ORCIDToken is a bearer token for the ORCID API.
	ORCIDToken = "orcid-token"
	// ContactEmail identifies the caller to Crossref and the repository API.
	ContactEmail = "contact-email"
)

// DefaultDir is where the CLI looks for key files.
const DefaultDir = ".secrets"

// Load reads all files in dir. A missing directory yields an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, log *zap.SugaredLogger) (map[string]string, error) {
	log = logger.Or(log)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errors.Wrapf(err, "reading secrets directory %s", dir)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warnw("could not read secret", "key", name, logger.FieldError, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// Apply copies recognized secrets into cfg. Values already set in cfg win.
func Apply(cfg *types.EngineConfig, secrets map[string]string) {
	if cfg.Registry.Token == "" {
		cfg.Registry.Token = secrets[ORCIDToken]
	}
	if email := secrets[ContactEmail]; email != "" {
		if cfg.Citations.Mailto == "" {
			cfg.Citations.Mailto = email
		}
		if cfg.Repository.Email == "" {
			cfg.Repository.Email = email
		}
	}
}
