package assembler

import (
	"encoding/json"
	"fmt"

	"github.com/ghulammurtaza27/debugmaster/internal/models"
)

type packageManifest struct {
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

// parsePackageDependencies decodes the declared dependency maps from a
// package.json body. Missing sections come back as empty, non-nil maps.
func parsePackageDependencies(body string) (models.PackageDependencies, error) {
	deps := models.PackageDependencies{
		Dependencies:     map[string]string{},
		DevDependencies:  map[string]string{},
		PeerDependencies: map[string]string{},
	}

	var manifest packageManifest
	if err := json.Unmarshal([]byte(body), &manifest); err != nil {
		return deps, fmt.Errorf("parse package manifest: %w", err)
	}

	if manifest.Dependencies != nil {
		deps.Dependencies = manifest.Dependencies
	}
	if manifest.DevDependencies != nil {
		deps.DevDependencies = manifest.DevDependencies
	}
	if manifest.PeerDependencies != nil {
		deps.PeerDependencies = manifest.PeerDependencies
	}
	return deps, nil
}
