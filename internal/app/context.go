package app

import (
	"context"
	"errors"
	"fmt"

	"leansim/internal/config"
	"leansim/internal/repo"
)

// ResolveProject picks the project definition for a simulation command.
//
// Precedence: an explicit definition file beats a stored project id, which
// beats the single stored project, which beats the embedded reference
// project. The fallback to the reference project only applies when the
// workspace store is empty, so simulations work out of the box.
func ResolveProject(ctx context.Context, filePath, projectID string, r repo.Repo) (*config.Project, error) {
	if filePath != "" {
		return config.FromFile(filePath)
	}
	if projectID != "" {
		def, err := r.GetProjectDefinition(ctx, projectID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, fmt.Errorf("project %s not found; import it with `leansim project import`", projectID)
			}
			return nil, err
		}
		return def, nil
	}
	p, err := r.SingleProject(ctx)
	if err == nil {
		return r.GetProjectDefinition(ctx, p.ID)
	}
	if errors.Is(err, repo.ErrNotFound) {
		return config.Default(), nil
	}
	return nil, err
}
