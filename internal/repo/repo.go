package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"leansim/internal/config"
	"leansim/internal/domain"
	"leansim/internal/events"
)

// Repo stores project definitions and the event log in the workspace
// database. Simulation results are never stored; runs are recomputed from
// definitions on demand.
type Repo struct {
	DB  *sql.DB
	Now func() time.Time
}

var ErrNotFound = errors.New("not found")

func (r Repo) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// ImportProject stores a validated project definition. A missing project id
// is derived deterministically from the name and import time.
func (r Repo) ImportProject(ctx context.Context, def *config.Project, actorID string) (domain.Project, error) {
	if def == nil {
		return domain.Project{}, fmt.Errorf("definition nil")
	}
	if err := def.Validate(); err != nil {
		return domain.Project{}, err
	}
	now := r.now().UTC().Format(time.RFC3339)
	id := def.Project.ID
	if id == "" {
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(def.Project.Name+"|"+now)).String()
		def.Project.ID = id
	}
	payload, err := def.ToYAML()
	if err != nil {
		return domain.Project{}, err
	}
	p := domain.Project{
		ID:          id,
		Name:        def.Project.Name,
		Description: def.Project.Description,
		TaskCount:   len(def.Tasks),
		CreatedAt:   now,
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Project{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO projects(id,name,description,definition_yaml,task_count,created_at) VALUES (?,?,?,?,?,?)`,
		p.ID, p.Name, nullable(p.Description), string(payload), p.TaskCount, p.CreatedAt); err != nil {
		return domain.Project{}, fmt.Errorf("insert project: %w", err)
	}
	w := events.Writer{DB: r.DB, Now: r.Now}
	if err := w.Append(ctx, tx, "project.imported", p.ID, "project", p.ID, actorID, events.EventPayload{"name": p.Name, "tasks": p.TaskCount}); err != nil {
		return domain.Project{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

func scanProject(row *sql.Row) (domain.Project, error) {
	var p domain.Project
	var desc sql.NullString
	err := row.Scan(&p.ID, &p.Name, &desc, &p.TaskCount, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	if desc.Valid {
		p.Description = desc.String
	}
	return p, err
}

func (r Repo) GetProject(ctx context.Context, id string) (domain.Project, error) {
	return scanProject(r.DB.QueryRowContext(ctx, `SELECT id,name,description,task_count,created_at FROM projects WHERE id=?`, id))
}

// GetProjectDefinition loads and re-validates the stored definition.
func (r Repo) GetProjectDefinition(ctx context.Context, id string) (*config.Project, error) {
	var payload string
	err := r.DB.QueryRowContext(ctx, `SELECT definition_yaml FROM projects WHERE id=?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return config.FromYAML([]byte(payload))
}

// SingleProject returns the only stored project, erroring when the choice is
// ambiguous.
func (r Repo) SingleProject(ctx context.Context) (domain.Project, error) {
	items, err := r.ListProjects(ctx)
	if err != nil {
		return domain.Project{}, err
	}
	if len(items) == 0 {
		return domain.Project{}, ErrNotFound
	}
	if len(items) > 1 {
		return domain.Project{}, fmt.Errorf("multiple projects exist; specify --project")
	}
	return items[0], nil
}

func (r Repo) ListProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,name,COALESCE(description,'') AS description,task_count,created_at FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.TaskCount, &p.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r Repo) DeleteProject(ctx context.Context, id, actorID string) error {
	p, err := r.GetProject(ctx, id)
	if err != nil {
		return err
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id=?`, id); err != nil {
		return err
	}
	w := events.Writer{DB: r.DB, Now: r.Now}
	if err := w.Append(ctx, tx, "project.deleted", p.ID, "project", p.ID, actorID, events.EventPayload{"name": p.Name}); err != nil {
		return err
	}
	return tx.Commit()
}

// EventFilters narrows ListEvents output.
type EventFilters struct {
	Type       string
	EntityKind string
	EntityID   string
}

func (r Repo) ListEvents(ctx context.Context, f EventFilters, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT id,ts,type,COALESCE(project_id,''),entity_kind,COALESCE(entity_id,''),actor_id,payload_json FROM events`
	var where []string
	var args []any
	if f.Type != "" {
		where = append(where, "type=?")
		args = append(args, f.Type)
	}
	if f.EntityKind != "" {
		where = append(where, "entity_kind=?")
		args = append(args, f.EntityKind)
	}
	if f.EntityID != "" {
		where = append(where, "entity_id=?")
		args = append(args, f.EntityID)
	}
	for i, w := range where {
		if i == 0 {
			q += " WHERE " + w
		} else {
			q += " AND " + w
		}
	}
	q += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.ProjectID, &e.EntityKind, &e.EntityID, &e.ActorID, &e.Payload); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
