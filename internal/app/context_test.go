package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"leansim/internal/app"
	"leansim/internal/config"
	"leansim/internal/db"
	"leansim/internal/migrate"
	"leansim/internal/repo"
)

func newRepo(t *testing.T) repo.Repo {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repo.Repo{DB: conn}
}

func TestResolveProjectFallsBackToReference(t *testing.T) {
	r := newRepo(t)
	def, err := app.ResolveProject(context.Background(), "", "", r)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if def.Project.ID != "lean-construction" {
		t.Fatalf("expected reference project, got %s", def.Project.ID)
	}
}

func TestResolveProjectPrefersFile(t *testing.T) {
	r := newRepo(t)
	path := filepath.Join(t.TempDir(), "proj.yml")
	if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	def, err := app.ResolveProject(context.Background(), path, "ignored", r)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(def.Tasks) != 9 {
		t.Fatalf("expected file definition, got %d tasks", len(def.Tasks))
	}
}

func TestResolveProjectByStoredID(t *testing.T) {
	r := newRepo(t)
	if _, err := r.ImportProject(context.Background(), config.Default(), "tester"); err != nil {
		t.Fatalf("import: %v", err)
	}
	def, err := app.ResolveProject(context.Background(), "", "lean-construction", r)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if def.Project.ID != "lean-construction" {
		t.Fatalf("unexpected project %s", def.Project.ID)
	}

	if _, err := app.ResolveProject(context.Background(), "", "missing", r); err == nil {
		t.Fatalf("expected error for unknown project id")
	}
}

func TestResolveProjectUsesSingleStoredProject(t *testing.T) {
	r := newRepo(t)
	def := config.Default()
	def.Project.ID = "only-one"
	if _, err := r.ImportProject(context.Background(), def, "tester"); err != nil {
		t.Fatalf("import: %v", err)
	}
	got, err := app.ResolveProject(context.Background(), "", "", r)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Project.ID != "only-one" {
		t.Fatalf("expected stored project, got %s", got.Project.ID)
	}
}
