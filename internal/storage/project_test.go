package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tgmenued/internal/domain"
	"tgmenued/internal/graph"
)

func sampleProject() domain.Project {
	p := domain.NewProject("Sample", "Меню бота")
	s := graph.NewStore(graph.Config{EnableDocuments: true})
	root := s.AddMenuItem(graph.Point{X: 10, Y: 20}, "Главное меню")
	child := s.AddMenuItem(graph.Point{X: 310, Y: 140}, "Раздел")
	s.Connect(root, graph.PortSubMenu, child, graph.PortParentMenu)
	p.Graph = s.Snapshot()
	return p
}

func TestInitSaveOpenRoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	ph, err := InitProject(root, sampleProject())
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	for _, d := range standardSubDirs {
		if st, err := os.Stat(filepath.Join(root, d)); err != nil || !st.IsDir() {
			t.Fatalf("missing scaffolded dir %s: %v", d, err)
		}
	}

	ph.Project.Title = "Новое меню"
	if err := Save(ph); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got.Project.Title != "Новое меню" {
		t.Fatalf("title = %q", got.Project.Title)
	}
	if len(got.Project.Graph.Nodes) != 2 || len(got.Project.Graph.Connections) != 1 {
		t.Fatalf("graph not round-tripped: %+v", got.Project.Graph)
	}
	if got.Project.Graph.Nodes[0].Position.X != 10 {
		t.Fatalf("node position lost: %+v", got.Project.Graph.Nodes[0].Position)
	}
}

func TestSaveCreatesBackups(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	ph, err := InitProject(root, sampleProject())
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	if err := Save(ph); err != nil {
		t.Fatalf("Save: %v", err)
	}
	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	if len(ents) == 0 {
		t.Fatalf("no backup written for existing manifest")
	}
}

func TestOpenFallsBackToBackup(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	ph, err := InitProject(root, sampleProject())
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	// Second save produces a backup of the valid manifest.
	if err := Save(ph); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Corrupt the live manifest.
	if err := os.WriteFile(ph.ManifestPath, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("corrupt manifest: %v", err)
	}
	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open with backup: %v", err)
	}
	if got.Project.Metadata.Name != "Sample" {
		t.Fatalf("backup did not restore project: %+v", got.Project.Metadata)
	}
}

func TestOpenMissingProject(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "empty"))
	if err == nil {
		t.Fatalf("Open of empty dir succeeded")
	}
	if !errors.Is(err, ErrNotProject) {
		t.Fatalf("err = %v, want ErrNotProject", err)
	}
}

func TestSaveAs(t *testing.T) {
	dir := t.TempDir()
	ph, err := InitProject(filepath.Join(dir, "a"), sampleProject())
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	newRoot := filepath.Join(dir, "b")
	if err := SaveAs(ph, newRoot); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if ph.Root != newRoot {
		t.Fatalf("handle root not updated: %q", ph.Root)
	}
	if _, err := Open(newRoot); err != nil {
		t.Fatalf("Open new root: %v", err)
	}
}
