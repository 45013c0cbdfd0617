//go:build integration

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestCLIIntegrationSmoke(t *testing.T) {
	dir := t.TempDir()

	mustRun := func(args ...string) map[string]any {
		t.Helper()
		stdout, stderr, err := runCLI(t, args)
		if err != nil {
			t.Fatalf("command failed: takes %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
		}
		var env map[string]any
		if err := json.Unmarshal(stdout, &env); err != nil {
			t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
		}
		if _, ok := env["data"]; !ok {
			t.Fatalf("expected JSON envelope to contain data key; got: %v\nstdout:\n%s", env, string(stdout))
		}
		return env
	}
	idOf := func(env map[string]any) string {
		t.Helper()
		id, _ := env["data"].(map[string]any)["id"].(string)
		if id == "" {
			t.Fatalf("expected data.id; got: %#v", env["data"])
		}
		return id
	}

	// Folder + takes.
	folderID := idOf(mustRun("--dir", dir, "items", "create", "--name", "Season", "--type", "folder"))
	takeID := idOf(mustRun("--dir", dir, "items", "create", "--name", "Run 1", "--parent", folderID))
	looseID := idOf(mustRun("--dir", dir, "items", "create", "--name", "Scratch"))

	// Root listing puts folders before takes.
	root := mustRun("--dir", dir, "items", "list")
	xs, ok := root["data"].([]any)
	if !ok || len(xs) != 2 {
		t.Fatalf("expected 2 root items; got: %#v", root["data"])
	}
	if first, _ := xs[0].(map[string]any)["id"].(string); first != folderID {
		t.Fatalf("expected the folder listed first; got: %#v", xs)
	}

	// Invalid parent kind is rejected.
	if _, stderr, err := runCLI(t, []string{"--dir", dir, "items", "create", "--name", "X", "--parent", takeID}); err == nil {
		t.Fatalf("expected create under a take to fail; stderr:\n%s", string(stderr))
	}

	mustRun("--dir", dir, "items", "rename", takeID, "--name", "Run one")
	shown := mustRun("--dir", dir, "items", "show", takeID)
	if name, _ := shown["data"].(map[string]any)["name"].(string); name != "Run one" {
		t.Fatalf("rename not persisted; got: %#v", shown["data"])
	}

	// Recording round trip.
	mustRun("--dir", dir, "take", "start", takeID)
	entry := mustRun("--dir", dir, "take", "add", takeID, "plus", "--note", "solid")
	if note, _ := entry["data"].(map[string]any)["note"].(string); note != "solid" {
		t.Fatalf("expected note on new entry; got: %#v", entry["data"])
	}
	mustRun("--dir", dir, "take", "section", takeID)
	mustRun("--dir", dir, "take", "add", takeID, "minus")
	mustRun("--dir", dir, "take", "finish", takeID)

	status := mustRun("--dir", dir, "take", "status", takeID)
	sd, _ := status["data"].(map[string]any)
	if st, _ := sd["status"].(string); st != "paused" {
		t.Fatalf("expected finished take to be paused; got: %#v", sd)
	}
	if n, _ := sd["entries"].(float64); n != 2 {
		t.Fatalf("expected 2 entries; got: %#v", sd)
	}

	// Starting again from paused must fail; resume must not.
	if _, _, err := runCLI(t, []string{"--dir", dir, "take", "start", takeID}); err == nil {
		t.Fatalf("expected start on paused take to fail")
	}
	mustRun("--dir", dir, "take", "resume", takeID)
	mustRun("--dir", dir, "take", "pause", takeID)

	// Exports.
	outDir := t.TempDir()
	pdfPath := filepath.Join(outDir, "run.pdf")
	mustRun("--dir", dir, "export", "report", takeID, "-o", pdfPath)
	if b, err := os.ReadFile(pdfPath); err != nil || !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("expected PDF at %s (err=%v)", pdfPath, err)
	}
	zipPath := filepath.Join(outDir, "season.zip")
	mustRun("--dir", dir, "export", "archive", folderID, "-o", zipPath)
	backupPath := filepath.Join(outDir, "backup.json")
	mustRun("--dir", dir, "export", "backup", "-o", backupPath)
	var backup []map[string]any
	if b, err := os.ReadFile(backupPath); err != nil || json.Unmarshal(b, &backup) != nil {
		t.Fatalf("expected JSON backup at %s (err=%v)", backupPath, err)
	}
	if len(backup) != 3 {
		t.Fatalf("expected 3 items in backup; got %d", len(backup))
	}

	// Cascade delete.
	mustRun("--dir", dir, "items", "delete", folderID)
	after := mustRun("--dir", dir, "items", "list", "--all")
	if xs, ok := after["data"].([]any); !ok || len(xs) != 1 {
		t.Fatalf("expected only the loose take to survive; got: %#v", after["data"])
	}
}

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}
