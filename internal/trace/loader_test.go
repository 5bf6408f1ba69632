package trace

import (
	"os"
	"path/filepath"
	"testing"
)

func writeLog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadWrappedObject(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "anything.json", `{
		"dialogue_id": "d-042",
		"events": [
			{"agent": "tutor_ego", "action": "generate", "round": 1,
			 "suggestions": [{"message": "try fractions", "title": "hint"}]}
		]
	}`)

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.DialogueID != "d-042" {
		t.Errorf("DialogueID = %q", d.DialogueID)
	}
	if len(d.Events) != 1 || d.Events[0].FirstSuggestionMessage() != "try fractions" {
		t.Errorf("events = %+v", d.Events)
	}
}

func TestLoadBareEventArrayDerivesID(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "dialogue-d-007.json",
		`[{"agent": "tutor_ego", "action": "generate"}]`)

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.DialogueID != "d-007" {
		t.Errorf("DialogueID = %q, want d-007", d.DialogueID)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "bad.json", `{not json`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed log")
	}
}

func TestLoadDirSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "dialogue-a.json", `[{"agent": "tutor_ego", "action": "generate"}]`)
	writeLog(t, dir, "dialogue-b.json", `[{"agent": "learner_self_reflection", "action": "reflect"}]`)
	writeLog(t, dir, "broken.json", `{{{`)
	writeLog(t, dir, "notes.txt", `ignored`)

	dialogues, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(dialogues) != 2 {
		t.Fatalf("dialogues = %d, want 2", len(dialogues))
	}
	for _, id := range []string{"a", "b"} {
		if _, ok := dialogues[id]; !ok {
			t.Errorf("missing dialogue %q", id)
		}
	}
}

func TestLoadDirMissing(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}
