package fetch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRepoURL(t *testing.T) {
	base := "https://github.com/TheAlphaSchoolSystemPTYLTD/"
	if got := repoURL(base, "student-details"); got != "https://github.com/TheAlphaSchoolSystemPTYLTD/student-details" {
		t.Fatalf("unexpected url %q", got)
	}
	if got := repoURL("https://example.com/org", "boarding"); got != "https://example.com/org/boarding" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestPatchFilesSortedAndScoped(t *testing.T) {
	dir := t.TempDir()
	repoDir := filepath.Join(dir, "student-details")
	if err := os.MkdirAll(repoDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"02-fix-title.patch", "01-fix-fence.patch", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(repoDir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	patches, err := patchFiles(dir, "student-details")
	if err != nil {
		t.Fatal(err)
	}
	if len(patches) != 2 {
		t.Fatalf("expected 2 patches, got %v", patches)
	}
	if filepath.Base(patches[0]) != "01-fix-fence.patch" || filepath.Base(patches[1]) != "02-fix-title.patch" {
		t.Fatalf("patches out of order: %v", patches)
	}

	if patches, _ := patchFiles(dir, "boarding"); len(patches) != 0 {
		t.Fatalf("expected no patches for unpatched repo, got %v", patches)
	}
}
