package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yourorg/tassdoc/internal/config"
)

// Fetcher clones the vendor's documentation repositories and applies local
// patches that correct known dialect violations upstream.
type Fetcher struct {
	Config config.FetchConfig
	Logger *slog.Logger
}

// Fetch recreates the target directory, clones every configured repository
// and applies its patches in order. The first failure aborts the run.
func (f *Fetcher) Fetch(ctx context.Context) error {
	if err := os.RemoveAll(f.Config.Dir); err != nil {
		return fmt.Errorf("clear repos dir: %w", err)
	}
	if err := os.MkdirAll(f.Config.Dir, 0o755); err != nil {
		return fmt.Errorf("create repos dir: %w", err)
	}
	for _, repo := range f.Config.Repos {
		if err := f.cloneRepo(ctx, repo); err != nil {
			return err
		}
		if err := f.applyPatches(ctx, repo); err != nil {
			return err
		}
	}
	return nil
}

func (f *Fetcher) cloneRepo(ctx context.Context, repo string) error {
	url := repoURL(f.Config.BaseURL, repo)
	if f.Logger != nil {
		f.Logger.Info("cloning repository", "repo", repo, "url", url)
	}
	if out, err := runGit(ctx, f.Config.Dir, "clone", url); err != nil {
		return fmt.Errorf("clone %s: %w: %s", repo, err, out)
	}
	return nil
}

func (f *Fetcher) applyPatches(ctx context.Context, repo string) error {
	patches, err := patchFiles(f.Config.PatchesDir, repo)
	if err != nil {
		return err
	}
	repoDir := filepath.Join(f.Config.Dir, repo)
	for _, patch := range patches {
		abs, err := filepath.Abs(patch)
		if err != nil {
			return err
		}
		if f.Logger != nil {
			f.Logger.Info("applying patch", "repo", repo, "patch", filepath.Base(patch))
		}
		if out, err := runGit(ctx, repoDir, "apply", abs); err != nil {
			return fmt.Errorf("apply %s to %s: %w: %s", filepath.Base(patch), repo, err, out)
		}
	}
	return nil
}

// patchFiles lists a repo's .patch files in lexical order.
func patchFiles(patchesDir, repo string) ([]string, error) {
	patches, err := filepath.Glob(filepath.Join(patchesDir, repo, "*.patch"))
	if err != nil {
		return nil, err
	}
	sort.Strings(patches)
	return patches, nil
}

func repoURL(base, repo string) string {
	return strings.TrimRight(base, "/") + "/" + repo
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
