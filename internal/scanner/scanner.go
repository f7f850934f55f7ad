package scanner

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/yourorg/tassdoc/internal/config"
	"github.com/yourorg/tassdoc/internal/store"
	"github.com/yourorg/tassdoc/internal/tassmd"
	"github.com/yourorg/tassdoc/internal/walker"
	"github.com/yourorg/tassdoc/pkg/types"
)

// Run walks the documentation tree under cfg.Docs.Root, parses every document
// and records the outcome in the store. With failFast a parse error aborts the
// scan; otherwise failures are recorded and the walk continues. The returned
// scan carries the final status and counts.
func Run(cfg *config.Config, st store.Store, logger *slog.Logger, failFast bool) (*types.Scan, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if st == nil {
		return nil, errors.New("store is nil")
	}

	parser := tassmd.New(
		tassmd.WithStrictParamDoc(cfg.Dialect.StrictParamDoc),
		tassmd.WithRequireV3(cfg.Dialect.RequireV3),
		tassmd.WithStrictNulls(cfg.Dialect.StrictNulls),
	)

	scan, err := st.CreateScan(cfg.Docs.Root)
	if err != nil {
		return nil, err
	}

	var entries []types.CatalogEntry
	var failures []types.Failure
	err = walker.Walk(cfg.Docs.Root, cfg.Docs, func(d walker.Doc) error {
		if logger != nil {
			logger.Debug("parsing document", "path", d.Path, "scope", d.Scope)
		}
		req, err := parser.Parse(d.Text, d.Scope)
		if err != nil {
			if failFast {
				return fmt.Errorf("parse %s: %w", d.Path, err)
			}
			f := types.Failure{Scope: d.Scope, Path: relPath(cfg.Docs.Root, d.Path), Message: err.Error()}
			if perr, ok := tassmd.AsParseError(err); ok {
				f.Code = perr.Code
			}
			if logger != nil {
				logger.Warn("parse failed", "path", d.Path, "scope", d.Scope, "code", f.Code)
			}
			failures = append(failures, f)
			return nil
		}
		entries = append(entries, types.CatalogEntry{Path: relPath(cfg.Docs.Root, d.Path), Request: *req})
		return nil
	})
	if err != nil {
		_ = st.UpdateScanStatus(scan.ID, types.ScanStatusFailed)
		return nil, err
	}

	if err := st.SaveRequests(scan.ID, entries); err != nil {
		return nil, err
	}
	if err := st.SaveFailures(scan.ID, failures); err != nil {
		return nil, err
	}

	status := types.ScanStatusComplete
	switch {
	case len(entries) == 0 && len(failures) > 0:
		status = types.ScanStatusFailed
	case len(failures) > 0:
		status = types.ScanStatusPartial
	}
	if err := st.UpdateScanStatus(scan.ID, status); err != nil {
		return nil, err
	}
	return st.GetScan(scan.ID)
}

// relPath keeps stored paths relative to the scanned root.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
