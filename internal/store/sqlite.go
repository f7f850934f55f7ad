package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/yourorg/tassdoc/pkg/types"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db}
	if err := s.Init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Init() error {
	if _, err := s.db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return err
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scans (
			id TEXT PRIMARY KEY,
			root TEXT NOT NULL,
			status TEXT NOT NULL,
			request_count INTEGER NOT NULL DEFAULT 0,
			failure_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id TEXT NOT NULL,
			path TEXT NOT NULL,
			scope TEXT NOT NULL,
			action TEXT NOT NULL,
			resource TEXT NOT NULL,
			doc TEXT NOT NULL,
			version INTEGER NOT NULL,
			permissions TEXT,
			params TEXT NOT NULL,
			sample_params TEXT NOT NULL,
			success_response TEXT,
			error_response TEXT,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_requests_scan ON requests(scan_id);`,
		`CREATE TABLE IF NOT EXISTS failures (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id TEXT NOT NULL,
			scope TEXT NOT NULL,
			path TEXT NOT NULL,
			code TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_failures_scan ON failures(scan_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) CreateScan(root string) (*types.Scan, error) {
	now := time.Now().UTC()
	id, err := s.nextScanID(now)
	if err != nil {
		return nil, err
	}
	scan := &types.Scan{ID: id, Root: root, Status: types.ScanStatusScanning, CreatedAt: now, UpdatedAt: now}
	_, err = s.db.Exec(`INSERT INTO scans(id,root,status,request_count,failure_count,created_at,updated_at) VALUES(?,?,?,?,?,?,?)`,
		scan.ID, scan.Root, scan.Status, scan.RequestCount, scan.FailureCount, scan.CreatedAt, scan.UpdatedAt)
	return scan, err
}

func (s *SQLiteStore) nextScanID(now time.Time) (string, error) {
	prefix := fmt.Sprintf("scan_%s_", now.Format("20060102"))
	rows, err := s.db.Query(`SELECT id FROM scans WHERE id LIKE ?`, prefix+"%")
	if err != nil {
		return "", err
	}
	defer rows.Close()
	maxN := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		var n int
		_, _ = fmt.Sscanf(id, prefix+"%03d", &n)
		if n > maxN {
			maxN = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, maxN+1), nil
}

func (s *SQLiteStore) GetScan(id string) (*types.Scan, error) {
	row := s.db.QueryRow(`SELECT id,root,status,request_count,failure_count,created_at,updated_at FROM scans WHERE id=?`, id)
	var out types.Scan
	if err := row.Scan(&out.ID, &out.Root, &out.Status, &out.RequestCount, &out.FailureCount, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SQLiteStore) UpdateScanStatus(id, status string) error {
	_, err := s.db.Exec(`UPDATE scans SET status=?, updated_at=? WHERE id=?`, status, time.Now().UTC(), id)
	return err
}

func (s *SQLiteStore) ListScans() ([]types.Scan, error) {
	rows, err := s.db.Query(`SELECT id,root,status,request_count,failure_count,created_at,updated_at FROM scans ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []types.Scan
	for rows.Next() {
		var s1 types.Scan
		if err := rows.Scan(&s1.ID, &s1.Root, &s1.Status, &s1.RequestCount, &s1.FailureCount, &s1.CreatedAt, &s1.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s1)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteScan(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM requests WHERE scan_id=?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM failures WHERE scan_id=?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM scans WHERE id=?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) SaveRequests(scanID string, entries []types.CatalogEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.Prepare(`INSERT INTO requests(scan_id,path,scope,action,resource,doc,version,permissions,params,sample_params,success_response,error_response,created_at) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	now := time.Now().UTC()
	for _, e := range entries {
		req := e.Request
		params, _ := json.Marshal(req.Params)
		var perm sql.NullString
		if req.Permissions != nil {
			perm = sql.NullString{String: *req.Permissions, Valid: true}
		}
		if _, err := stmt.Exec(scanID, e.Path, req.Scope, req.Action, req.Resource, req.Doc, req.Version,
			perm, string(params), req.SampleParams, encodeResponse(req.SuccessResponse), encodeResponse(req.ErrorResponse), now); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`UPDATE scans SET request_count=request_count+?, updated_at=? WHERE id=?`, len(entries), now, scanID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetRequests(scanID, scope string) ([]types.CatalogEntry, error) {
	query := `SELECT id,scan_id,path,scope,action,resource,doc,version,permissions,params,sample_params,success_response,error_response,created_at FROM requests WHERE scan_id=?`
	args := []any{scanID}
	if scope != "" {
		query += ` AND scope=?`
		args = append(args, scope)
	}
	query += ` ORDER BY id ASC`
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []types.CatalogEntry
	for rows.Next() {
		e, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetRequest(id int64) (*types.CatalogEntry, error) {
	row := s.db.QueryRow(`SELECT id,scan_id,path,scope,action,resource,doc,version,permissions,params,sample_params,success_response,error_response,created_at FROM requests WHERE id=?`, id)
	e, err := scanRequest(row)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *SQLiteStore) SaveFailures(scanID string, failures []types.Failure) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.Prepare(`INSERT INTO failures(scan_id,scope,path,code,message,created_at) VALUES(?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	now := time.Now().UTC()
	for _, f := range failures {
		if _, err := stmt.Exec(scanID, f.Scope, f.Path, f.Code, f.Message, now); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`UPDATE scans SET failure_count=failure_count+?, updated_at=? WHERE id=?`, len(failures), now, scanID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetFailures(scanID string) ([]types.Failure, error) {
	rows, err := s.db.Query(`SELECT id,scan_id,scope,path,code,message,created_at FROM failures WHERE scan_id=? ORDER BY id ASC`, scanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []types.Failure
	for rows.Next() {
		var f types.Failure
		if err := rows.Scan(&f.ID, &f.ScanID, &f.Scope, &f.Path, &f.Code, &f.Message, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return errors.New("store is nil")
	}
	return s.db.Close()
}

// scanRequest reads one requests row; it works for both sql.Row and sql.Rows.
func scanRequest(row interface{ Scan(dest ...any) error }) (types.CatalogEntry, error) {
	var e types.CatalogEntry
	var perm, success, failure sql.NullString
	var params string
	if err := row.Scan(&e.ID, &e.ScanID, &e.Path, &e.Request.Scope, &e.Request.Action, &e.Request.Resource,
		&e.Request.Doc, &e.Request.Version, &perm, &params, &e.Request.SampleParams, &success, &failure, &e.CreatedAt); err != nil {
		return e, err
	}
	if perm.Valid {
		v := perm.String
		e.Request.Permissions = &v
	}
	if params != "" {
		_ = json.Unmarshal([]byte(params), &e.Request.Params)
	}
	e.Request.SuccessResponse = decodeResponse(success)
	e.Request.ErrorResponse = decodeResponse(failure)
	return e, nil
}

func encodeResponse(r *types.Response) sql.NullString {
	if r == nil {
		return sql.NullString{}
	}
	b, _ := json.Marshal(r)
	return sql.NullString{String: string(b), Valid: true}
}

func decodeResponse(col sql.NullString) *types.Response {
	if !col.Valid {
		return nil
	}
	var r types.Response
	if err := json.Unmarshal([]byte(col.String), &r); err != nil {
		return nil
	}
	return &r
}
