package index

import (
	"database/sql"
	"fmt"
)

// scanner abstracts *sql.Row and *sql.Rows so one scan helper serves both.
type scanner interface {
	Scan(dest ...any) error
}

const fileCols = "id, path, language, hash, line_count, last_indexed"

func scanFile(sc scanner) (*File, error) {
	var f File
	if err := sc.Scan(&f.ID, &f.Path, &f.Language, &f.Hash, &f.LineCount, &f.LastIndexed); err != nil {
		return nil, err
	}
	return &f, nil
}

const symbolCols = "id, file_id, name, kind, depth, start_line, start_col, end_line, start_byte, end_byte"

func scanSymbol(sc scanner) (*Symbol, error) {
	var sym Symbol
	if err := sc.Scan(
		&sym.ID, &sym.FileID, &sym.Name, &sym.Kind, &sym.Depth,
		&sym.StartLine, &sym.StartCol, &sym.EndLine, &sym.StartByte, &sym.EndByte,
	); err != nil {
		return nil, err
	}
	return &sym, nil
}

// InsertFile inserts a file row and returns its ID. The caller is
// expected to have removed any previous row for the same path first.
func (s *Store) InsertFile(f *File) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO files (path, language, hash, line_count, last_indexed) VALUES (?, ?, ?, ?, ?)",
		f.Path, f.Language, f.Hash, f.LineCount, f.LastIndexed,
	)
	if err != nil {
		return 0, fmt.Errorf("insert file %s: %w", f.Path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert file %s: last id: %w", f.Path, err)
	}
	f.ID = id
	return id, nil
}

// FileByPath returns the indexed file at path, or (nil, nil) if the
// path has never been indexed.
func (s *Store) FileByPath(path string) (*File, error) {
	row := s.db.QueryRow("SELECT "+fileCols+" FROM files WHERE path = ?", path)
	f, err := scanFile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path %s: %w", path, err)
	}
	return f, nil
}

// Files returns every indexed file ordered by path.
func (s *Store) Files() ([]*File, error) {
	return s.queryFiles("SELECT " + fileCols + " FROM files ORDER BY path")
}

// FilesByLanguage returns indexed files for one language, ordered by path.
func (s *Store) FilesByLanguage(language string) ([]*File, error) {
	return s.queryFiles("SELECT "+fileCols+" FROM files WHERE language = ? ORDER BY path", language)
}

func (s *Store) queryFiles(query string, args ...any) ([]*File, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	var files []*File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// ReplaceSymbols deletes every symbol for fileID and inserts the given
// set in one transaction, so readers never observe a half-indexed file.
func (s *Store) ReplaceSymbols(fileID int64, syms []*Symbol) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("replace symbols: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM symbols WHERE file_id = ?", fileID); err != nil {
		return fmt.Errorf("replace symbols: clear: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO symbols (file_id, name, kind, depth, start_line, start_col, end_line, start_byte, end_byte)" +
			" VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("replace symbols: prepare: %w", err)
	}
	defer stmt.Close()

	for _, sym := range syms {
		res, err := stmt.Exec(
			fileID, sym.Name, sym.Kind, sym.Depth,
			sym.StartLine, sym.StartCol, sym.EndLine, sym.StartByte, sym.EndByte,
		)
		if err != nil {
			return fmt.Errorf("replace symbols: insert %q: %w", sym.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("replace symbols: last id for %q: %w", sym.Name, err)
		}
		sym.ID = id
		sym.FileID = fileID
	}
	return tx.Commit()
}

// SymbolsByFile returns the symbols of one file in declaration order.
func (s *Store) SymbolsByFile(fileID int64) ([]*Symbol, error) {
	rows, err := s.db.Query(
		"SELECT "+symbolCols+" FROM symbols WHERE file_id = ? ORDER BY start_byte", fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("symbols by file %d: %w", fileID, err)
	}
	defer rows.Close()

	var syms []*Symbol
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		syms = append(syms, sym)
	}
	return syms, rows.Err()
}

const locationCols = "f.path, s.name, s.kind, s.start_line, s.start_col, s.end_line"

func scanLocation(sc scanner) (*Location, error) {
	var loc Location
	if err := sc.Scan(&loc.Path, &loc.Name, &loc.Kind, &loc.StartLine, &loc.StartCol, &loc.EndLine); err != nil {
		return nil, err
	}
	return &loc, nil
}

// LookupSymbol returns every indexed declaration with exactly the given
// name, across all files, ordered by path then position.
func (s *Store) LookupSymbol(name string) ([]*Location, error) {
	return s.queryLocations(
		"SELECT "+locationCols+" FROM symbols s JOIN files f ON f.id = s.file_id"+
			" WHERE s.name = ? ORDER BY f.path, s.start_line", name)
}

// SearchSymbols returns declarations whose name starts with prefix.
// Matching is case-sensitive.
func (s *Store) SearchSymbols(prefix string) ([]*Location, error) {
	return s.queryLocations(
		"SELECT "+locationCols+" FROM symbols s JOIN files f ON f.id = s.file_id"+
			" WHERE s.name GLOB ? ORDER BY f.path, s.start_line", prefix+"*")
}

func (s *Store) queryLocations(query string, args ...any) ([]*Location, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	var locs []*Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locs = append(locs, loc)
	}
	return locs, rows.Err()
}

// Stats summarizes the index contents for status output.
type Stats struct {
	Files     int
	Symbols   int
	Languages map[string]int
}

// IndexStats counts files and symbols, with a per-language file breakdown.
func (s *Store) IndexStats() (*Stats, error) {
	st := &Stats{Languages: make(map[string]int)}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM files").Scan(&st.Files); err != nil {
		return nil, fmt.Errorf("index stats: files: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM symbols").Scan(&st.Symbols); err != nil {
		return nil, fmt.Errorf("index stats: symbols: %w", err)
	}

	rows, err := s.db.Query("SELECT language, COUNT(*) FROM files GROUP BY language")
	if err != nil {
		return nil, fmt.Errorf("index stats: languages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var lang string
		var n int
		if err := rows.Scan(&lang, &n); err != nil {
			return nil, fmt.Errorf("index stats: scan language: %w", err)
		}
		st.Languages[lang] = n
	}
	return st, rows.Err()
}

// DeleteMissing removes indexed files whose paths are not in the keep
// set, along with their symbols, in one transaction. Returns how many
// file rows were removed.
func (s *Store) DeleteMissing(keep map[string]bool) (int, error) {
	files, err := s.Files()
	if err != nil {
		return 0, err
	}
	var stale []int64
	for _, f := range files {
		if !keep[f.Path] {
			stale = append(stale, f.ID)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("delete missing: begin: %w", err)
	}
	defer tx.Rollback()

	in := placeholderList(len(stale))
	args := int64sToArgs(stale)
	if _, err := tx.Exec("DELETE FROM symbols WHERE file_id IN ("+in+")", args...); err != nil {
		return 0, fmt.Errorf("delete missing: symbols: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM files WHERE id IN ("+in+")", args...); err != nil {
		return 0, fmt.Errorf("delete missing: files: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("delete missing: commit: %w", err)
	}
	return len(stale), nil
}
