package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/travelrag/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
	"github.com/custodia-labs/travelrag/internal/logger"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

const (
	currentFile = "CURRENT"
	genPrefix   = "gen-"
	dbFile      = "index.db"

	// maxReaderAttempts bounds reopen retries when generations change mid-search.
	maxReaderAttempts = 3
)

// errGenerationGone reports that CURRENT names a generation that no longer exists.
var errGenerationGone = errors.New("generation is missing")

// VectorStore is a generation-swapped SQLite vector index.
type VectorStore struct {
	dir string

	// buildMu serialises rebuilds within the process.
	buildMu sync.Mutex

	// mu guards the cached read-only connection.
	mu     sync.RWMutex
	reader *sql.DB
	gen    string
}

// NewVectorStore creates a vector store rooted at indexDir.
// If indexDir is empty, defaults to ~/.travelrag/data/vectorstore.
// No files are touched until the first rebuild or search.
func NewVectorStore(indexDir string) (*VectorStore, error) {
	if indexDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		indexDir = filepath.Join(home, ".travelrag", "data", "vectorstore")
	}
	return &VectorStore{dir: indexDir}, nil
}

// Dir returns the index directory.
func (s *VectorStore) Dir() string {
	return s.dir
}

// Exists reports whether a complete generation has been published.
func (s *VectorStore) Exists(_ context.Context) (bool, error) {
	gen, err := s.currentGeneration()
	if errors.Is(err, domain.ErrIndexNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(s.dbPath(gen)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat index: %w", err)
	}
	return true, nil
}

// Rebuild writes chunks into a new generation and publishes it.
// On failure the previous index stays live and the partial generation is removed.
func (s *VectorStore) Rebuild(ctx context.Context, chunks []domain.Chunk) error {
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			return fmt.Errorf("%w: chunk %s has no embedding", domain.ErrInvalidInput, c.ID)
		}
	}

	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	gen := genPrefix + uuid.NewString()
	if err := os.Mkdir(filepath.Join(s.dir, gen), 0o755); err != nil {
		return fmt.Errorf("creating generation: %w", err)
	}

	if err := writeGeneration(ctx, s.dbPath(gen), chunks); err != nil {
		_ = os.RemoveAll(filepath.Join(s.dir, gen))
		return fmt.Errorf("writing index: %w", err)
	}

	if err := s.publish(gen); err != nil {
		_ = os.RemoveAll(filepath.Join(s.dir, gen))
		return err
	}

	s.removeStale(gen)
	logger.Debug("published index generation %s with %d chunks", gen, len(chunks))
	return nil
}

// Search returns the k stored chunks most similar to query.
func (s *VectorStore) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	var hits []driven.VectorHit

	err := s.withReader(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT id, document_id, position, content, source, passenger, embedding
			FROM chunks
		`)
		if err != nil {
			return fmt.Errorf("querying chunks: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			chunk, err := scanChunk(rows)
			if err != nil {
				return err
			}
			hits = append(hits, driven.VectorHit{
				Chunk:      *chunk,
				Similarity: domain.CosineSimilarity(query, chunk.Embedding),
			})
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if k < len(hits) {
		hits = hits[:max(k, 0)]
	}
	return hits, nil
}

// Close closes the cached read connection.
func (s *VectorStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reader == nil {
		return nil
	}
	err := s.reader.Close()
	s.reader, s.gen = nil, ""
	return err
}

func (s *VectorStore) dbPath(gen string) string {
	return filepath.Join(s.dir, gen, dbFile)
}

// currentGeneration reads the CURRENT pointer.
func (s *VectorStore) currentGeneration() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, currentFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrIndexNotFound
		}
		return "", fmt.Errorf("reading index pointer: %w", err)
	}

	gen := strings.TrimSpace(string(data))
	if !strings.HasPrefix(gen, genPrefix) || filepath.Base(gen) != gen {
		return "", fmt.Errorf("corrupt index pointer %q", gen)
	}
	return gen, nil
}

// publish atomically points CURRENT at gen and drops the cached reader.
func (s *VectorStore) publish(gen string) error {
	tmp := filepath.Join(s.dir, currentFile+".tmp")
	if err := os.WriteFile(tmp, []byte(gen+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing index pointer: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, currentFile)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publishing index: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reader != nil {
		if err := s.reader.Close(); err != nil {
			logger.Warn("closing superseded index: %v", err)
		}
		s.reader, s.gen = nil, ""
	}
	return nil
}

// removeStale deletes every generation other than keep.
func (s *VectorStore) removeStale(keep string) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logger.Warn("listing index generations: %v", err)
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || !strings.HasPrefix(name, genPrefix) || name == keep {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.dir, name)); err != nil {
			logger.Warn("removing index generation %s: %v", name, err)
		}
	}
}

// withReader runs fn against a read-only connection to the live generation.
// The read lock is held for the duration of fn so a concurrent publish
// cannot close the connection underneath it.
func (s *VectorStore) withReader(fn func(db *sql.DB) error) error {
	lastErr := errors.New("index changed repeatedly during search")
	for attempt := 0; attempt < maxReaderAttempts; attempt++ {
		gen, err := s.currentGeneration()
		if err != nil {
			return err
		}

		s.mu.RLock()
		if s.reader != nil && s.gen == gen {
			defer s.mu.RUnlock()
			return fn(s.reader)
		}
		s.mu.RUnlock()

		if err := s.openReader(gen); err != nil {
			// The generation may have been superseded and removed since
			// CURRENT was read; look again.
			if errors.Is(err, errGenerationGone) {
				lastErr = err
				continue
			}
			return err
		}
	}
	return lastErr
}

func (s *VectorStore) openReader(gen string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reader != nil && s.gen == gen {
		return nil
	}

	path := s.dbPath(gen)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %w: %s", domain.ErrIndexNotFound, errGenerationGone, gen)
		}
		return fmt.Errorf("stat index: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+filepath.ToSlash(path)+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("opening index: %w", err)
	}

	if s.reader != nil {
		_ = s.reader.Close()
	}
	s.reader, s.gen = db, gen
	return nil
}

// writeGeneration creates a database at path holding chunks.
func writeGeneration(ctx context.Context, path string, chunks []domain.Chunk) (err error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing database: %w", cerr)
		}
	}()

	if err := migrate(ctx, db, migrations.FS); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, position, content, source, passenger, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx, c.ID, c.DocumentID, c.Position, c.Content,
			nullString(c.Source()), nullString(c.Passenger()), encodeEmbedding(c.Embedding)); err != nil {
			return fmt.Errorf("saving chunk %s: %w", c.ID, err)
		}
	}

	info := map[string]string{
		"built_at": time.Now().UTC().Format(time.RFC3339),
		"chunks":   strconv.Itoa(len(chunks)),
	}
	if len(chunks) > 0 {
		info["dimensions"] = strconv.Itoa(len(chunks[0].Embedding))
	}
	for key, value := range info {
		if _, err := tx.ExecContext(ctx, `INSERT INTO index_info (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("saving index info: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// migrate runs all pending migrations and records their versions.
func migrate(ctx context.Context, db *sql.DB, fsys fs.FS) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_chunks.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// scanChunk scans one chunks row.
func scanChunk(rows *sql.Rows) (*domain.Chunk, error) {
	var c domain.Chunk
	var source, passenger sql.NullString
	var blob []byte
	if err := rows.Scan(&c.ID, &c.DocumentID, &c.Position, &c.Content, &source, &passenger, &blob); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	embedding, err := decodeEmbedding(blob)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", c.ID, err)
	}
	c.Embedding = embedding

	c.Metadata = map[string]any{
		domain.MetadataSource:    nullableValue(source),
		domain.MetadataPassenger: nullableValue(passenger),
	}
	return &c, nil
}

// nullString converts an optional string to a SQL parameter.
func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableValue(ns sql.NullString) any {
	if !ns.Valid {
		return nil
	}
	return ns.String
}
