package pgvector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	pgv "github.com/pgvector/pgvector-go"

	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/adapter/vectorindex"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/entity"
)

// Index stores chunk embeddings in a pgvector column and ranks queries with
// the cosine distance operator, which is bounded in [0,2].
type Index struct {
	db *sqlx.DB
}

func New(db *sqlx.DB, dimensions int) (*Index, error) {
	schema := fmt.Sprintf(`
		CREATE EXTENSION IF NOT EXISTS vector;
		CREATE TABLE IF NOT EXISTS document_chunks (
			id          text PRIMARY KEY,
			"documentId" text NOT NULL,
			content     text NOT NULL,
			metadata    jsonb NOT NULL,
			embedding   vector(%d) NOT NULL
		);
		CREATE INDEX IF NOT EXISTS document_chunks_document_idx ON document_chunks ("documentId");
	`, dimensions)
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return &Index{db: db}, nil
}

type chunkRow struct {
	ID         string  `db:"id"`
	DocumentID string  `db:"documentId"`
	Content    string  `db:"content"`
	Metadata   []byte  `db:"metadata"`
	Distance   float64 `db:"distance"`
}

func (r chunkRow) toRecord() (vectorindex.Record, error) {
	var meta entity.ChunkMetadata
	if err := json.Unmarshal(r.Metadata, &meta); err != nil {
		return vectorindex.Record{}, fmt.Errorf("failed to decode chunk metadata for %s: %w", r.ID, err)
	}
	return vectorindex.Record{ID: r.ID, Content: r.Content, Meta: meta}, nil
}

func (idx *Index) Upsert(ctx context.Context, records []vectorindex.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := idx.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO document_chunks (id, "documentId", content, metadata, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET content = EXCLUDED.content, metadata = EXCLUDED.metadata, embedding = EXCLUDED.embedding
	`
	for _, rec := range records {
		meta, err := json.Marshal(rec.Meta)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query,
			rec.ID,
			rec.Meta.DocumentID,
			rec.Content,
			meta,
			pgv.NewVector(rec.Vector),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (idx *Index) Query(ctx context.Context, vector []float32, topK int, filter *vectorindex.Filter) ([]vectorindex.Match, error) {
	if topK <= 0 {
		topK = 5
	}

	query := `
		SELECT id, "documentId", content, metadata, embedding <=> ? AS distance
		FROM document_chunks
	`
	args := []interface{}{pgv.NewVector(vector)}
	if filter != nil && len(filter.DocumentIDs) > 0 {
		query += ` WHERE "documentId" IN (?)`
		args = append(args, filter.DocumentIDs)
	}
	query += ` ORDER BY embedding <=> ? LIMIT ?`
	args = append(args, pgv.NewVector(vector), topK)

	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}

	var rows []chunkRow
	if err := idx.db.SelectContext(ctx, &rows, idx.db.Rebind(expanded), expandedArgs...); err != nil {
		return nil, err
	}

	matches := make([]vectorindex.Match, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		matches = append(matches, vectorindex.Match{Record: rec, Distance: row.Distance})
	}
	return matches, nil
}

func (idx *Index) Fetch(ctx context.Context, filter *vectorindex.Filter) ([]vectorindex.Record, error) {
	query := `SELECT id, "documentId", content, metadata, 0::float8 AS distance FROM document_chunks`
	var args []interface{}
	if filter != nil && len(filter.DocumentIDs) > 0 {
		query += ` WHERE "documentId" IN (?)`
		args = append(args, filter.DocumentIDs)
	}

	expanded := query
	expandedArgs := args
	if len(args) > 0 {
		var err error
		expanded, expandedArgs, err = sqlx.In(query, args...)
		if err != nil {
			return nil, err
		}
		expanded = idx.db.Rebind(expanded)
	}

	var rows []chunkRow
	if err := idx.db.SelectContext(ctx, &rows, expanded, expandedArgs...); err != nil {
		return nil, err
	}

	records := make([]vectorindex.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (idx *Index) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM document_chunks WHERE id IN (?)`, ids)
	if err != nil {
		return err
	}
	_, err = idx.db.ExecContext(ctx, idx.db.Rebind(query), args...)
	return err
}

// UpdateMetadata merges the patch into the extra metadata of the given chunks.
func (idx *Index) UpdateMetadata(ctx context.Context, ids []string, patch map[string]string) error {
	if len(ids) == 0 || len(patch) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`SELECT id, "documentId", content, metadata, 0::float8 AS distance FROM document_chunks WHERE id IN (?)`, ids)
	if err != nil {
		return err
	}
	var rows []chunkRow
	if err := idx.db.SelectContext(ctx, &rows, idx.db.Rebind(query), args...); err != nil {
		return err
	}

	tx, err := idx.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return err
		}
		if rec.Meta.Extra == nil {
			rec.Meta.Extra = make(map[string]string, len(patch))
		}
		for k, v := range patch {
			rec.Meta.Extra[k] = v
		}
		meta, err := json.Marshal(rec.Meta)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE document_chunks SET metadata = $1 WHERE id = $2`, meta, rec.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (idx *Index) Count(ctx context.Context) (int, error) {
	var count int
	if err := idx.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM document_chunks`); err != nil {
		return 0, err
	}
	return count, nil
}
