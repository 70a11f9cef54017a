package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"NewsVault/internal/domain"
	"NewsVault/internal/ports"
)

// PostgresRegistry records processed articles in Postgres, keyed by the
// URL+title correlation hash, so the pipeline can skip re-processing.
type PostgresRegistry struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ProcessedRegistry = (*PostgresRegistry)(nil)

// NewPostgresRegistry wires a sql.DB implementation.
func NewPostgresRegistry(db *sql.DB) *PostgresRegistry {
	return &PostgresRegistry{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Find returns the stored document id for an article hash, with ok=false
// when the article has not been processed.
func (r *PostgresRegistry) Find(ctx context.Context, articleID string) (string, bool, error) {
	if r.db == nil {
		return "", false, nil
	}

	query, args, err := r.builder.
		Select("doc_id").
		From("processed_articles").
		Where(sq.Eq{"article_id": articleID}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build find query: %w", err)
	}

	var docID string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&docID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query processed article: %w", err)
	}

	return docID, true, nil
}

// Record upserts the processed-article snapshot.
func (r *PostgresRegistry) Record(ctx context.Context, article domain.ProcessedArticle) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("processed_articles").
		Columns("article_id", "doc_id", "url", "title", "summary").
		Values(article.ArticleID, article.DocID, article.URL, article.Title, article.Summary).
		Suffix(`ON CONFLICT (article_id) DO UPDATE
                SET doc_id = EXCLUDED.doc_id,
                    summary = EXCLUDED.summary,
                    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build record query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert processed article: %w", err)
	}

	return nil
}
