package blog

import (
	"context"
	"errors"

	"freshprep/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListPublished(ctx context.Context, limit, offset int) ([]domain.BlogPost, int, error) {
	const q = `
SELECT id::text, title, slug, excerpt, category, tags, is_published, published_at, created_at
FROM blog_posts
WHERE is_published
ORDER BY published_at DESC NULLS LAST
LIMIT $1 OFFSET $2
`
	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []domain.BlogPost
	for rows.Next() {
		var p domain.BlogPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Category, &p.Tags, &p.IsPublished, &p.PublishedAt, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blog_posts WHERE is_published`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	const q = `
SELECT id::text, title, slug, excerpt, content, category, tags, is_published, published_at, created_at
FROM blog_posts
WHERE slug = $1 AND is_published
`
	var p domain.BlogPost
	if err := r.pool.QueryRow(ctx, q, slug).Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.Category, &p.Tags, &p.IsPublished, &p.PublishedAt, &p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, post domain.BlogPost) (*domain.BlogPost, error) {
	const q = `
INSERT INTO blog_posts (title, slug, excerpt, content, category, tags, is_published, published_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (slug) DO UPDATE SET
    title = EXCLUDED.title,
    excerpt = EXCLUDED.excerpt,
    content = EXCLUDED.content,
    category = EXCLUDED.category,
    tags = EXCLUDED.tags,
    is_published = EXCLUDED.is_published,
    published_at = EXCLUDED.published_at
RETURNING id::text, created_at
`
	res := post
	if res.Tags == nil {
		res.Tags = []string{}
	}
	if err := r.pool.QueryRow(ctx, q,
		post.Title, post.Slug, post.Excerpt, post.Content, post.Category, res.Tags, post.IsPublished, post.PublishedAt,
	).Scan(&res.ID, &res.CreatedAt); err != nil {
		return nil, err
	}
	return &res, nil
}
