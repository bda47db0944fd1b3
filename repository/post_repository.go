package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/blogposts/models"
)

// likeEscape is portable across sqlite, mysql and postgres string literals.
const likeEscape = "!"

// maxLikeTermBytes bounds the terms pushed into LIKE; sqlite rejects patterns over 50000 bytes.
// Longer terms are matched in Go only.
const maxLikeTermBytes = 1024

// PostRepository defines the persistence operations for posts.
type PostRepository interface {
	Search(ctx context.Context, term string) ([]models.Post, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Create(ctx context.Context, fields models.PostFields) (*models.Post, error)
	Update(ctx context.Context, id uint, fields models.PostFields) (*models.Post, error)
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPostRepository creates a gorm backed PostRepository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, now: defaultNow}
}

// NewPostRepositoryWithClock is NewPostRepository with a custom time source.
func NewPostRepositoryWithClock(db *gorm.DB, now func() time.Time) PostRepository {
	return &postRepository{db: db, now: now}
}

// Timestamps are kept at millisecond precision, the finest every supported store keeps.
func defaultNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Search returns posts whose title, content or category contains term, in creation order.
// The LIKE clause narrows the rows on the store; Post.Matches decides, so the result is
// case-sensitive whatever collation the store uses.
func (r *postRepository) Search(ctx context.Context, term string) ([]models.Post, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{}).Order("id ASC")
	if term != "" && len(term) <= maxLikeTermBytes {
		pattern := "%" + escapeLike(term) + "%"
		query = query.Where(
			"title LIKE ? ESCAPE '"+likeEscape+"' OR content LIKE ? ESCAPE '"+likeEscape+"' OR category LIKE ? ESCAPE '"+likeEscape+"'",
			pattern, pattern, pattern,
		)
	}

	var rows []models.Post
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	posts := make([]models.Post, 0, len(rows))
	for i := range rows {
		if rows[i].Matches(term) {
			posts = append(posts, rows[i])
		}
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(id)
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, fields models.PostFields) (*models.Post, error) {
	now := r.now()
	post := models.Post{CreatedAt: now, UpdatedAt: now}
	fields.Apply(&post)

	if err := r.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Update overwrites title, content, category and tags and refreshes updatedAt.
func (r *postRepository) Update(ctx context.Context, id uint, fields models.PostFields) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError(id)
			}
			return err
		}

		fields.Apply(&post)
		now := r.now()
		if now.Before(post.UpdatedAt) {
			now = post.UpdatedAt
		}
		post.UpdatedAt = now

		return tx.Model(&post).
			Select("title", "content", "category", "tags", "updated_at").
			Updates(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(id)
	}
	return nil
}

func escapeLike(term string) string {
	return strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	).Replace(term)
}
