package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cppla/blogposts/models"
	"github.com/cppla/blogposts/repository"
	"github.com/cppla/blogposts/utils"
)

const (
	// cachePrefix + "v<generation>:" prefixes every cached response
	cachePrefix        = "cache:posts:"
	cacheGenerationKey = "cache:posts:gen"
)

// PostController serves the /posts collection and /posts/:id item endpoints.
type PostController struct {
	posts    repository.PostRepository
	cache    *utils.Cache
	clean    utils.TextCleaner
	validate *validator.Validate
}

// NewPostController creates a PostController. cache may be nil; clean defaults to utils.KeepText.
func NewPostController(posts repository.PostRepository, cache *utils.Cache, clean utils.TextCleaner) *PostController {
	if clean == nil {
		clean = utils.KeepText
	}
	return &PostController{
		posts:    posts,
		cache:    cache,
		clean:    clean,
		validate: newValidator(),
	}
}

// ListPosts returns every post, filtered by the optional "term" query parameter.
// Only the unfiltered list is cached.
func (p *PostController) ListPosts(ctx *gin.Context) {
	term := ctx.Query("term")
	cacheKey, cached := "", false
	if term == "" {
		cacheKey, cached = p.cacheKey(ctx, "list")
	}
	if cached {
		if b, ok := p.cache.GetBytes(ctx.Request.Context(), cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
			return
		}
	}

	posts, err := p.posts.Search(ctx.Request.Context(), term)
	if err != nil {
		p.fail(ctx, err, "failed to list posts")
		return
	}

	if cached {
		p.cache.SetJSON(ctx.Request.Context(), cacheKey, posts)
	}
	utils.Success(ctx, posts)
}

// CreatePost validates the body and stores a new post.
func (p *PostController) CreatePost(ctx *gin.Context) {
	fields, err := p.parseFields(ctx)
	if err != nil {
		p.fail(ctx, err, "invalid post arguments")
		return
	}

	post, err := p.posts.Create(ctx.Request.Context(), fields)
	if err != nil {
		p.fail(ctx, err, "failed to create post")
		return
	}

	p.invalidate(ctx)
	utils.Created(ctx, post)
}

// GetPost returns a single post.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := p.postID(ctx)
	if !ok {
		return
	}

	cacheKey, cached := p.cacheKey(ctx, "detail:"+strconv.FormatUint(uint64(id), 10))
	if cached {
		if b, ok := p.cache.GetBytes(ctx.Request.Context(), cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
			return
		}
	}

	post, err := p.posts.GetByID(ctx.Request.Context(), id)
	if err != nil {
		p.fail(ctx, err, "failed to load post")
		return
	}

	if cached {
		p.cache.SetJSON(ctx.Request.Context(), cacheKey, post)
	}
	utils.Success(ctx, post)
}

// UpdatePost replaces title, content, category and tags. Existence is checked before the body.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	id, ok := p.postID(ctx)
	if !ok {
		return
	}

	if _, err := p.posts.GetByID(ctx.Request.Context(), id); err != nil {
		p.fail(ctx, err, "failed to load post")
		return
	}

	fields, err := p.parseFields(ctx)
	if err != nil {
		p.fail(ctx, err, "invalid post arguments")
		return
	}

	post, err := p.posts.Update(ctx.Request.Context(), id, fields)
	if err != nil {
		p.fail(ctx, err, "failed to update post")
		return
	}

	p.invalidate(ctx)
	utils.Success(ctx, post)
}

// DeletePost removes a post and answers 204.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := p.postID(ctx)
	if !ok {
		return
	}

	if err := p.posts.Delete(ctx.Request.Context(), id); err != nil {
		p.fail(ctx, err, "failed to delete post")
		return
	}

	p.invalidate(ctx)
	utils.NoContent(ctx)
}

func (p *PostController) parseFields(ctx *gin.Context) (models.PostFields, error) {
	fields, err := parsePostArgs(ctx, p.validate)
	if err != nil {
		return fields, err
	}
	fields.Title = p.clean(fields.Title)
	fields.Content = p.clean(fields.Content)
	return fields, nil
}

// postID parses the :id segment. Anything but a non-negative integer names no post.
func (p *PostController) postID(ctx *gin.Context) (uint, bool) {
	raw := ctx.Param("id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		p.fail(ctx, models.NewNotFoundError(raw), "")
		return 0, false
	}
	return uint(id), true
}

// cacheKey names suffix under the current cache generation. The generation is read
// before the store so a response loaded before a write can only land under a retired key.
func (p *PostController) cacheKey(ctx *gin.Context, suffix string) (string, bool) {
	gen, ok := p.cache.Generation(ctx.Request.Context(), cacheGenerationKey)
	if !ok {
		return "", false
	}
	return generationPrefix(gen) + suffix, true
}

// invalidate retires every cached response after a write and drops the old generation's keys.
func (p *PostController) invalidate(ctx *gin.Context) {
	gen, ok := p.cache.Bump(ctx.Request.Context(), cacheGenerationKey)
	if !ok {
		p.cache.InvalidateByPrefix(ctx.Request.Context(), cachePrefix+"v")
		return
	}
	p.cache.InvalidateByPrefix(ctx.Request.Context(), generationPrefix(gen-1))
}

func generationPrefix(gen int64) string {
	return cachePrefix + "v" + strconv.FormatInt(gen, 10) + ":"
}

// fail maps err onto the response: validation → 400, missing post → 404, bad body → 400,
// anything else is logged and answered with a generic 500.
func (p *PostController) fail(ctx *gin.Context, err error, action string) {
	var verr *models.ValidationError
	var nf *models.NotFoundError
	switch {
	case errors.As(err, &verr):
		utils.FieldErrors(ctx, verr.Error(), verr.Fields)
	case errors.As(err, &nf):
		utils.Error(ctx, http.StatusNotFound, utils.CodePostNotFound, nf.Error())
	case errors.Is(err, errInvalidPayload):
		utils.Error(ctx, http.StatusBadRequest, utils.CodeInvalidPayload, errInvalidPayload.Error())
	default:
		utils.Logger.Error(action,
			zap.Error(err),
			zap.String("path", ctx.Request.URL.Path),
			zap.String("request_id", ctx.GetString(utils.RequestIDKey)),
		)
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
	}
}
