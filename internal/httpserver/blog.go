package httpserver

import (
	"errors"
	"net/http"

	"freshprep/internal/domain"
	blogrepo "freshprep/internal/repository/blog"

	"github.com/gin-gonic/gin"
)

func listBlogHandler(blog blogrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		pageNum, limit := pageParams(c)
		posts, total, err := blog.ListPublished(c.Request.Context(), limit, (pageNum-1)*limit)
		if err != nil {
			respondError(c, http.StatusInternalServerError, codeInternal, "failed to list posts", nil)
			return
		}
		if posts == nil {
			posts = []domain.BlogPost{}
		}
		respondOK(c, http.StatusOK, newPage(posts, total, pageNum, limit))
	}
}

func getBlogPostHandler(blog blogrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := blog.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				respondError(c, http.StatusNotFound, codeNotFound, "post not found", nil)
				return
			}
			respondError(c, http.StatusInternalServerError, codeInternal, "failed to load post", nil)
			return
		}
		respondOK(c, http.StatusOK, post)
	}
}
