package decor

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// listResponse is the list envelope every collection endpoint returns.
type listResponse struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

type fieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// httpErrorHandler maps the error taxonomy onto JSON responses: validation
// 400, uniqueness 409, not-found 404, unsupported image 400. Anything else
// is a logged 500.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var ve *ValidationError
	var ue *UniquenessError
	switch {
	case errors.As(err, &ve):
		_ = c.JSON(http.StatusBadRequest, fieldError{Field: ve.Field, Reason: ve.Reason})
		return
	case errors.As(err, &ue):
		_ = c.JSON(http.StatusConflict, fieldError{Field: ue.Field, Reason: "already exists"})
		return
	case errors.Is(err, ErrUnsupportedImage):
		_ = c.JSON(http.StatusBadRequest, fieldError{Field: "image", Reason: err.Error()})
		return
	case errors.Is(err, ErrNotFound):
		_ = c.JSON(http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}

	he, ok := err.(*echo.HTTPError)
	if ok {
		msg, _ := he.Message.(string)
		if msg == "" {
			msg = http.StatusText(he.Code)
		}
		_ = c.JSON(he.Code, map[string]string{"detail": msg})
		return
	}

	a.log.Error("server error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	_ = c.JSON(http.StatusInternalServerError, map[string]string{"detail": "Internal server error."})
}

// pageParams reads ?page= and ?page_size=, clamped to sane bounds.
func pageParams(c echo.Context) (limit, offset, page int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("page_size"))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return limit, (page - 1) * limit, page
}

// listJSON writes the paginated envelope with absolute next/previous links.
func (a *App) listJSON(c echo.Context, total, page, pageSize int, results any) error {
	pageURL := func(p int) *string {
		u := *c.Request().URL
		q := u.Query()
		q.Set("page", strconv.Itoa(p))
		u.RawQuery = q.Encode()
		s := a.Config.URL + u.String()
		return &s
	}

	resp := listResponse{Count: total, Results: results}
	if page*pageSize < total {
		resp.Next = pageURL(page + 1)
	}
	if page > 1 {
		resp.Previous = pageURL(page - 1)
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *App) handleProductList(c echo.Context) error {
	limit, offset, page := pageParams(c)
	products, total, err := a.Store.ListProducts(c.QueryParam("search"), limit, offset)
	if err != nil {
		return err
	}
	if products == nil {
		products = []Product{}
	}
	return a.listJSON(c, total, page, limit, products)
}

func (a *App) handleProductDetail(c echo.Context) error {
	p, err := a.Store.GetProductBySlug(c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (a *App) handleCategoryList(c echo.Context) error {
	cats, err := a.Store.ListCategories()
	if err != nil {
		return err
	}
	if cats == nil {
		cats = []Category{}
	}
	return c.JSON(http.StatusOK, cats)
}

func (a *App) handlePageList(c echo.Context) error {
	limit, offset, page := pageParams(c)
	pages, total, err := a.Store.ListPages(c.QueryParam("search"), limit, offset)
	if err != nil {
		return err
	}
	if pages == nil {
		pages = []Page{}
	}
	return a.listJSON(c, total, page, limit, pages)
}

func (a *App) handlePageDetail(c echo.Context) error {
	p, err := a.Store.GetPageBySlug(c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (a *App) handleBlogCategoryList(c echo.Context) error {
	cats, err := a.Store.ListBlogCategories()
	if err != nil {
		return err
	}
	if cats == nil {
		cats = []BlogCategory{}
	}
	return c.JSON(http.StatusOK, cats)
}

// handleBlogPostList serves published posts. Category filtering comes from
// the cache; a search term goes straight to the store.
func (a *App) handleBlogPostList(c echo.Context) error {
	limit, offset, page := pageParams(c)
	categories := SplitCSV(c.QueryParam("categories"))

	if search := c.QueryParam("search"); search != "" {
		posts, total, err := a.Store.ListBlogPosts(BlogPostFilter{
			Search:        search,
			CategorySlugs: categories,
			PublishedOnly: true,
			Limit:         limit,
			Offset:        offset,
		})
		if err != nil {
			return err
		}
		if posts == nil {
			posts = []BlogPost{}
		}
		return a.listJSON(c, total, page, limit, posts)
	}

	posts, err := a.Cache.ListPublished(categories)
	if err != nil {
		return err
	}
	total := len(posts)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	window := posts[offset:end]
	if window == nil {
		window = []BlogPost{}
	}
	return a.listJSON(c, total, page, limit, window)
}

func (a *App) handleBlogPostDetail(c echo.Context) error {
	p, err := a.Store.GetBlogPostBySlug(c.Param("slug"), true)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (a *App) handleFAQList(c echo.Context) error {
	faqs, err := a.Store.ListFAQs()
	if err != nil {
		return err
	}
	if faqs == nil {
		faqs = []FAQ{}
	}
	return c.JSON(http.StatusOK, faqs)
}

func (a *App) handleSlideList(c echo.Context) error {
	slides, err := a.Store.ListSlides()
	if err != nil {
		return err
	}
	if slides == nil {
		slides = []Slide{}
	}
	return c.JSON(http.StatusOK, slides)
}

func (a *App) handleContactInfoList(c echo.Context) error {
	infos, err := a.Store.ListContactInfo()
	if err != nil {
		return err
	}
	if infos == nil {
		infos = []ContactInfo{}
	}
	return c.JSON(http.StatusOK, infos)
}

func (a *App) handleContactList(c echo.Context) error {
	limit, offset, page := pageParams(c)
	msgs, total, err := a.Store.ListContactMessages(limit, offset)
	if err != nil {
		return err
	}
	if msgs == nil {
		msgs = []ContactMessage{}
	}
	return a.listJSON(c, total, page, limit, msgs)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPublished(nil)
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPublished(nil)
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}
