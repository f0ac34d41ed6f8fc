package decor

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const maxUploadSize = 10 << 20 // 10MB

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, ErrNotFound
	}
	return id, nil
}

// fileUpload reads an optional multipart file field into an Upload.
// Returns nil when the field is absent.
func fileUpload(c echo.Context, field string) (*Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	if fh.Size > maxUploadSize {
		return nil, &ValidationError{Field: field, Reason: "file too large (max 10MB)"}
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &Upload{Name: fh.Filename, Data: data}, nil
}

func formInt(c echo.Context, field string) int {
	n, _ := strconv.Atoi(c.FormValue(field))
	return n
}

func validPrice(field, value string) error {
	if value == "" {
		return nil // required-ness is the store's call
	}
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return &ValidationError{Field: field, Reason: "must be a decimal number"}
	}
	return nil
}

// --- Categories ---

type categoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (a *App) handleAdminCategoryCreate(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	cat := &Category{Name: req.Name, Slug: req.Slug}
	if err := a.Pipeline.SaveCategory(cat, true); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cat)
}

func (a *App) handleAdminCategoryUpdate(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	cat := &Category{ID: id, Name: req.Name, Slug: req.Slug}
	if err := a.Pipeline.SaveCategory(cat, false); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

func (a *App) handleAdminCategoryDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := a.Store.DeleteCategory(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Products ---

type productRequest struct {
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	Price       string           `json:"price"`
	CategoryID  *int64           `json:"category_id"`
	Variants    []ProductVariant `json:"variants"`
}

func (req *productRequest) toProduct(id int64) (*Product, error) {
	if err := validPrice("price", req.Price); err != nil {
		return nil, err
	}
	for _, v := range req.Variants {
		if err := validPrice("extra_price", v.ExtraPrice); err != nil {
			return nil, err
		}
	}
	p := &Product{
		ID:          id,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Variants:    req.Variants,
	}
	if req.CategoryID != nil {
		p.Category = &Category{ID: *req.CategoryID}
	}
	return p, nil
}

func (a *App) handleAdminProductCreate(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	p, err := req.toProduct(0)
	if err != nil {
		return err
	}
	if err := a.Pipeline.SaveProduct(p, true); err != nil {
		return err
	}
	full, err := a.Store.GetProduct(p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, full)
}

func (a *App) handleAdminProductUpdate(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	p, err := req.toProduct(id)
	if err != nil {
		return err
	}
	if err := a.Pipeline.SaveProduct(p, false); err != nil {
		return err
	}
	full, err := a.Store.GetProduct(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, full)
}

func (a *App) handleAdminProductDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	paths, err := a.Store.DeleteProduct(id)
	if err != nil {
		return err
	}
	for _, p := range paths {
		a.Media.Remove(p)
	}
	return c.NoContent(http.StatusNoContent)
}

// handleAdminProductImageUpload runs the upload through the normalization
// pipeline and attaches it to the product.
func (a *App) handleAdminProductImageUpload(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if _, err := a.Store.GetProduct(id); err != nil {
		return err
	}
	u, err := fileUpload(c, "image")
	if err != nil {
		return err
	}
	if u == nil {
		return &ValidationError{Field: "image", Reason: "this field is required"}
	}
	img := &ProductImage{
		ProductID: id,
		AltText:   c.FormValue("alt_text"),
		SortOrder: formInt(c, "sort_order"),
	}
	if img.SortOrder < 0 {
		return &ValidationError{Field: "sort_order", Reason: "must not be negative"}
	}
	if err := a.Pipeline.SaveProductImage(img, *u); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, img)
}

func (a *App) handleAdminProductImageDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	path, err := a.Store.DeleteProductImage(id)
	if err != nil {
		return err
	}
	a.Media.Remove(path)
	return c.NoContent(http.StatusNoContent)
}

type reviewRequest struct {
	UserName string `json:"user_name"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

func (a *App) handleAdminProductReviewCreate(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if _, err := a.Store.GetProduct(id); err != nil {
		return err
	}
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	r := &ProductReview{ProductID: id, UserName: req.UserName, Rating: req.Rating, Comment: req.Comment}
	if err := a.Store.AddProductReview(r); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r)
}

// --- Pages ---

type pageRequest struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (a *App) handleAdminPageCreate(c echo.Context) error {
	var req pageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	p := &Page{Slug: req.Slug, Title: req.Title, Content: req.Content}
	if err := a.Pipeline.SavePage(p, true); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (a *App) handleAdminPageUpdate(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req pageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	p := &Page{ID: id, Slug: req.Slug, Title: req.Title, Content: req.Content}
	if err := a.Pipeline.SavePage(p, false); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (a *App) handleAdminPageDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := a.Store.DeletePage(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Blog categories ---

func (a *App) handleAdminBlogCategoryCreate(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	cat := &BlogCategory{Name: req.Name, Slug: req.Slug}
	if err := a.Pipeline.SaveBlogCategory(cat, true); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusCreated, cat)
}

func (a *App) handleAdminBlogCategoryUpdate(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	cat := &BlogCategory{ID: id, Name: req.Name, Slug: req.Slug}
	if err := a.Pipeline.SaveBlogCategory(cat, false); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, cat)
}

func (a *App) handleAdminBlogCategoryDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := a.Store.DeleteBlogCategory(id); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.NoContent(http.StatusNoContent)
}

// --- Blog posts ---

// blogPostForm reads the multipart fields shared by create and update.
func blogPostForm(c echo.Context, id int64) (*BlogPost, []string) {
	p := &BlogPost{
		ID:          id,
		Title:       c.FormValue("title"),
		Slug:        c.FormValue("slug"),
		Description: c.FormValue("description"),
		Content:     c.FormValue("content"),
		AuthorName:  c.FormValue("author_name"),
		Status:      c.FormValue("status"),
		PublishedAt: c.FormValue("published_at"),
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	return p, SplitCSV(c.FormValue("categories"))
}

func (a *App) handleAdminBlogPostCreate(c echo.Context) error {
	p, categories := blogPostForm(c, 0)
	thumbnail, err := fileUpload(c, "thumbnail")
	if err != nil {
		return err
	}
	if err := a.Pipeline.SaveBlogPost(p, categories, thumbnail, true); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusCreated, p)
}

func (a *App) handleAdminBlogPostUpdate(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	existing, err := a.Store.GetBlogPost(id)
	if err != nil {
		return err
	}
	p, categories := blogPostForm(c, id)
	p.Thumbnail = existing.Thumbnail
	if p.PublishedAt == "" {
		p.PublishedAt = existing.PublishedAt
	}
	thumbnail, err := fileUpload(c, "thumbnail")
	if err != nil {
		return err
	}
	if err := a.Pipeline.SaveBlogPost(p, categories, thumbnail, false); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, p)
}

func (a *App) handleAdminBlogPostDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	thumbnail, err := a.Store.DeleteBlogPost(id)
	if err != nil {
		return err
	}
	a.Media.Remove(thumbnail)
	a.Cache.Invalidate()
	return c.NoContent(http.StatusNoContent)
}

// --- FAQs ---

type faqRequest struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	SortOrder int    `json:"sort_order"`
}

func (a *App) handleAdminFAQCreate(c echo.Context) error {
	var req faqRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	f := &FAQ{Question: req.Question, Answer: req.Answer, SortOrder: req.SortOrder}
	if err := a.Store.CreateFAQ(f); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, f)
}

func (a *App) handleAdminFAQUpdate(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req faqRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	f := &FAQ{ID: id, Question: req.Question, Answer: req.Answer, SortOrder: req.SortOrder}
	if err := a.Store.UpdateFAQ(f); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, f)
}

func (a *App) handleAdminFAQDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := a.Store.DeleteFAQ(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Slides ---

func (a *App) handleAdminSlideCreate(c echo.Context) error {
	sl := &Slide{
		Title:     c.FormValue("title"),
		Link:      c.FormValue("link"),
		SortOrder: formInt(c, "sort_order"),
	}
	u, err := fileUpload(c, "image")
	if err != nil {
		return err
	}
	if err := a.Pipeline.SaveSlide(sl, u, true); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sl)
}

func (a *App) handleAdminSlideUpdate(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	existing, err := a.Store.ListSlides()
	if err != nil {
		return err
	}
	sl := &Slide{ID: id, Title: c.FormValue("title"), Link: c.FormValue("link"), SortOrder: formInt(c, "sort_order")}
	for _, s := range existing {
		if s.ID == id {
			sl.Image = s.Image
		}
	}
	u, err := fileUpload(c, "image")
	if err != nil {
		return err
	}
	if err := a.Pipeline.SaveSlide(sl, u, false); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sl)
}

func (a *App) handleAdminSlideDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	image, err := a.Store.DeleteSlide(id)
	if err != nil {
		return err
	}
	a.Media.Remove(image)
	return c.NoContent(http.StatusNoContent)
}

// --- Contact info ---

func (a *App) handleAdminContactInfoCreate(c echo.Context) error {
	ci := &ContactInfo{
		Type:  c.FormValue("type"),
		Name:  c.FormValue("name"),
		Value: c.FormValue("value"),
	}
	if ci.Type == "" {
		ci.Type = "location"
	}
	u, err := fileUpload(c, "image")
	if err != nil {
		return err
	}
	if err := a.Pipeline.SaveContactInfo(ci, u, true); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ci)
}

func (a *App) handleAdminContactInfoUpdate(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	infos, err := a.Store.ListContactInfo()
	if err != nil {
		return err
	}
	ci := &ContactInfo{ID: id, Type: c.FormValue("type"), Name: c.FormValue("name"), Value: c.FormValue("value")}
	if ci.Type == "" {
		ci.Type = "location"
	}
	for _, existing := range infos {
		if existing.ID == id {
			ci.Image = existing.Image
		}
	}
	u, err := fileUpload(c, "image")
	if err != nil {
		return err
	}
	if err := a.Pipeline.SaveContactInfo(ci, u, false); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ci)
}

func (a *App) handleAdminContactInfoDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	image, err := a.Store.DeleteContactInfo(id)
	if err != nil {
		return err
	}
	a.Media.Remove(image)
	return c.NoContent(http.StatusNoContent)
}
