package decor

import (
	"database/sql"
	"errors"
	"strings"
)

// --- Pages ---

func (s *Store) ListPages(search string, limit, offset int) ([]Page, int, error) {
	where := ``
	args := []any{}
	if search != "" {
		where = ` WHERE lower(title) LIKE ? OR lower(content) LIKE ?`
		pat := likePattern(search)
		args = append(args, pat, pat)
	}
	total, err := count(s.db, `SELECT COUNT(*) FROM pages`+where, args...)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.db.Query(`SELECT id, slug, title, content, created_at, updated_at FROM pages`+where+
		` ORDER BY id LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		pages = append(pages, p)
	}
	return pages, total, rows.Err()
}

func (s *Store) GetPageBySlug(slug string) (Page, error) {
	var p Page
	err := s.db.QueryRow(`SELECT id, slug, title, content, created_at, updated_at FROM pages WHERE slug = ?`, slug).
		Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Page{}, ErrNotFound
	}
	return p, err
}

func (s *Store) CreatePage(p *Page) error {
	if err := required("slug", p.Slug); err != nil {
		return err
	}
	if err := required("title", p.Title); err != nil {
		return err
	}
	ts := now()
	res, err := s.db.Exec(`INSERT INTO pages (slug, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Content, ts, ts)
	if err != nil {
		return mapConstraint(err)
	}
	p.ID, _ = res.LastInsertId()
	p.CreatedAt, p.UpdatedAt = ts, ts
	return nil
}

func (s *Store) UpdatePage(p *Page) error {
	if err := required("slug", p.Slug); err != nil {
		return err
	}
	if err := required("title", p.Title); err != nil {
		return err
	}
	p.UpdatedAt = now()
	res, err := s.db.Exec(`UPDATE pages SET slug = ?, title = ?, content = ?, updated_at = ? WHERE id = ?`,
		p.Slug, p.Title, p.Content, p.UpdatedAt, p.ID)
	if err != nil {
		return mapConstraint(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeletePage(id int64) error {
	res, err := s.db.Exec(`DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Contact messages ---

// CreateContactMessage inserts a new submission. The row is immutable after
// this: there is no update path, and created_at is assigned exactly once.
func (s *Store) CreateContactMessage(m *ContactMessage) error {
	if err := required("name", m.Name); err != nil {
		return err
	}
	if err := required("phone_number", m.PhoneNumber); err != nil {
		return err
	}
	if err := required("message", m.Message); err != nil {
		return err
	}
	m.CreatedAt = now()
	res, err := s.db.Exec(`INSERT INTO contact_messages (name, phone_number, message, created_at) VALUES (?, ?, ?, ?)`,
		m.Name, m.PhoneNumber, m.Message, m.CreatedAt)
	if err != nil {
		return mapConstraint(err)
	}
	m.ID, _ = res.LastInsertId()
	return nil
}

func (s *Store) ListContactMessages(limit, offset int) ([]ContactMessage, int, error) {
	total, err := count(s.db, `SELECT COUNT(*) FROM contact_messages`)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.db.Query(`SELECT id, name, phone_number, message, created_at FROM contact_messages ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var msgs []ContactMessage
	for rows.Next() {
		var m ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.PhoneNumber, &m.Message, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		msgs = append(msgs, m)
	}
	return msgs, total, rows.Err()
}

// --- Blog categories ---

func (s *Store) ListBlogCategories() ([]BlogCategory, error) {
	rows, err := s.db.Query(`SELECT id, name, slug FROM blog_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []BlogCategory
	for rows.Next() {
		var c BlogCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *Store) CreateBlogCategory(c *BlogCategory) error {
	if err := required("name", c.Name); err != nil {
		return err
	}
	if err := required("slug", c.Slug); err != nil {
		return err
	}
	res, err := s.db.Exec(`INSERT INTO blog_categories (name, slug) VALUES (?, ?)`, c.Name, c.Slug)
	if err != nil {
		return mapConstraint(err)
	}
	c.ID, _ = res.LastInsertId()
	return nil
}

func (s *Store) UpdateBlogCategory(c *BlogCategory) error {
	if err := required("name", c.Name); err != nil {
		return err
	}
	if err := required("slug", c.Slug); err != nil {
		return err
	}
	res, err := s.db.Exec(`UPDATE blog_categories SET name = ?, slug = ? WHERE id = ?`, c.Name, c.Slug, c.ID)
	if err != nil {
		return mapConstraint(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteBlogCategory(id int64) error {
	res, err := s.db.Exec(`DELETE FROM blog_categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Blog posts ---

// BlogPostFilter narrows ListBlogPosts. Zero value lists everything.
type BlogPostFilter struct {
	Search        string
	CategorySlugs []string // related-membership filter, any-of
	PublishedOnly bool
	Limit         int
	Offset        int
}

const blogPostCols = `b.id, b.title, b.slug, b.description, b.thumbnail, b.content, b.author_name, b.status, b.published_at, b.created_at, b.updated_at`

func scanBlogPost(scan func(dest ...any) error) (BlogPost, error) {
	var p BlogPost
	var publishedAt sql.NullString
	if err := scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.Thumbnail, &p.Content,
		&p.AuthorName, &p.Status, &publishedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return BlogPost{}, err
	}
	p.PublishedAt = publishedAt.String
	return p, nil
}

// ListBlogPosts returns posts ordered by published_at descending, with their
// categories loaded (comments are only loaded on detail reads).
func (s *Store) ListBlogPosts(f BlogPostFilter) ([]BlogPost, int, error) {
	var conds []string
	var args []any
	if f.PublishedOnly {
		conds = append(conds, `b.status = ?`)
		args = append(args, StatusPublished)
	}
	if f.Search != "" {
		conds = append(conds, `(lower(b.title) LIKE ? OR lower(b.content) LIKE ? OR lower(b.author_name) LIKE ?)`)
		pat := likePattern(f.Search)
		args = append(args, pat, pat, pat)
	}
	if len(f.CategorySlugs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.CategorySlugs)), ",")
		conds = append(conds, `b.id IN (
			SELECT pc.post_id FROM blog_post_categories pc
			JOIN blog_categories c ON c.id = pc.category_id
			WHERE c.slug IN (`+placeholders+`))`)
		for _, slug := range f.CategorySlugs {
			args = append(args, slug)
		}
	}
	where := ``
	if len(conds) > 0 {
		where = ` WHERE ` + strings.Join(conds, ` AND `)
	}

	total, err := count(s.db, `SELECT COUNT(*) FROM blog_posts b`+where, args...)
	if err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = total
	}
	rows, err := s.db.Query(`SELECT `+blogPostCols+` FROM blog_posts b`+where+
		` ORDER BY b.published_at DESC, b.id DESC LIMIT ? OFFSET ?`,
		append(args, limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range posts {
		if err := s.loadPostCategories(&posts[i]); err != nil {
			return nil, 0, err
		}
	}
	return posts, total, nil
}

// GetBlogPostBySlug returns a post with categories and comments. With
// publishedOnly set, drafts and archived posts read as not found.
func (s *Store) GetBlogPostBySlug(slug string, publishedOnly bool) (BlogPost, error) {
	query := `SELECT ` + blogPostCols + ` FROM blog_posts b WHERE b.slug = ?`
	args := []any{slug}
	if publishedOnly {
		query += ` AND b.status = ?`
		args = append(args, StatusPublished)
	}
	p, err := scanBlogPost(s.db.QueryRow(query, args...).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return BlogPost{}, ErrNotFound
	}
	if err != nil {
		return BlogPost{}, err
	}
	if err := s.loadPostCategories(&p); err != nil {
		return BlogPost{}, err
	}
	if err := s.loadPostComments(&p); err != nil {
		return BlogPost{}, err
	}
	return p, nil
}

func (s *Store) GetBlogPost(id int64) (BlogPost, error) {
	p, err := scanBlogPost(s.db.QueryRow(`SELECT `+blogPostCols+` FROM blog_posts b WHERE b.id = ?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return BlogPost{}, ErrNotFound
	}
	if err != nil {
		return BlogPost{}, err
	}
	if err := s.loadPostCategories(&p); err != nil {
		return BlogPost{}, err
	}
	return p, nil
}

func (s *Store) loadPostCategories(p *BlogPost) error {
	rows, err := s.db.Query(`SELECT c.id, c.name, c.slug FROM blog_categories c
		JOIN blog_post_categories pc ON pc.category_id = c.id
		WHERE pc.post_id = ? ORDER BY c.name`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	p.Categories = []BlogCategory{}
	for rows.Next() {
		var c BlogCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return err
		}
		p.Categories = append(p.Categories, c)
	}
	return rows.Err()
}

func (s *Store) loadPostComments(p *BlogPost) error {
	rows, err := s.db.Query(`SELECT id, post_id, user_name, user_email, comment, created_at FROM blog_comments WHERE post_id = ? ORDER BY created_at, id`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	p.Comments = []BlogComment{}
	for rows.Next() {
		var c BlogComment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserName, &c.UserEmail, &c.Comment, &c.CreatedAt); err != nil {
			return err
		}
		p.Comments = append(p.Comments, c)
	}
	return rows.Err()
}

// CreateBlogPost inserts a post and its category links in one transaction.
// categorySlugs that do not exist fail the whole save.
func (s *Store) CreateBlogPost(p *BlogPost, categorySlugs []string) error {
	if err := validateBlogPost(p); err != nil {
		return err
	}
	ts := now()
	return s.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`INSERT INTO blog_posts (title, slug, description, thumbnail, content, author_name, status, published_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Title, p.Slug, p.Description, p.Thumbnail, p.Content, p.AuthorName, p.Status, nullable(p.PublishedAt), ts, ts)
		if err != nil {
			return err
		}
		p.ID, _ = res.LastInsertId()
		p.CreatedAt, p.UpdatedAt = ts, ts
		return linkPostCategories(tx, p.ID, categorySlugs)
	})
}

// UpdateBlogPost rewrites the post row and replaces its category links.
func (s *Store) UpdateBlogPost(p *BlogPost, categorySlugs []string) error {
	if err := validateBlogPost(p); err != nil {
		return err
	}
	p.UpdatedAt = now()
	return s.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`UPDATE blog_posts SET title = ?, slug = ?, description = ?, thumbnail = ?, content = ?, author_name = ?, status = ?, published_at = ?, updated_at = ? WHERE id = ?`,
			p.Title, p.Slug, p.Description, p.Thumbnail, p.Content, p.AuthorName, p.Status, nullable(p.PublishedAt), p.UpdatedAt, p.ID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		if _, err := tx.Exec(`DELETE FROM blog_post_categories WHERE post_id = ?`, p.ID); err != nil {
			return err
		}
		return linkPostCategories(tx, p.ID, categorySlugs)
	})
}

func validateBlogPost(p *BlogPost) error {
	if err := required("title", p.Title); err != nil {
		return err
	}
	if err := required("slug", p.Slug); err != nil {
		return err
	}
	if err := required("author_name", p.AuthorName); err != nil {
		return err
	}
	switch p.Status {
	case StatusDraft, StatusPublished, StatusArchived:
		return nil
	default:
		return &ValidationError{Field: "status", Reason: "must be draft, published or archived"}
	}
}

func linkPostCategories(tx *sql.Tx, postID int64, slugs []string) error {
	for _, slug := range slugs {
		var catID int64
		err := tx.QueryRow(`SELECT id FROM blog_categories WHERE slug = ?`, slug).Scan(&catID)
		if errors.Is(err, sql.ErrNoRows) {
			return &ValidationError{Field: "categories", Reason: "unknown category " + slug}
		}
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT OR IGNORE INTO blog_post_categories (post_id, category_id) VALUES (?, ?)`, postID, catID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteBlogPost removes a post and returns its thumbnail path for media
// cleanup.
func (s *Store) DeleteBlogPost(id int64) (string, error) {
	var thumbnail string
	err := s.db.QueryRow(`SELECT thumbnail FROM blog_posts WHERE id = ?`, id).Scan(&thumbnail)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if _, err := s.db.Exec(`DELETE FROM blog_posts WHERE id = ?`, id); err != nil {
		return "", err
	}
	return thumbnail, nil
}

// AddBlogComment stores a public comment against an existing post.
func (s *Store) AddBlogComment(c *BlogComment) error {
	if err := required("user_name", c.UserName); err != nil {
		return err
	}
	if err := required("user_email", c.UserEmail); err != nil {
		return err
	}
	if err := required("comment", c.Comment); err != nil {
		return err
	}
	c.CreatedAt = now()
	res, err := s.db.Exec(`INSERT INTO blog_comments (post_id, user_name, user_email, comment, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.PostID, c.UserName, c.UserEmail, c.Comment, c.CreatedAt)
	if err != nil {
		return mapConstraint(err)
	}
	c.ID, _ = res.LastInsertId()
	return nil
}

// --- FAQs ---

func (s *Store) ListFAQs() ([]FAQ, error) {
	rows, err := s.db.Query(`SELECT id, question, answer, sort_order FROM faqs ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var faqs []FAQ
	for rows.Next() {
		var f FAQ
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &f.SortOrder); err != nil {
			return nil, err
		}
		faqs = append(faqs, f)
	}
	return faqs, rows.Err()
}

func (s *Store) CreateFAQ(f *FAQ) error {
	if err := required("question", f.Question); err != nil {
		return err
	}
	if err := required("answer", f.Answer); err != nil {
		return err
	}
	res, err := s.db.Exec(`INSERT INTO faqs (question, answer, sort_order) VALUES (?, ?, ?)`,
		f.Question, f.Answer, f.SortOrder)
	if err != nil {
		return err
	}
	f.ID, _ = res.LastInsertId()
	return nil
}

func (s *Store) UpdateFAQ(f *FAQ) error {
	if err := required("question", f.Question); err != nil {
		return err
	}
	if err := required("answer", f.Answer); err != nil {
		return err
	}
	res, err := s.db.Exec(`UPDATE faqs SET question = ?, answer = ?, sort_order = ? WHERE id = ?`,
		f.Question, f.Answer, f.SortOrder, f.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteFAQ(id int64) error {
	res, err := s.db.Exec(`DELETE FROM faqs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Contact info ---

func (s *Store) ListContactInfo() ([]ContactInfo, error) {
	rows, err := s.db.Query(`SELECT id, type, name, value, image, created_at FROM contact_info ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []ContactInfo
	for rows.Next() {
		var ci ContactInfo
		if err := rows.Scan(&ci.ID, &ci.Type, &ci.Name, &ci.Value, &ci.Image, &ci.CreatedAt); err != nil {
			return nil, err
		}
		infos = append(infos, ci)
	}
	return infos, rows.Err()
}

func (s *Store) CreateContactInfo(ci *ContactInfo) error {
	if err := validateContactInfo(ci); err != nil {
		return err
	}
	ci.CreatedAt = now()
	res, err := s.db.Exec(`INSERT INTO contact_info (type, name, value, image, created_at) VALUES (?, ?, ?, ?, ?)`,
		ci.Type, ci.Name, ci.Value, ci.Image, ci.CreatedAt)
	if err != nil {
		return err
	}
	ci.ID, _ = res.LastInsertId()
	return nil
}

func (s *Store) UpdateContactInfo(ci *ContactInfo) error {
	if err := validateContactInfo(ci); err != nil {
		return err
	}
	res, err := s.db.Exec(`UPDATE contact_info SET type = ?, name = ?, value = ?, image = ? WHERE id = ?`,
		ci.Type, ci.Name, ci.Value, ci.Image, ci.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteContactInfo removes a record and returns its image path, if any.
func (s *Store) DeleteContactInfo(id int64) (string, error) {
	var image string
	err := s.db.QueryRow(`SELECT image FROM contact_info WHERE id = ?`, id).Scan(&image)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if _, err := s.db.Exec(`DELETE FROM contact_info WHERE id = ?`, id); err != nil {
		return "", err
	}
	return image, nil
}

func validateContactInfo(ci *ContactInfo) error {
	if err := required("name", ci.Name); err != nil {
		return err
	}
	for _, t := range ContactInfoTypes {
		if ci.Type == t {
			return nil
		}
	}
	return &ValidationError{Field: "type", Reason: "unknown contact info type"}
}

// --- Slides ---

func (s *Store) ListSlides() ([]Slide, error) {
	rows, err := s.db.Query(`SELECT id, title, image, link, sort_order FROM slides ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slides []Slide
	for rows.Next() {
		var sl Slide
		if err := rows.Scan(&sl.ID, &sl.Title, &sl.Image, &sl.Link, &sl.SortOrder); err != nil {
			return nil, err
		}
		slides = append(slides, sl)
	}
	return slides, rows.Err()
}

func (s *Store) CreateSlide(sl *Slide) error {
	if err := required("title", sl.Title); err != nil {
		return err
	}
	if err := required("image", sl.Image); err != nil {
		return err
	}
	res, err := s.db.Exec(`INSERT INTO slides (title, image, link, sort_order) VALUES (?, ?, ?, ?)`,
		sl.Title, sl.Image, sl.Link, sl.SortOrder)
	if err != nil {
		return err
	}
	sl.ID, _ = res.LastInsertId()
	return nil
}

func (s *Store) UpdateSlide(sl *Slide) error {
	if err := required("title", sl.Title); err != nil {
		return err
	}
	if err := required("image", sl.Image); err != nil {
		return err
	}
	res, err := s.db.Exec(`UPDATE slides SET title = ?, image = ?, link = ?, sort_order = ? WHERE id = ?`,
		sl.Title, sl.Image, sl.Link, sl.SortOrder, sl.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSlide removes a slide and returns its image path.
func (s *Store) DeleteSlide(id int64) (string, error) {
	var image string
	err := s.db.QueryRow(`SELECT image FROM slides WHERE id = ?`, id).Scan(&image)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if _, err := s.db.Exec(`DELETE FROM slides WHERE id = ?`, id); err != nil {
		return "", err
	}
	return image, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
