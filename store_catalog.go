package decor

import (
	"database/sql"
	"errors"
)

// --- Categories ---

// ListCategories returns all product categories ordered by name.
func (s *Store) ListCategories() ([]Category, error) {
	rows, err := s.db.Query(`SELECT id, name, slug, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *Store) GetCategory(id int64) (Category, error) {
	var c Category
	err := s.db.QueryRow(`SELECT id, name, slug, created_at, updated_at FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	return c, err
}

// CreateCategory inserts a category and fills its ID and timestamps.
func (s *Store) CreateCategory(c *Category) error {
	if err := required("name", c.Name); err != nil {
		return err
	}
	if err := required("slug", c.Slug); err != nil {
		return err
	}
	ts := now()
	res, err := s.db.Exec(`INSERT INTO categories (name, slug, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		c.Name, c.Slug, ts, ts)
	if err != nil {
		return mapConstraint(err)
	}
	c.ID, _ = res.LastInsertId()
	c.CreatedAt, c.UpdatedAt = ts, ts
	return nil
}

func (s *Store) UpdateCategory(c *Category) error {
	if err := required("name", c.Name); err != nil {
		return err
	}
	if err := required("slug", c.Slug); err != nil {
		return err
	}
	c.UpdatedAt = now()
	res, err := s.db.Exec(`UPDATE categories SET name = ?, slug = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Slug, c.UpdatedAt, c.ID)
	if err != nil {
		return mapConstraint(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCategory(id int64) error {
	res, err := s.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Products ---

const productCols = `p.id, p.name, p.slug, p.category_id, p.description, p.price, p.created_at, p.updated_at`

func scanProduct(scan func(dest ...any) error) (Product, error) {
	var p Product
	var categoryID sql.NullInt64
	if err := scan(&p.ID, &p.Name, &p.Slug, &categoryID, &p.Description, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Product{}, err
	}
	if categoryID.Valid {
		p.Category = &Category{ID: categoryID.Int64}
	}
	return p, nil
}

// ListProducts returns products newest-first, optionally matching a search
// term over name and description, with the total count for pagination.
// Nested images, variants, reviews and category come inline.
func (s *Store) ListProducts(search string, limit, offset int) ([]Product, int, error) {
	where := ``
	args := []any{}
	if search != "" {
		where = ` WHERE lower(p.name) LIKE ? OR lower(p.description) LIKE ?`
		pat := likePattern(search)
		args = append(args, pat, pat)
	}

	total, err := count(s.db, `SELECT COUNT(*) FROM products p`+where, args...)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`SELECT `+productCols+` FROM products p`+where+
		` ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range products {
		if err := s.loadProductRelations(&products[i]); err != nil {
			return nil, 0, err
		}
	}
	return products, total, nil
}

// GetProductBySlug returns a single product with all nested records.
func (s *Store) GetProductBySlug(slug string) (Product, error) {
	p, err := scanProduct(s.db.QueryRow(`SELECT `+productCols+` FROM products p WHERE p.slug = ?`, slug).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	if err := s.loadProductRelations(&p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Store) GetProduct(id int64) (Product, error) {
	p, err := scanProduct(s.db.QueryRow(`SELECT `+productCols+` FROM products p WHERE p.id = ?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	if err := s.loadProductRelations(&p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Store) loadProductRelations(p *Product) error {
	if p.Category != nil {
		c, err := s.GetCategory(p.Category.ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if err == nil {
			p.Category = &c
		} else {
			p.Category = nil
		}
	}

	rows, err := s.db.Query(`SELECT id, product_id, image, alt_text, sort_order FROM product_images WHERE product_id = ? ORDER BY sort_order, id`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	p.Images = []ProductImage{}
	for rows.Next() {
		var img ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.Image, &img.AltText, &img.SortOrder); err != nil {
			return err
		}
		p.Images = append(p.Images, img)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	vrows, err := s.db.Query(`SELECT id, product_id, variant_name, extra_price, stock FROM product_variants WHERE product_id = ? ORDER BY id`, p.ID)
	if err != nil {
		return err
	}
	defer vrows.Close()
	p.Variants = []ProductVariant{}
	for vrows.Next() {
		var v ProductVariant
		if err := vrows.Scan(&v.ID, &v.ProductID, &v.VariantName, &v.ExtraPrice, &v.Stock); err != nil {
			return err
		}
		p.Variants = append(p.Variants, v)
	}
	if err := vrows.Err(); err != nil {
		return err
	}

	rrows, err := s.db.Query(`SELECT id, product_id, user_name, rating, comment, created_at FROM product_reviews WHERE product_id = ? ORDER BY created_at DESC, id DESC`, p.ID)
	if err != nil {
		return err
	}
	defer rrows.Close()
	p.Reviews = []ProductReview{}
	for rrows.Next() {
		var r ProductReview
		if err := rrows.Scan(&r.ID, &r.ProductID, &r.UserName, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return err
		}
		p.Reviews = append(p.Reviews, r)
	}
	return rrows.Err()
}

// CreateProduct inserts a product together with its variants in one
// transaction; a constraint failure on any row rolls the whole save back.
func (s *Store) CreateProduct(p *Product) error {
	if err := required("name", p.Name); err != nil {
		return err
	}
	if err := required("slug", p.Slug); err != nil {
		return err
	}
	if err := required("price", p.Price); err != nil {
		return err
	}
	ts := now()
	return s.inTx(func(tx *sql.Tx) error {
		var categoryID any
		if p.Category != nil {
			categoryID = p.Category.ID
		}
		res, err := tx.Exec(`INSERT INTO products (name, slug, category_id, description, price, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.Name, p.Slug, categoryID, p.Description, p.Price, ts, ts)
		if err != nil {
			return err
		}
		p.ID, _ = res.LastInsertId()
		p.CreatedAt, p.UpdatedAt = ts, ts
		return insertVariants(tx, p.ID, p.Variants)
	})
}

// UpdateProduct rewrites the product row and replaces its variants.
func (s *Store) UpdateProduct(p *Product) error {
	if err := required("name", p.Name); err != nil {
		return err
	}
	if err := required("slug", p.Slug); err != nil {
		return err
	}
	if err := required("price", p.Price); err != nil {
		return err
	}
	p.UpdatedAt = now()
	return s.inTx(func(tx *sql.Tx) error {
		var categoryID any
		if p.Category != nil {
			categoryID = p.Category.ID
		}
		res, err := tx.Exec(`UPDATE products SET name = ?, slug = ?, category_id = ?, description = ?, price = ?, updated_at = ? WHERE id = ?`,
			p.Name, p.Slug, categoryID, p.Description, p.Price, p.UpdatedAt, p.ID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		if _, err := tx.Exec(`DELETE FROM product_variants WHERE product_id = ?`, p.ID); err != nil {
			return err
		}
		return insertVariants(tx, p.ID, p.Variants)
	})
}

func insertVariants(tx *sql.Tx, productID int64, variants []ProductVariant) error {
	for i := range variants {
		v := &variants[i]
		if v.VariantName == "" {
			return &ValidationError{Field: "variant_name", Reason: "this field is required"}
		}
		if v.ExtraPrice == "" {
			v.ExtraPrice = "0"
		}
		res, err := tx.Exec(`INSERT INTO product_variants (product_id, variant_name, extra_price, stock) VALUES (?, ?, ?, ?)`,
			productID, v.VariantName, v.ExtraPrice, v.Stock)
		if err != nil {
			return err
		}
		v.ID, _ = res.LastInsertId()
		v.ProductID = productID
	}
	return nil
}

// DeleteProduct removes the product and, via cascade, its images, variants
// and reviews. It returns the media paths of the deleted images so the
// caller can clean up files.
func (s *Store) DeleteProduct(id int64) ([]string, error) {
	var paths []string
	rows, err := s.db.Query(`SELECT image FROM product_images WHERE product_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	res, err := s.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return paths, nil
}

// AddProductImage attaches a normalized image record to a product.
func (s *Store) AddProductImage(img *ProductImage) error {
	if err := required("image", img.Image); err != nil {
		return err
	}
	if img.SortOrder < 0 {
		return &ValidationError{Field: "sort_order", Reason: "must not be negative"}
	}
	res, err := s.db.Exec(`INSERT INTO product_images (product_id, image, alt_text, sort_order) VALUES (?, ?, ?, ?)`,
		img.ProductID, img.Image, img.AltText, img.SortOrder)
	if err != nil {
		return mapConstraint(err)
	}
	img.ID, _ = res.LastInsertId()
	return nil
}

// DeleteProductImage removes an image record and returns its media path.
func (s *Store) DeleteProductImage(id int64) (string, error) {
	var path string
	err := s.db.QueryRow(`SELECT image FROM product_images WHERE id = ?`, id).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if _, err := s.db.Exec(`DELETE FROM product_images WHERE id = ?`, id); err != nil {
		return "", err
	}
	return path, nil
}

// AddProductReview stores a curated review for a product.
func (s *Store) AddProductReview(r *ProductReview) error {
	if err := required("user_name", r.UserName); err != nil {
		return err
	}
	if r.Rating < 1 || r.Rating > 5 {
		return &ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}
	r.CreatedAt = now()
	res, err := s.db.Exec(`INSERT INTO product_reviews (product_id, user_name, rating, comment, created_at) VALUES (?, ?, ?, ?, ?)`,
		r.ProductID, r.UserName, r.Rating, r.Comment, r.CreatedAt)
	if err != nil {
		return mapConstraint(err)
	}
	r.ID, _ = res.LastInsertId()
	return nil
}
