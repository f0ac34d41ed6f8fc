package decor

import (
	"errors"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test_decor.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s == nil {
		t.Fatal("store should not be nil")
	}
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestCategoryCRUD(t *testing.T) {
	s := setupTestStore(t)

	c := &Category{Name: "Đèn trang trí", Slug: "den-trang-tri"}
	if err := s.CreateCategory(c); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if c.ID == 0 {
		t.Fatal("expected ID to be assigned")
	}
	if c.CreatedAt == "" || c.UpdatedAt == "" {
		t.Fatal("expected timestamps to be assigned")
	}

	got, err := s.GetCategory(c.ID)
	if err != nil {
		t.Fatalf("GetCategory failed: %v", err)
	}
	if got.Name != c.Name {
		t.Errorf("Name = %q, want %q", got.Name, c.Name)
	}

	got.Name = "Đèn chùm"
	got.Slug = "den-chum"
	if err := s.UpdateCategory(&got); err != nil {
		t.Fatalf("UpdateCategory failed: %v", err)
	}

	if err := s.DeleteCategory(c.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	if _, err := s.GetCategory(c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCategorySlugUniqueness(t *testing.T) {
	s := setupTestStore(t)

	if err := s.CreateCategory(&Category{Name: "Đèn", Slug: "den"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	err := s.CreateCategory(&Category{Name: "Đen", Slug: "den"})
	if err == nil {
		t.Fatal("expected uniqueness violation")
	}
	var ue *UniquenessError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UniquenessError, got %T: %v", err, err)
	}
	if ue.Field != "slug" {
		t.Errorf("Field = %q, want %q", ue.Field, "slug")
	}

	cats, err := s.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(cats) != 1 {
		t.Errorf("expected 1 category after failed insert, got %d", len(cats))
	}
}

func TestCategoryRequiredFields(t *testing.T) {
	s := setupTestStore(t)

	err := s.CreateCategory(&Category{Slug: "x"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != "name" {
		t.Errorf("Field = %q, want %q", ve.Field, "name")
	}
}

func TestProductWithNestedRecords(t *testing.T) {
	s := setupTestStore(t)

	cat := &Category{Name: "Sofa", Slug: "sofa"}
	if err := s.CreateCategory(cat); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	p := &Product{
		Name:        "Sofa Góc L",
		Slug:        "sofa-goc-l",
		Description: "Sofa góc chữ L bọc nỉ",
		Price:       "12500000.00",
		Category:    &Category{ID: cat.ID},
		Variants: []ProductVariant{
			{VariantName: "Xám", ExtraPrice: "0", Stock: 3},
			{VariantName: "Be", ExtraPrice: "500000", Stock: 1},
		},
	}
	if err := s.CreateProduct(p); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	img := &ProductImage{ProductID: p.ID, Image: "products/sofa-goc-l.jpg", AltText: "Sofa", SortOrder: 0}
	if err := s.AddProductImage(img); err != nil {
		t.Fatalf("AddProductImage failed: %v", err)
	}
	review := &ProductReview{ProductID: p.ID, UserName: "Lan", Rating: 5, Comment: "Rất đẹp"}
	if err := s.AddProductReview(review); err != nil {
		t.Fatalf("AddProductReview failed: %v", err)
	}

	got, err := s.GetProductBySlug("sofa-goc-l")
	if err != nil {
		t.Fatalf("GetProductBySlug failed: %v", err)
	}
	if got.Category == nil || got.Category.Slug != "sofa" {
		t.Errorf("expected nested category, got %+v", got.Category)
	}
	if len(got.Images) != 1 || got.Images[0].Image != "products/sofa-goc-l.jpg" {
		t.Errorf("unexpected images: %+v", got.Images)
	}
	if len(got.Variants) != 2 {
		t.Errorf("expected 2 variants, got %d", len(got.Variants))
	}
	if len(got.Reviews) != 1 || got.Reviews[0].Rating != 5 {
		t.Errorf("unexpected reviews: %+v", got.Reviews)
	}
}

func TestProductDeleteCascades(t *testing.T) {
	s := setupTestStore(t)

	p := &Product{Name: "Bàn", Slug: "ban", Price: "100"}
	if err := s.CreateProduct(p); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if err := s.AddProductImage(&ProductImage{ProductID: p.ID, Image: "products/ban.jpg"}); err != nil {
		t.Fatalf("AddProductImage failed: %v", err)
	}

	paths, err := s.DeleteProduct(p.ID)
	if err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	if len(paths) != 1 || paths[0] != "products/ban.jpg" {
		t.Errorf("expected image path from delete, got %v", paths)
	}
	if _, err := s.GetProductBySlug("ban"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProductSearchAndPagination(t *testing.T) {
	s := setupTestStore(t)

	for _, name := range []string{"Đèn bàn gỗ", "Đèn chùm pha lê", "Ghế ăn"} {
		p := &Product{Name: name, Slug: Slugify(name, false), Price: "10"}
		if err := s.CreateProduct(p); err != nil {
			t.Fatalf("CreateProduct(%q) failed: %v", name, err)
		}
	}

	all, total, err := s.ListProducts("", 10, 0)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("expected 3 products, got total=%d len=%d", total, len(all))
	}

	page, total, err := s.ListProducts("", 2, 0)
	if err != nil {
		t.Fatalf("ListProducts page failed: %v", err)
	}
	if total != 3 || len(page) != 2 {
		t.Errorf("expected total 3, page of 2; got total=%d len=%d", total, len(page))
	}

	hits, total, err := s.ListProducts("đèn", 10, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 2 || len(hits) != 2 {
		t.Errorf("expected 2 search hits, got total=%d len=%d", total, len(hits))
	}
}

func TestBlogPostPublishedFiltering(t *testing.T) {
	s := setupTestStore(t)

	if err := s.CreateBlogCategory(&BlogCategory{Name: "Mẹo vặt", Slug: "meo-vat"}); err != nil {
		t.Fatalf("CreateBlogCategory failed: %v", err)
	}

	posts := []*BlogPost{
		{Title: "Bài draft", Slug: "bai-draft", Content: "x", AuthorName: "An", Status: StatusDraft},
		{Title: "Bài published", Slug: "bai-published", Content: "x", AuthorName: "An", Status: StatusPublished, PublishedAt: "2024-03-01T10:00:00Z"},
		{Title: "Bài archived", Slug: "bai-archived", Content: "x", AuthorName: "An", Status: StatusArchived},
	}
	for _, p := range posts {
		var cats []string
		if p.Status == StatusPublished {
			cats = []string{"meo-vat"}
		}
		if err := s.CreateBlogPost(p, cats); err != nil {
			t.Fatalf("CreateBlogPost(%q) failed: %v", p.Slug, err)
		}
	}

	published, total, err := s.ListBlogPosts(BlogPostFilter{PublishedOnly: true})
	if err != nil {
		t.Fatalf("ListBlogPosts failed: %v", err)
	}
	if total != 1 || len(published) != 1 || published[0].Slug != "bai-published" {
		t.Fatalf("unexpected published posts: total=%d %+v", total, published)
	}
	if len(published[0].Categories) != 1 || published[0].Categories[0].Slug != "meo-vat" {
		t.Errorf("expected category loaded, got %+v", published[0].Categories)
	}

	byCat, _, err := s.ListBlogPosts(BlogPostFilter{PublishedOnly: true, CategorySlugs: []string{"meo-vat"}})
	if err != nil {
		t.Fatalf("category filter failed: %v", err)
	}
	if len(byCat) != 1 {
		t.Errorf("expected 1 post in category, got %d", len(byCat))
	}

	if _, err := s.GetBlogPostBySlug("bai-draft", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("draft should read as not found publicly, got %v", err)
	}
	if _, err := s.GetBlogPostBySlug("bai-draft", false); err != nil {
		t.Errorf("draft should be readable for admin, got %v", err)
	}
}

func TestBlogPostDuplicateSlugLeavesNoPartialState(t *testing.T) {
	s := setupTestStore(t)

	if err := s.CreateBlogCategory(&BlogCategory{Name: "Tin", Slug: "tin"}); err != nil {
		t.Fatalf("CreateBlogCategory failed: %v", err)
	}
	first := &BlogPost{Title: "Bài một", Slug: "bai-viet", Content: "x", AuthorName: "An", Status: StatusPublished, PublishedAt: "2024-01-01T00:00:00Z"}
	if err := s.CreateBlogPost(first, nil); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	// Explicitly supplied duplicate slug: the save fails with a uniqueness
	// violation and the category link inserted in the same transaction is
	// rolled back with it.
	dup := &BlogPost{Title: "Bài hai", Slug: "bai-viet", Content: "y", AuthorName: "An", Status: StatusPublished}
	err := s.CreateBlogPost(dup, []string{"tin"})
	var ue *UniquenessError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UniquenessError, got %v", err)
	}

	all, total, err := s.ListBlogPosts(BlogPostFilter{})
	if err != nil {
		t.Fatalf("ListBlogPosts failed: %v", err)
	}
	if total != 1 || len(all) != 1 {
		t.Fatalf("expected exactly one post after failed insert, got %d", total)
	}
	if got, _ := s.GetBlogPostBySlug("bai-viet", false); got.Title != "Bài một" {
		t.Errorf("surviving post = %q, want the original", got.Title)
	}
	var links int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM blog_post_categories`).Scan(&links); err != nil {
		t.Fatalf("count links: %v", err)
	}
	if links != 0 {
		t.Errorf("expected no category links after rollback, got %d", links)
	}
}

func TestBlogPostUnknownCategoryRollsBack(t *testing.T) {
	s := setupTestStore(t)

	p := &BlogPost{Title: "Bài", Slug: "bai", Content: "x", AuthorName: "An", Status: StatusDraft}
	err := s.CreateBlogPost(p, []string{"khong-ton-tai"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	_, total, err := s.ListBlogPosts(BlogPostFilter{})
	if err != nil {
		t.Fatalf("ListBlogPosts failed: %v", err)
	}
	if total != 0 {
		t.Errorf("expected rollback to remove the post row, got %d rows", total)
	}
}

func TestBlogComments(t *testing.T) {
	s := setupTestStore(t)

	p := &BlogPost{Title: "Bài", Slug: "bai", Content: "x", AuthorName: "An", Status: StatusPublished, PublishedAt: "2024-01-01T00:00:00Z"}
	if err := s.CreateBlogPost(p, nil); err != nil {
		t.Fatalf("CreateBlogPost failed: %v", err)
	}

	c := &BlogComment{PostID: p.ID, UserName: "Minh", UserEmail: "minh@example.com", Comment: "Hay quá"}
	if err := s.AddBlogComment(c); err != nil {
		t.Fatalf("AddBlogComment failed: %v", err)
	}

	// Comment against a missing post fails the save.
	orphan := &BlogComment{PostID: 9999, UserName: "X", UserEmail: "x@example.com", Comment: "?"}
	if err := s.AddBlogComment(orphan); err == nil {
		t.Fatal("expected failure for unknown post")
	}

	got, err := s.GetBlogPostBySlug("bai", true)
	if err != nil {
		t.Fatalf("GetBlogPostBySlug failed: %v", err)
	}
	if len(got.Comments) != 1 || got.Comments[0].UserName != "Minh" {
		t.Errorf("unexpected comments: %+v", got.Comments)
	}
}

func TestContactMessageCreate(t *testing.T) {
	s := setupTestStore(t)

	m := &ContactMessage{Name: "Hà", PhoneNumber: "0901234567", Message: "Tư vấn giúp em\nbộ bàn ăn"}
	if err := s.CreateContactMessage(m); err != nil {
		t.Fatalf("CreateContactMessage failed: %v", err)
	}
	if m.ID == 0 || m.CreatedAt == "" {
		t.Fatal("expected id and created_at to be assigned")
	}

	msgs, total, err := s.ListContactMessages(10, 0)
	if err != nil {
		t.Fatalf("ListContactMessages failed: %v", err)
	}
	if total != 1 || msgs[0].Message != m.Message {
		t.Errorf("unexpected messages: total=%d %+v", total, msgs)
	}

	if err := s.CreateContactMessage(&ContactMessage{Name: "X", PhoneNumber: ""}); err == nil {
		t.Fatal("expected validation error for missing phone_number")
	}
}

func TestFAQAndSlideOrdering(t *testing.T) {
	s := setupTestStore(t)

	for i, q := range []string{"Giao hàng bao lâu?", "Có lắp đặt không?", "Bảo hành thế nào?"} {
		if err := s.CreateFAQ(&FAQ{Question: q, Answer: "...", SortOrder: 3 - i}); err != nil {
			t.Fatalf("CreateFAQ failed: %v", err)
		}
	}
	faqs, err := s.ListFAQs()
	if err != nil {
		t.Fatalf("ListFAQs failed: %v", err)
	}
	if len(faqs) != 3 || faqs[0].Question != "Bảo hành thế nào?" {
		t.Errorf("expected sort_order ordering, got %+v", faqs)
	}

	if err := s.CreateSlide(&Slide{Title: "Khuyến mãi", Image: "slides/km.jpg", SortOrder: 2}); err != nil {
		t.Fatalf("CreateSlide failed: %v", err)
	}
	if err := s.CreateSlide(&Slide{Title: "Bộ sưu tập", Image: "slides/bst.jpg", SortOrder: 1}); err != nil {
		t.Fatalf("CreateSlide failed: %v", err)
	}
	slides, err := s.ListSlides()
	if err != nil {
		t.Fatalf("ListSlides failed: %v", err)
	}
	if len(slides) != 2 || slides[0].Title != "Bộ sưu tập" {
		t.Errorf("expected sort_order ordering, got %+v", slides)
	}
}

func TestContactInfoTypeValidation(t *testing.T) {
	s := setupTestStore(t)

	if err := s.CreateContactInfo(&ContactInfo{Type: "zalo", Name: "Zalo shop", Value: "0901234567"}); err != nil {
		t.Fatalf("CreateContactInfo failed: %v", err)
	}
	err := s.CreateContactInfo(&ContactInfo{Type: "telegram", Name: "nope"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for unknown type, got %v", err)
	}
}

func TestPageSlugUniqueness(t *testing.T) {
	s := setupTestStore(t)

	if err := s.CreatePage(&Page{Slug: "gioi-thieu", Title: "Giới thiệu", Content: "..."}); err != nil {
		t.Fatalf("CreatePage failed: %v", err)
	}
	err := s.CreatePage(&Page{Slug: "gioi-thieu", Title: "Khác", Content: "..."})
	if !IsUniqueness(err) {
		t.Fatalf("expected uniqueness violation, got %v", err)
	}
}
