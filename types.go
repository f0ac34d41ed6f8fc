package decor

// Entity types stored in SQLite and serialized by the JSON API. Field names
// and nesting mirror what the storefront consumes: a product carries its
// category, images, variants and reviews inline; a blog post carries its
// categories and comments.

// Category groups products. Slug is unique and derived from the name when
// not supplied.
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Product is the core catalog entity. Price is a decimal carried as a
// string; the backend never does arithmetic on it.
type Product struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	Price       string           `json:"price"`
	Category    *Category        `json:"category"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
	Images      []ProductImage   `json:"images"`
	Variants    []ProductVariant `json:"variants"`
	Reviews     []ProductReview  `json:"reviews"`
}

// ProductImage references a normalized image on disk via a media-relative
// path. Once persisted the file is always in the normalized encoding.
type ProductImage struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"-"`
	Image     string `json:"image"`
	AltText   string `json:"alt_text"`
	SortOrder int    `json:"sort_order"`
}

type ProductVariant struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"-"`
	VariantName string `json:"variant_name"`
	ExtraPrice  string `json:"extra_price"`
	Stock       int    `json:"stock"`
}

type ProductReview struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"-"`
	UserName  string `json:"user_name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

// Page is a static content page addressed by slug.
type Page struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ContactMessage is created once via the public form and never updated.
// A successful insert is the sole trigger of the sheets notifier.
type ContactMessage struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
	CreatedAt   string `json:"created_at"`
}

type BlogCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Blog post statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

type BlogPost struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Thumbnail   string         `json:"thumbnail"`
	Description string         `json:"description"`
	Content     string         `json:"content"`
	AuthorName  string         `json:"author_name"`
	Status      string         `json:"status"`
	PublishedAt string         `json:"published_at,omitempty"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	Categories  []BlogCategory `json:"categories"`
	Comments    []BlogComment  `json:"comments,omitempty"`
}

type BlogComment struct {
	ID        int64  `json:"id"`
	PostID    int64  `json:"post"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

type FAQ struct {
	ID        int64  `json:"id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	SortOrder int    `json:"sort_order"`
}

// ContactInfoTypes are the accepted values for ContactInfo.Type.
var ContactInfoTypes = []string{
	"location", "email", "phone", "facebook", "tiktok", "instagram", "zalo",
}

type ContactInfo struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Name      string `json:"name"`
	Value     string `json:"value"`
	Image     string `json:"image"`
	CreatedAt string `json:"-"`
}

type Slide struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Image     string `json:"image"`
	Link      string `json:"link"`
	SortOrder int    `json:"sort_order"`
}

// Upload is a raw file received from a multipart form, before it has been
// through the normalization pipeline.
type Upload struct {
	Name string
	Data []byte
}
