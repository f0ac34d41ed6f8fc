package decor

import "time"

// Pipeline sits between "entity received for save" and the Store. Before
// persisting it fills empty slug fields from the entity's title and runs
// raw uploads through the image normalizer. The composition is explicit at
// every call site: persist(normalizeImages(deriveSlug(entity))). Both
// augmentations are independent; if persistence fails the augmented values
// are discarded with the rest of the write and any media file written for
// the attempt is removed.
type Pipeline struct {
	store       *Store
	media       *MediaStore
	maxWidth    int
	maxHeight   int
	quality     int
	slugUnicode bool
}

func NewPipeline(store *Store, media *MediaStore, cfg Config) *Pipeline {
	return &Pipeline{
		store:       store,
		media:       media,
		maxWidth:    cfg.ImageMaxWidth,
		maxHeight:   cfg.ImageMaxHeight,
		quality:     cfg.ImageQuality,
		slugUnicode: cfg.SlugUnicode,
	}
}

// deriveSlug fills slug from title when the caller supplied none. It never
// checks for collisions; a duplicate derived slug fails at persistence with
// a UniquenessError and the caller must supply a distinct slug.
func (pl *Pipeline) deriveSlug(slug, title string) string {
	if slug != "" {
		return slug
	}
	return Slugify(title, pl.slugUnicode)
}

// normalizeUpload runs an upload through the image normalizer unless its
// filename already carries the target extension, in which case the bytes
// pass through untouched (the idempotence rule is enforced here, not in
// the normalizer).
func (pl *Pipeline) normalizeUpload(u Upload) (string, []byte, error) {
	if IsNormalized(u.Name) {
		return u.Name, u.Data, nil
	}
	img, err := NormalizeImage(u.Data, u.Name, pl.maxWidth, pl.maxHeight, pl.quality)
	if err != nil {
		return "", nil, err
	}
	return img.Filename, img.Data, nil
}

// stage writes a normalized upload into the media subdir and returns its
// media-relative path. The caller must Remove it if persistence fails.
func (pl *Pipeline) stage(subdir string, u Upload) (string, error) {
	name, data, err := pl.normalizeUpload(u)
	if err != nil {
		return "", err
	}
	return pl.media.Save(subdir, name, data)
}

// SaveCategory derives the slug if absent and persists.
func (pl *Pipeline) SaveCategory(c *Category, create bool) error {
	c.Slug = pl.deriveSlug(c.Slug, c.Name)
	if create {
		return pl.store.CreateCategory(c)
	}
	return pl.store.UpdateCategory(c)
}

// SaveProduct derives the slug if absent and persists product plus
// variants atomically.
func (pl *Pipeline) SaveProduct(p *Product, create bool) error {
	p.Slug = pl.deriveSlug(p.Slug, p.Name)
	if create {
		return pl.store.CreateProduct(p)
	}
	return pl.store.UpdateProduct(p)
}

// SaveProductImage normalizes the upload, writes it to media, and attaches
// the record to the product. The media file is removed again if the insert
// fails, so no half-processed image survives a failed save.
func (pl *Pipeline) SaveProductImage(img *ProductImage, u Upload) error {
	path, err := pl.stage("products", u)
	if err != nil {
		return err
	}
	img.Image = path
	if err := pl.store.AddProductImage(img); err != nil {
		pl.media.Remove(path)
		return err
	}
	return nil
}

// SavePage derives the slug from the title if absent and persists.
func (pl *Pipeline) SavePage(p *Page, create bool) error {
	p.Slug = pl.deriveSlug(p.Slug, p.Title)
	if create {
		return pl.store.CreatePage(p)
	}
	return pl.store.UpdatePage(p)
}

// SaveBlogCategory derives the slug if absent and persists.
func (pl *Pipeline) SaveBlogCategory(c *BlogCategory, create bool) error {
	c.Slug = pl.deriveSlug(c.Slug, c.Name)
	if create {
		return pl.store.CreateBlogCategory(c)
	}
	return pl.store.UpdateBlogCategory(c)
}

// SaveBlogPost applies both augmentations — slug derivation from the title
// and thumbnail normalization — then persists post and category links in
// one transaction. A post moving to published without a publication
// timestamp is stamped now.
func (pl *Pipeline) SaveBlogPost(p *BlogPost, categorySlugs []string, thumbnail *Upload, create bool) error {
	p.Slug = pl.deriveSlug(p.Slug, p.Title)
	if p.Status == StatusPublished && p.PublishedAt == "" {
		p.PublishedAt = time.Now().UTC().Format(time.RFC3339)
	}

	oldThumbnail := p.Thumbnail
	staged := ""
	if thumbnail != nil {
		path, err := pl.stage("blog", *thumbnail)
		if err != nil {
			return err
		}
		staged = path
		p.Thumbnail = path
	}

	var err error
	if create {
		err = pl.store.CreateBlogPost(p, categorySlugs)
	} else {
		err = pl.store.UpdateBlogPost(p, categorySlugs)
	}
	if err != nil {
		if staged != "" {
			pl.media.Remove(staged)
			p.Thumbnail = oldThumbnail
		}
		return err
	}
	if staged != "" && oldThumbnail != "" && oldThumbnail != staged {
		pl.media.Remove(oldThumbnail)
	}
	return nil
}

// SaveSlide normalizes the slide image (required on create, optional on
// update) and persists.
func (pl *Pipeline) SaveSlide(sl *Slide, u *Upload, create bool) error {
	oldImage := sl.Image
	staged := ""
	if u != nil {
		path, err := pl.stage("slides", *u)
		if err != nil {
			return err
		}
		staged = path
		sl.Image = path
	}

	var err error
	if create {
		err = pl.store.CreateSlide(sl)
	} else {
		err = pl.store.UpdateSlide(sl)
	}
	if err != nil {
		if staged != "" {
			pl.media.Remove(staged)
			sl.Image = oldImage
		}
		return err
	}
	if staged != "" && oldImage != "" && oldImage != staged {
		pl.media.Remove(oldImage)
	}
	return nil
}

// SaveContactInfo normalizes the optional icon image and persists.
func (pl *Pipeline) SaveContactInfo(ci *ContactInfo, u *Upload, create bool) error {
	oldImage := ci.Image
	staged := ""
	if u != nil {
		path, err := pl.stage("contact", *u)
		if err != nil {
			return err
		}
		staged = path
		ci.Image = path
	}

	var err error
	if create {
		err = pl.store.CreateContactInfo(ci)
	} else {
		err = pl.store.UpdateContactInfo(ci)
	}
	if err != nil {
		if staged != "" {
			pl.media.Remove(staged)
			ci.Image = oldImage
		}
		return err
	}
	if staged != "" && oldImage != "" && oldImage != staged {
		pl.media.Remove(oldImage)
	}
	return nil
}
