// Package dataset holds the fixed reference catalog provisioned by the seeder.
// The catalog is embedded in the binary, decoded and validated once per
// process, and handed out as copies so callers cannot alter it.
package dataset

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"dryfruto/storefront/internal/domain"

	"github.com/google/uuid"
)

//go:embed catalog.json
var catalogJSON []byte

// idNamespace seeds the UUIDv5 ids so every process derives the same ids.
var idNamespace = uuid.MustParse("6f1c9a52-3b0e-4d8a-9c61-2f7d5e8b4a10")

// ExpectedCounts is the number of documents the default dataset provides per collection.
var ExpectedCounts = map[domain.Collection]int{
	domain.CollectionCategories:   6,
	domain.CollectionProducts:     12,
	domain.CollectionHeroSlides:   3,
	domain.CollectionTestimonials: 6,
	domain.CollectionGiftBoxes:    6,
}

var ErrInvalidDataset = errors.New("invalid dataset")

type Dataset struct {
	Categories   []domain.Category
	Products     []domain.Product
	HeroSlides   []domain.HeroSlide
	Testimonials []domain.Testimonial
	GiftBoxes    []domain.GiftBox
}

type rawCatalog struct {
	Categories []struct {
		Slug        string `json:"slug"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		Icon        string `json:"icon"`
		Description string `json:"description"`
	} `json:"categories"`
	Products []struct {
		Slug        string  `json:"slug"`
		Name        string  `json:"name"`
		Category    string  `json:"category"`
		BasePrice   float64 `json:"basePrice"`
		Image       string  `json:"image"`
		Description string  `json:"description"`
		Weight      string  `json:"weight"`
		Rating      float64 `json:"rating"`
		Badge       string  `json:"badge"`
	} `json:"products"`
	HeroSlides []struct {
		Key         string `json:"key"`
		Title       string `json:"title"`
		Subtitle    string `json:"subtitle"`
		Description string `json:"description"`
		Image       string `json:"image"`
		CTA         string `json:"cta"`
	} `json:"heroSlides"`
	Testimonials []struct {
		Key      string `json:"key"`
		Name     string `json:"name"`
		Review   string `json:"review"`
		Avatar   string `json:"avatar"`
		Location string `json:"location"`
		Rating   int    `json:"rating"`
	} `json:"testimonials"`
	GiftBoxes []struct {
		Key         string  `json:"key"`
		Name        string  `json:"name"`
		Image       string  `json:"image"`
		Price       float64 `json:"price"`
		Description string  `json:"description"`
	} `json:"giftBoxes"`
}

var (
	defaultOnce sync.Once
	defaultSet  *Dataset
	defaultErr  error
)

// Default returns a copy of the embedded reference dataset.
func Default() (*Dataset, error) {
	defaultOnce.Do(func() {
		defaultSet, defaultErr = Parse(catalogJSON)
		if defaultErr == nil {
			defaultErr = defaultSet.Validate()
		}
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return defaultSet.Clone(), nil
}

// DocumentID derives the stable id of the document identified by key in c.
func DocumentID(c domain.Collection, key string) string {
	return uuid.NewSHA1(idNamespace, []byte(c.String()+"/"+key)).String()
}

// Parse decodes a catalog document. It does not validate it.
func Parse(data []byte) (*Dataset, error) {
	var raw rawCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	d := &Dataset{}
	for i, c := range raw.Categories {
		d.Categories = append(d.Categories, domain.Category{
			ID:          DocumentID(domain.CollectionCategories, c.Slug),
			Name:        c.Name,
			Slug:        c.Slug,
			Image:       c.Image,
			Icon:        c.Icon,
			Description: c.Description,
			Order:       i,
		})
	}
	for i, p := range raw.Products {
		d.Products = append(d.Products, domain.Product{
			ID:          DocumentID(domain.CollectionProducts, p.Slug),
			Name:        p.Name,
			Slug:        p.Slug,
			Category:    p.Category,
			BasePrice:   p.BasePrice,
			Image:       p.Image,
			Description: p.Description,
			Weight:      p.Weight,
			Rating:      p.Rating,
			Badge:       p.Badge,
			Order:       i,
		})
	}
	for i, s := range raw.HeroSlides {
		d.HeroSlides = append(d.HeroSlides, domain.HeroSlide{
			ID:          DocumentID(domain.CollectionHeroSlides, s.Key),
			Title:       s.Title,
			Subtitle:    s.Subtitle,
			Description: s.Description,
			Image:       s.Image,
			CTA:         s.CTA,
			Order:       i,
		})
	}
	for i, t := range raw.Testimonials {
		d.Testimonials = append(d.Testimonials, domain.Testimonial{
			ID:       DocumentID(domain.CollectionTestimonials, t.Key),
			Name:     t.Name,
			Review:   t.Review,
			Avatar:   t.Avatar,
			Location: t.Location,
			Rating:   t.Rating,
			Order:    i,
		})
	}
	for i, g := range raw.GiftBoxes {
		d.GiftBoxes = append(d.GiftBoxes, domain.GiftBox{
			ID:          DocumentID(domain.CollectionGiftBoxes, g.Key),
			Name:        g.Name,
			Image:       g.Image,
			Price:       g.Price,
			Description: g.Description,
			Order:       i,
		})
	}
	return d, nil
}

// Validate checks cardinalities, required fields, slug uniqueness, prices and
// product category references.
func (d *Dataset) Validate() error {
	var problems []string
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	for c, want := range ExpectedCounts {
		if got := d.Count(c); got != want {
			fail("%s: expected %d documents, got %d", c, want, got)
		}
	}

	ids := make(map[string]struct{})
	checkID := func(c domain.Collection, id string) {
		if _, dup := ids[id]; dup {
			fail("%s: duplicate id %s", c, id)
		}
		ids[id] = struct{}{}
	}

	categorySlugs := make(map[string]struct{}, len(d.Categories))
	for _, c := range d.Categories {
		checkID(domain.CollectionCategories, c.ID)
		if blank(c.Name, c.Slug, c.Image, c.Icon) {
			fail("category %q: missing required field", c.Slug)
		}
		if _, dup := categorySlugs[c.Slug]; dup {
			fail("category %q: duplicate slug", c.Slug)
		}
		categorySlugs[c.Slug] = struct{}{}
	}

	productSlugs := make(map[string]struct{}, len(d.Products))
	for _, p := range d.Products {
		checkID(domain.CollectionProducts, p.ID)
		if blank(p.Name, p.Slug, p.Category, p.Image) {
			fail("product %q: missing required field", p.Slug)
		}
		if _, dup := productSlugs[p.Slug]; dup {
			fail("product %q: duplicate slug", p.Slug)
		}
		productSlugs[p.Slug] = struct{}{}
		if _, ok := categorySlugs[p.Category]; !ok {
			fail("product %q: unknown category %q", p.Slug, p.Category)
		}
		if p.BasePrice < 0 {
			fail("product %q: negative base price", p.Slug)
		}
	}

	for _, s := range d.HeroSlides {
		checkID(domain.CollectionHeroSlides, s.ID)
		if blank(s.Title, s.Subtitle, s.Description, s.Image, s.CTA) {
			fail("hero slide %q: missing required field", s.Title)
		}
	}
	for _, t := range d.Testimonials {
		checkID(domain.CollectionTestimonials, t.ID)
		if blank(t.Name, t.Review, t.Avatar) {
			fail("testimonial %q: missing required field", t.Name)
		}
	}
	for _, g := range d.GiftBoxes {
		checkID(domain.CollectionGiftBoxes, g.ID)
		if blank(g.Name, g.Image) {
			fail("gift box %q: missing required field", g.Name)
		}
		if g.Price < 0 {
			fail("gift box %q: negative price", g.Name)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDataset, strings.Join(problems, "; "))
	}
	return nil
}

func (d *Dataset) Count(c domain.Collection) int {
	switch c {
	case domain.CollectionCategories:
		return len(d.Categories)
	case domain.CollectionProducts:
		return len(d.Products)
	case domain.CollectionHeroSlides:
		return len(d.HeroSlides)
	case domain.CollectionTestimonials:
		return len(d.Testimonials)
	case domain.CollectionGiftBoxes:
		return len(d.GiftBoxes)
	default:
		return 0
	}
}

// Documents returns the documents of c ready for a bulk insert.
func (d *Dataset) Documents(c domain.Collection) []any {
	return d.MissingDocuments(c, nil)
}

// MissingDocuments returns the documents of c whose ids are not in present.
func (d *Dataset) MissingDocuments(c domain.Collection, present map[string]struct{}) []any {
	var docs []any
	add := func(id string, v any) {
		if _, ok := present[id]; !ok {
			docs = append(docs, v)
		}
	}
	switch c {
	case domain.CollectionCategories:
		for _, v := range d.Categories {
			add(v.ID, v)
		}
	case domain.CollectionProducts:
		for _, v := range d.Products {
			add(v.ID, v)
		}
	case domain.CollectionHeroSlides:
		for _, v := range d.HeroSlides {
			add(v.ID, v)
		}
	case domain.CollectionTestimonials:
		for _, v := range d.Testimonials {
			add(v.ID, v)
		}
	case domain.CollectionGiftBoxes:
		for _, v := range d.GiftBoxes {
			add(v.ID, v)
		}
	}
	return docs
}

func (d *Dataset) Clone() *Dataset {
	return &Dataset{
		Categories:   append([]domain.Category(nil), d.Categories...),
		Products:     append([]domain.Product(nil), d.Products...),
		HeroSlides:   append([]domain.HeroSlide(nil), d.HeroSlides...),
		Testimonials: append([]domain.Testimonial(nil), d.Testimonials...),
		GiftBoxes:    append([]domain.GiftBox(nil), d.GiftBoxes...),
	}
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
