package service

import (
	"context"

	"dryfruto/storefront/internal/domain"
	"dryfruto/storefront/internal/repository"
)

// Catalog reads the seeded storefront collections.
type Catalog struct {
	repository repository.CatalogRepository
}

func NewCatalog(repository repository.CatalogRepository) *Catalog {
	return &Catalog{repository: repository}
}

func (c *Catalog) Categories(ctx context.Context) ([]domain.Category, error) {
	return listAll[domain.Category](ctx, c.repository, domain.CollectionCategories)
}

// Products lists every product, or only those in categorySlug when it is set.
func (c *Catalog) Products(ctx context.Context, categorySlug string) ([]domain.Product, error) {
	products, err := listAll[domain.Product](ctx, c.repository, domain.CollectionProducts)
	if err != nil || categorySlug == "" {
		return products, err
	}

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Category == categorySlug {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (c *Catalog) HeroSlides(ctx context.Context) ([]domain.HeroSlide, error) {
	return listAll[domain.HeroSlide](ctx, c.repository, domain.CollectionHeroSlides)
}

func (c *Catalog) Testimonials(ctx context.Context) ([]domain.Testimonial, error) {
	return listAll[domain.Testimonial](ctx, c.repository, domain.CollectionTestimonials)
}

func (c *Catalog) GiftBoxes(ctx context.Context) ([]domain.GiftBox, error) {
	return listAll[domain.GiftBox](ctx, c.repository, domain.CollectionGiftBoxes)
}

func listAll[T any](ctx context.Context, repo repository.CatalogRepository, coll domain.Collection) ([]T, error) {
	items := make([]T, 0)
	if err := repo.FindAll(ctx, coll, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = make([]T, 0)
	}
	return items, nil
}
