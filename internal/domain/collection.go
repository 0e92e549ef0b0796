package domain

type Collection string

func (c Collection) String() string {
	return string(c)
}

const (
	CollectionCategories   Collection = "categories"
	CollectionProducts     Collection = "products"
	CollectionHeroSlides   Collection = "hero_slides"
	CollectionTestimonials Collection = "testimonials"
	CollectionGiftBoxes    Collection = "gift_boxes"
	CollectionSiteSettings Collection = "site_settings"
)

// CatalogCollections lists the collections written by the seeder.
var CatalogCollections = []Collection{
	CollectionCategories,
	CollectionProducts,
	CollectionHeroSlides,
	CollectionTestimonials,
	CollectionGiftBoxes,
}

// SeedMarker is the collection whose emptiness decides whether the store is seeded.
const SeedMarker = CollectionCategories

func (c Collection) DisplayName() string {
	switch c {
	case CollectionCategories:
		return "Categories"
	case CollectionProducts:
		return "Products"
	case CollectionHeroSlides:
		return "Hero slides"
	case CollectionTestimonials:
		return "Testimonials"
	case CollectionGiftBoxes:
		return "Gift boxes"
	case CollectionSiteSettings:
		return "Site settings"
	default:
		return "Unknown"
	}
}

// ResponseKey is the camelCase name used for per-collection counts in API payloads.
func (c Collection) ResponseKey() string {
	switch c {
	case CollectionCategories:
		return "categories"
	case CollectionProducts:
		return "products"
	case CollectionHeroSlides:
		return "heroSlides"
	case CollectionTestimonials:
		return "testimonials"
	case CollectionGiftBoxes:
		return "giftBoxes"
	case CollectionSiteSettings:
		return "siteSettings"
	default:
		return c.String()
	}
}

func (c Collection) IsValid() bool {
	switch c {
	case CollectionCategories, CollectionProducts, CollectionHeroSlides,
		CollectionTestimonials, CollectionGiftBoxes, CollectionSiteSettings:
		return true
	default:
		return false
	}
}
