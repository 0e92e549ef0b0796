package domain

// Category groups products on the storefront.
type Category struct {
	ID          string `json:"id" bson:"_id"`
	Name        string `json:"name" bson:"name"`
	Slug        string `json:"slug" bson:"slug"`                                   // unique within categories
	Image       string `json:"image" bson:"image"`                                 // banner image URL
	Icon        string `json:"icon" bson:"icon"`                                   // round thumbnail URL
	Description string `json:"description,omitempty" bson:"description,omitempty"` // shown on category pages
	Order       int    `json:"order" bson:"order"`                                 // insertion position
}

type Product struct {
	ID          string  `json:"id" bson:"_id"`
	Name        string  `json:"name" bson:"name"`
	Slug        string  `json:"slug" bson:"slug"`
	Category    string  `json:"category" bson:"category"` // category slug
	BasePrice   float64 `json:"basePrice" bson:"basePrice"`
	Image       string  `json:"image" bson:"image"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Weight      string  `json:"weight,omitempty" bson:"weight,omitempty"` // base pack size, e.g. "250g"
	Rating      float64 `json:"rating,omitempty" bson:"rating,omitempty"`
	Badge       string  `json:"badge,omitempty" bson:"badge,omitempty"`
	Order       int     `json:"order" bson:"order"`
}

type HeroSlide struct {
	ID          string `json:"id" bson:"_id"`
	Title       string `json:"title" bson:"title"`
	Subtitle    string `json:"subtitle" bson:"subtitle"`
	Description string `json:"description" bson:"description"`
	Image       string `json:"image" bson:"image"`
	CTA         string `json:"cta" bson:"cta"` // call-to-action button label
	Order       int    `json:"order" bson:"order"`
}

type Testimonial struct {
	ID       string `json:"id" bson:"_id"`
	Name     string `json:"name" bson:"name"`
	Review   string `json:"review" bson:"review"`
	Avatar   string `json:"avatar" bson:"avatar"`
	Location string `json:"location,omitempty" bson:"location,omitempty"`
	Rating   int    `json:"rating,omitempty" bson:"rating,omitempty"`
	Order    int    `json:"order" bson:"order"`
}

type GiftBox struct {
	ID          string  `json:"id" bson:"_id"`
	Name        string  `json:"name" bson:"name"`
	Image       string  `json:"image" bson:"image"`
	Price       float64 `json:"price" bson:"price"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Order       int     `json:"order" bson:"order"`
}
