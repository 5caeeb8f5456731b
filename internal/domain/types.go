package domain

import (
	"time"
)

// ListingType is the category a listing is published under.
type ListingType string

const (
	TypeLancamento ListingType = "lancamento"
	TypeNaPlanta   ListingType = "na_planta"
	TypeAluguel    ListingType = "aluguel"
)

// ListingTypes returns every known listing type in menu order.
func ListingTypes() []ListingType {
	return []ListingType{TypeLancamento, TypeNaPlanta, TypeAluguel}
}

func (t ListingType) Valid() bool {
	switch t {
	case TypeLancamento, TypeNaPlanta, TypeAluguel:
		return true
	}
	return false
}

// Listing is a real-estate property published on the site. ImageURLs keeps
// the display order chosen by the admin.
type Listing struct {
	ID          string      `json:"id"`
	Type        ListingType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       string      `json:"price"`
	Location    string      `json:"location"`
	Bedrooms    Count       `json:"bedrooms"`
	Bathrooms   Count       `json:"bathrooms"`
	Garage      Count       `json:"garage"`
	Area        string      `json:"area"`
	Pool        bool        `json:"pool"`
	ImageURLs   []string    `json:"image_urls"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// SiteConfig holds the branding and contact settings rendered by the public
// site. Version is bumped on every successful write and guards concurrent
// writers.
type SiteConfig struct {
	ID             string    `json:"id,omitempty"`
	SiteName       string    `json:"site_name"`
	MainColor      string    `json:"main_color"`
	SecondaryColor string    `json:"secondary_color"`
	TextColor      string    `json:"text_color"`
	LogoURL        string    `json:"logo_url"`
	LogoWidth      string    `json:"logo_width"`
	LogoHeight     string    `json:"logo_height"`
	SiteNameSize   string    `json:"site_name_size"`
	SiteNameAlign  string    `json:"site_name_align"`
	Phone          string    `json:"phone"`
	CompanyEmail   string    `json:"company_email"`
	CompanyAddress string    `json:"company_address"`
	WhatsappLink   string    `json:"whatsapp_link"`
	InstagramLink  string    `json:"instagram_link"`
	FacebookLink   string    `json:"facebook_link"`
	BannerImages   []string  `json:"banner_images"`
	Version        int64     `json:"version,omitempty"`
	UpdatedAt      time.Time `json:"updated_at,omitzero"`
}
