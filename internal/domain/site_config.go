package domain

// DefaultBannerURL is the stock banner shown until the admin uploads one.
const DefaultBannerURL = "https://images.unsplash.com/photo-1600565193348-f74bd3c7ccdf?auto=format&fit=crop&w=2070&q=80"

// DefaultSiteConfig returns the configuration served when nothing has been
// saved yet.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		SiteName:       "Lobianco Investimentos",
		MainColor:      "#0066CC",
		SecondaryColor: "#003366",
		TextColor:      "#333333",
		LogoWidth:      "auto",
		LogoHeight:     "60px",
		SiteNameSize:   "24px",
		SiteNameAlign:  "left",
		Phone:          "(34) 99970-4808",
		BannerImages:   []string{DefaultBannerURL},
	}
}

// SiteConfigPatch is a partial update. Nil fields keep the stored value.
// BannerImages lists new banners to append; existing banners are never
// removed by a patch.
type SiteConfigPatch struct {
	SiteName       *string  `json:"site_name,omitempty"`
	MainColor      *string  `json:"main_color,omitempty"`
	SecondaryColor *string  `json:"secondary_color,omitempty"`
	TextColor      *string  `json:"text_color,omitempty"`
	LogoURL        *string  `json:"logo_url,omitempty"`
	LogoWidth      *string  `json:"logo_width,omitempty"`
	LogoHeight     *string  `json:"logo_height,omitempty"`
	SiteNameSize   *string  `json:"site_name_size,omitempty"`
	SiteNameAlign  *string  `json:"site_name_align,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	CompanyEmail   *string  `json:"company_email,omitempty"`
	CompanyAddress *string  `json:"company_address,omitempty"`
	WhatsappLink   *string  `json:"whatsapp_link,omitempty"`
	InstagramLink  *string  `json:"instagram_link,omitempty"`
	FacebookLink   *string  `json:"facebook_link,omitempty"`
	BannerImages   []string `json:"banner_images,omitempty"`
}

// Apply copies every non-nil scalar field of p onto base and returns the
// result. Banner merging is left to the caller.
func (p SiteConfigPatch) Apply(base SiteConfig) SiteConfig {
	out := base
	out.BannerImages = append([]string(nil), base.BannerImages...)
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&out.SiteName, p.SiteName)
	set(&out.MainColor, p.MainColor)
	set(&out.SecondaryColor, p.SecondaryColor)
	set(&out.TextColor, p.TextColor)
	set(&out.LogoURL, p.LogoURL)
	set(&out.LogoWidth, p.LogoWidth)
	set(&out.LogoHeight, p.LogoHeight)
	set(&out.SiteNameSize, p.SiteNameSize)
	set(&out.SiteNameAlign, p.SiteNameAlign)
	set(&out.Phone, p.Phone)
	set(&out.CompanyEmail, p.CompanyEmail)
	set(&out.CompanyAddress, p.CompanyAddress)
	set(&out.WhatsappLink, p.WhatsappLink)
	set(&out.InstagramLink, p.InstagramLink)
	set(&out.FacebookLink, p.FacebookLink)
	return out
}

// MergeBanners appends the incoming banners that are not already present and
// drops the stock banner once any custom banner exists.
func MergeBanners(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing)+len(incoming))
	out := make([]string, 0, len(existing)+len(incoming))
	for _, u := range append(append([]string(nil), existing...), incoming...) {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}

	custom := false
	for _, u := range out {
		if u != DefaultBannerURL {
			custom = true
			break
		}
	}
	if !custom {
		return out
	}

	filtered := out[:0]
	for _, u := range out {
		if u != DefaultBannerURL {
			filtered = append(filtered, u)
		}
	}
	return filtered
}
