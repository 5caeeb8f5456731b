package chat

import (
	"strings"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/domain"
)

// Category describes how one listing type is offered in the conversation.
type Category struct {
	Type     domain.ListingType
	Label    string
	Plural   string
	Keywords []string
}

var categories = []Category{
	{
		Type:     domain.TypeLancamento,
		Label:    "Lançamentos",
		Plural:   "Lançamentos",
		Keywords: []string{"lançamento", "lancamento"},
	},
	{
		Type:     domain.TypeNaPlanta,
		Label:    "Na Planta",
		Plural:   "Imóveis na Planta",
		Keywords: []string{"planta"},
	},
	{
		Type:     domain.TypeAluguel,
		Label:    "Aluguel",
		Plural:   "Imóveis para Aluguel",
		Keywords: []string{"aluguel"},
	},
}

// Categories returns the menu in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// Readable returns the type key with underscores shown as spaces.
func (c Category) Readable() string {
	return strings.ReplaceAll(string(c.Type), "_", " ")
}

// categoryByKey matches input that names a category exactly, either by its
// type key or by its menu label.
func categoryByKey(lowered string) (Category, bool) {
	key := strings.ReplaceAll(lowered, " ", "_")
	for _, c := range categories {
		if key == string(c.Type) || lowered == strings.ToLower(c.Label) {
			return c, true
		}
	}
	return Category{}, false
}

// categoryByKeyword matches input that mentions a category keyword anywhere.
func categoryByKeyword(lowered string) (Category, bool) {
	for _, c := range categories {
		for _, kw := range c.Keywords {
			if strings.Contains(lowered, kw) {
				return c, true
			}
		}
	}
	return Category{}, false
}

func menuOptions() []Option {
	opts := make([]Option, 0, len(categories))
	for _, c := range categories {
		opts = append(opts, Option{Text: c.Label, Value: string(c.Type)})
	}
	return opts
}
