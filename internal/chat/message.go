package chat

import (
	"strings"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/domain"
)

type Sender string

const (
	SenderBot  Sender = "bot"
	SenderUser Sender = "user"
)

// Option is a quick-reply button. Choosing it sends Value as input.
type Option struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// Card is a compact listing preview.
type Card struct {
	Title    string `json:"title"`
	Price    string `json:"price"`
	Location string `json:"location"`
	Link     string `json:"link"`
}

type Message struct {
	From    Sender   `json:"from"`
	Text    string   `json:"text,omitempty"`
	Options []Option `json:"options,omitempty"`
	Card    *Card    `json:"card,omitempty"`
}

func botText(text string) Message {
	return Message{From: SenderBot, Text: text}
}

func cardFor(l domain.Listing) *Card {
	price := strings.TrimSpace(l.Price)
	if price == "" {
		price = "Consulte"
	}
	location := strings.TrimSpace(l.Location)
	if location == "" {
		location = "Não informada"
	}
	return &Card{
		Title:    l.Title,
		Price:    price,
		Location: location,
		Link:     "#" + string(l.Type),
	}
}
