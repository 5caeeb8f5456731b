package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/domain"
)

// maxCards caps the listing previews shown per answer.
const maxCards = 3

type Timing struct {
	Typing   time.Duration
	Pause    time.Duration
	Idle     time.Duration
	AutoOpen time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		Typing:   time.Second,
		Pause:    1500 * time.Millisecond,
		Idle:     8 * time.Second,
		AutoOpen: 10 * time.Second,
	}
}

// Engine is the conversation state machine. Step is a pure function of the
// session and the event; all I/O and timing is described by the returned
// effects.
type Engine struct {
	Timing Timing
}

func NewEngine(t Timing) Engine {
	return Engine{Timing: t}
}

// effects accumulates the output of one step.
type effects []Effect

func (fx *effects) add(e ...Effect) { *fx = append(*fx, e...) }

func (e Engine) Step(s Session, ev Event) (Session, []Effect) {
	var fx effects
	switch ev := ev.(type) {
	case PageLoaded:
		if !s.AutoOpenDone {
			fx.add(ArmAutoOpen{After: e.Timing.AutoOpen})
		}
	case AutoOpenElapsed:
		if s.AutoOpenDone {
			break
		}
		s.AutoOpenDone = true
		s = e.open(s, ev.At, &fx)
	case Open:
		s = e.open(s, ev.At, &fx)
	case Close:
		s = e.close(s, &fx)
	case IdleElapsed:
		if !s.IdleArmed || ev.Gen != s.IdleGen || s.Interacted || !s.Open {
			break
		}
		s = e.close(s, &fx)
	case SnapshotLoaded:
		s.Snapshot = ev.Listings
		if s.Step == StepInitial {
			s = e.mainOptions(s, &fx)
			if s.Open {
				fx.add(SetInput{Enabled: true})
			}
		}
	case Input:
		s = e.input(s, ev.Text, &fx)
	}
	return s, fx
}

func (e Engine) open(s Session, at time.Time, fx *effects) Session {
	if s.Open {
		return s
	}
	s.Open = true
	fx.add(SetWindow{Open: true}, SetLauncher{Visible: false}, SetInput{Enabled: acceptsInput(s)})

	if !s.Interacted {
		s.IdleGen++
		s.IdleArmed = true
		fx.add(ArmIdleTimer{Gen: s.IdleGen, After: e.Timing.Idle})
	}

	if len(s.History) == 0 {
		e.typing(fx)
		s = say(s, fx, botText(greeting(at)+"! Eu sou o Assistente Lobianco. Estou aqui para te ajudar a encontrar o imóvel perfeito."))
		fx.add(Delay{D: e.Timing.Pause}, FetchSnapshot{})
	}
	return s
}

// close hides the window. The conversation state is kept so reopening
// resumes where it left off.
func (e Engine) close(s Session, fx *effects) Session {
	if !s.Open {
		return s
	}
	s.Open = false
	fx.add(SetWindow{Open: false}, SetLauncher{Visible: s.Step != StepFinished}, SetInput{Enabled: false})
	if s.IdleArmed {
		s.IdleArmed = false
		s.IdleGen++
		fx.add(CancelIdleTimer{})
	}
	return s
}

func (e Engine) input(s Session, text string, fx *effects) Session {
	text = strings.TrimSpace(text)
	if text == "" || !acceptsInput(s) {
		return s
	}

	s.Interacted = true
	if s.IdleArmed {
		s.IdleArmed = false
		s.IdleGen++
		fx.add(CancelIdleTimer{})
	}
	s = say(s, fx, Message{From: SenderUser, Text: text})

	lowered := strings.ToLower(text)
	if s.Step == StepSearchAgain {
		if affirmative(lowered) {
			return e.mainOptions(s, fx)
		}
		return e.farewell(s, fx)
	}

	if c, ok := categoryByKey(lowered); ok {
		return e.showCategory(s, c, fx)
	}
	if c, ok := categoryByKeyword(lowered); ok {
		e.typing(fx)
		s = say(s, fx, botText(fmt.Sprintf("Entendi! Você está buscando por %s.", c.Readable())))
		return e.showCategory(s, c, fx)
	}
	return e.search(s, text, fx)
}

// acceptsInput reports whether the visitor may type. Input stays disabled
// until the catalogue has loaded and the menu is shown.
func acceptsInput(s Session) bool {
	return s.Step != StepInitial && s.Step != StepFinished
}

// affirmative accepts any answer containing the letter "s", so "sim", "s"
// and the "sim" quick reply all continue while "nao" ends the chat.
func affirmative(lowered string) bool {
	return strings.Contains(lowered, "s")
}

func (e Engine) mainOptions(s Session, fx *effects) Session {
	s.Step = StepMainOptions
	return say(s, fx, Message{From: SenderBot, Text: "O que você está buscando hoje?", Options: menuOptions()})
}

func (e Engine) showCategory(s Session, c Category, fx *effects) Session {
	e.typing(fx)

	var found []domain.Listing
	for _, l := range s.Snapshot {
		if l.Type == c.Type {
			found = append(found, l)
		}
	}

	if len(found) == 0 {
		s = say(s, fx, botText(fmt.Sprintf("Desculpe, não encontrei nenhum %s disponível no momento.", c.Plural)))
	} else {
		s = say(s, fx, botText(fmt.Sprintf("Encontrei %d %s. Aqui estão alguns destaques:", len(found), c.Plural)))
		s = cards(s, fx, found)
	}
	return e.askToContinue(s, fx)
}

func (e Engine) search(s Session, text string, fx *effects) Session {
	e.typing(fx)

	needle := strings.ToLower(text)
	var found []domain.Listing
	for _, l := range s.Snapshot {
		if strings.Contains(strings.ToLower(l.Title), needle) ||
			strings.Contains(strings.ToLower(l.Description), needle) ||
			strings.Contains(strings.ToLower(l.Location), needle) {
			found = append(found, l)
		}
	}

	if len(found) == 0 {
		s = say(s, fx, botText(fmt.Sprintf("Sinto muito, não encontrei nada para \"%s\".", text)))
	} else {
		s = say(s, fx, botText(fmt.Sprintf("Encontrei %d imóvel(is) para \"%s\".", len(found), text)))
		s = cards(s, fx, found)
	}
	return e.askToContinue(s, fx)
}

func (e Engine) askToContinue(s Session, fx *effects) Session {
	fx.add(Delay{D: e.Timing.Pause})
	s.Step = StepSearchAgain
	return say(s, fx, Message{
		From: SenderBot,
		Text: "Gostaria de buscar outro tipo de imóvel?",
		Options: []Option{
			{Text: "Sim, buscar outro tipo", Value: "sim"},
			{Text: "Não, obrigado", Value: "nao"},
		},
	})
}

func (e Engine) farewell(s Session, fx *effects) Session {
	s = say(s, fx, botText("Entendido. Foi um prazer te ajudar! Tenha um ótimo dia e volte sempre."))
	s.Step = StepFinished
	fx.add(SetInput{Enabled: false}, SetLauncher{Visible: false})
	return s
}

func (e Engine) typing(fx *effects) {
	fx.add(Typing{On: true}, Delay{D: e.Timing.Typing}, Typing{On: false})
}

func cards(s Session, fx *effects, found []domain.Listing) Session {
	for i, l := range found {
		if i == maxCards {
			break
		}
		s = say(s, fx, Message{From: SenderBot, Card: cardFor(l)})
	}
	return s
}

// say records m in the history and emits it. The history is copied so
// sessions returned by earlier steps are never modified.
func say(s Session, fx *effects, m Message) Session {
	history := make([]Message, len(s.History), len(s.History)+1)
	copy(history, s.History)
	s.History = append(history, m)
	fx.add(Say{Message: m})
	return s
}

func greeting(at time.Time) string {
	switch h := at.Hour(); {
	case h < 12:
		return "Bom dia"
	case h < 18:
		return "Boa tarde"
	default:
		return "Boa noite"
	}
}
