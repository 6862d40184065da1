package http

import (
	"fmt"

	"trivia-skill/internal/domain"
)

// Template is the chat-platform response payload: an ordered list of outputs
// rendered by the messenger.
type Template struct {
	Version  string  `json:"version"`
	Template Outputs `json:"template"`
}

type Outputs struct {
	Outputs []Output `json:"outputs"`
}

type Output struct {
	SimpleText  *SimpleText  `json:"simpleText,omitempty"`
	SimpleImage *SimpleImage `json:"simpleImage,omitempty"`
}

type SimpleText struct {
	Text string `json:"text"`
}

type SimpleImage struct {
	ImageURL string `json:"imageUrl"`
	AltText  string `json:"altText"`
}

func NewTemplate() *Template {
	return &Template{Version: "2.0"}
}

func (t *Template) AddText(text string) {
	t.Template.Outputs = append(t.Template.Outputs, Output{SimpleText: &SimpleText{Text: text}})
}

func (t *Template) AddImage(url, alt string) {
	t.Template.Outputs = append(t.Template.Outputs, Output{SimpleImage: &SimpleImage{ImageURL: url, AltText: alt}})
}

// addQuestion renders a round announcement: flag questions lead with their
// image, every question gets a round-prefixed prompt line.
func (t *Template) addQuestion(round int, q domain.Question) {
	if url := q.ImageURL(); url != "" {
		t.AddImage(url, "flag")
	}
	t.AddText(fmt.Sprintf("[Round %d] %s", round, q.PromptText()))
}
