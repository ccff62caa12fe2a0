// Package language implements the phrasebook helpers: translating free text into
// Bosnian with three register variants, and reading phrases aloud.
package language

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"privatelives/internal/upstream"
)

// Language is a target language of the phrasebook.
type Language string

const (
	Bosnian  Language = "bosnian"
	Croatian Language = "croatian"
)

// Label is the language name used in model prompts.
func (l Language) Label() string {
	if l == Croatian {
		return "Croatian"
	}
	return "Bosnian"
}

// MaxTextRunes bounds the text accepted by Translate and Speak.
const MaxTextRunes = 1000

var (
	// ErrMissingText is returned before any upstream call when the text is blank.
	ErrMissingText = errors.New("missing text")

	// ErrTextTooLong is returned when the text exceeds MaxTextRunes.
	ErrTextTooLong = errors.New("text too long")
)

// Variant is one rendering of the translated text with a pronunciation guide.
type Variant struct {
	Text     string `json:"text"`
	Phonetic string `json:"phonetic"`
}

// Translation holds the three fixed variants.
type Translation struct {
	Natural Variant `json:"natural"`
	Formal  Variant `json:"formal"`
	Literal Variant `json:"literal"`
}

func (t Translation) complete() bool {
	return t.Natural.Text != "" && t.Formal.Text != "" && t.Literal.Text != ""
}

// ErrorTranslation fills every variant with msg so the phrasebook UI can show it in place.
func ErrorTranslation(msg string) Translation {
	v := Variant{Text: msg}
	return Translation{Natural: v, Formal: v, Literal: v}
}

// Audio is synthesized speech.
type Audio struct {
	Data     []byte
	MIMEType string
}

// Translator returns a structured translation for prompt.
type Translator interface {
	Translate(ctx context.Context, prompt string) (Translation, error)
}

// Synthesizer reads prompt aloud with the named voice.
type Synthesizer interface {
	Synthesize(ctx context.Context, prompt, voice string) (Audio, error)
}

// Service wires the phrasebook to its model backends.
type Service struct {
	Translator  Translator
	Synthesizer Synthesizer
	// Voices maps a language to its prebuilt TTS voice.
	Voices map[Language]string
}

func checkText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrMissingText
	}
	if utf8.RuneCountInString(text) > MaxTextRunes {
		return "", ErrTextTooLong
	}
	return text, nil
}

// Translate renders text in lang as natural, formal and literal variants.
func (s *Service) Translate(ctx context.Context, text string, lang Language) (Translation, error) {
	text, err := checkText(text)
	if err != nil {
		return Translation{}, err
	}
	if s.Translator == nil {
		return Translation{}, upstream.NotConfigured("translator")
	}

	tr, err := s.Translator.Translate(ctx, TranslatePrompt(text, lang))
	if err != nil {
		return Translation{}, fmt.Errorf("translate: %w", err)
	}
	if !tr.complete() {
		return Translation{}, fmt.Errorf("translate: %w", upstream.ErrEmpty)
	}
	return tr, nil
}

// Speak synthesizes text read in lang.
func (s *Service) Speak(ctx context.Context, text string, lang Language) (Audio, error) {
	text, err := checkText(text)
	if err != nil {
		return Audio{}, err
	}
	if s.Synthesizer == nil {
		return Audio{}, upstream.NotConfigured("synthesizer")
	}

	audio, err := s.Synthesizer.Synthesize(ctx, SpeakPrompt(text, lang), s.Voices[lang])
	if err != nil {
		return Audio{}, fmt.Errorf("speak: %w", err)
	}
	if len(audio.Data) == 0 {
		return Audio{}, fmt.Errorf("speak: %w", upstream.ErrEmpty)
	}
	return audio, nil
}

// TranslatePrompt asks for the three variants and a phonetic guide readable by Swedish speakers.
func TranslatePrompt(text string, lang Language) string {
	return fmt.Sprintf(`Translate the text below into %[1]s.
Return three variants:
- natural: how a local would say it at a festival
- formal: polite register suitable for staff and officials
- literal: word-for-word rendering
For every variant add "phonetic": a pronunciation guide written with Swedish spelling conventions.
If the text is already %[1]s, translate it into Swedish instead.

Text: %[2]s`, lang.Label(), text)
}

// SpeakPrompt asks the TTS model to read text slowly in lang.
func SpeakPrompt(text string, lang Language) string {
	return fmt.Sprintf("Say slowly and clearly in %s, like a friendly language teacher: %s", lang.Label(), text)
}
