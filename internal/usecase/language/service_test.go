package language_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privatelives/internal/upstream"
	"privatelives/internal/usecase/language"
)

type fakeTranslator struct {
	out    language.Translation
	err    error
	prompt string
	calls  int
}

func (f *fakeTranslator) Translate(_ context.Context, prompt string) (language.Translation, error) {
	f.calls++
	f.prompt = prompt
	return f.out, f.err
}

type fakeSynth struct {
	audio language.Audio
	err   error
	voice string
	calls int
}

func (f *fakeSynth) Synthesize(_ context.Context, _ string, voice string) (language.Audio, error) {
	f.calls++
	f.voice = voice
	return f.audio, f.err
}

func full() language.Translation {
	return language.Translation{
		Natural: language.Variant{Text: "Gdje je bina?", Phonetic: "gdje je bina"},
		Formal:  language.Variant{Text: "Izvinite, gdje se nalazi bina?", Phonetic: "izvinite"},
		Literal: language.Variant{Text: "Gdje je pozornica?", Phonetic: "pozornitsa"},
	}
}

func TestService_Translate(t *testing.T) {
	tr := &fakeTranslator{out: full()}
	svc := language.Service{Translator: tr}

	got, err := svc.Translate(context.Background(), "Where is the stage?", language.Bosnian)
	require.NoError(t, err)
	assert.Equal(t, full(), got)
	assert.Contains(t, tr.prompt, "Bosnian")
	assert.Contains(t, tr.prompt, "Where is the stage?")
}

func TestService_Translate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		tr      *fakeTranslator
		wantErr error
		calls   int
	}{
		{"blank", "  ", &fakeTranslator{}, language.ErrMissingText, 0},
		{"too long", strings.Repeat("a", language.MaxTextRunes+1), &fakeTranslator{}, language.ErrTextTooLong, 0},
		{"incomplete", "hi", &fakeTranslator{out: language.Translation{Natural: language.Variant{Text: "x"}}}, upstream.ErrEmpty, 1},
		{"upstream", "hi", &fakeTranslator{err: upstream.ErrMalformed}, upstream.ErrMalformed, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&language.Service{Translator: tt.tr}).Translate(context.Background(), tt.text, language.Bosnian)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.calls, tt.tr.calls)
		})
	}

	_, err := (&language.Service{}).Translate(context.Background(), "hi", language.Bosnian)
	assert.ErrorIs(t, err, upstream.ErrNotConfigured)
}

func TestService_Speak(t *testing.T) {
	synth := &fakeSynth{audio: language.Audio{Data: []byte{1, 2}, MIMEType: "audio/L16;rate=24000"}}
	svc := language.Service{
		Synthesizer: synth,
		Voices:      map[language.Language]string{language.Bosnian: "Kore", language.Croatian: "Puck"},
	}

	got, err := svc.Speak(context.Background(), "Hvala", language.Croatian)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, got.Data)
	assert.Equal(t, "Puck", synth.voice)

	synth.audio = language.Audio{}
	_, err = svc.Speak(context.Background(), "Hvala", language.Bosnian)
	assert.ErrorIs(t, err, upstream.ErrEmpty)

	_, err = svc.Speak(context.Background(), "", language.Bosnian)
	assert.True(t, errors.Is(err, language.ErrMissingText))
}

func TestErrorTranslation(t *testing.T) {
	tr := language.ErrorTranslation("Översättningen misslyckades")
	assert.Equal(t, tr.Natural, tr.Formal)
	assert.Equal(t, tr.Formal, tr.Literal)
	assert.Equal(t, "Översättningen misslyckades", tr.Literal.Text)
}
