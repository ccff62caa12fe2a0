package newsgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"privatelives/internal/upstream"
)

// ErrMissingTopic is returned before any upstream call when the topic is blank.
var ErrMissingTopic = errors.New("missing topic")

// DefaultTimeout bounds one generation end to end.
const DefaultTimeout = 25 * time.Second

// Writer produces raw article text for a prompt.
type Writer interface {
	WriteArticle(ctx context.Context, prompt string) (string, error)
}

// Service picks a Writer by Provider and parses its output into an Article.
type Service struct {
	Writers map[Provider]Writer
	Timeout time.Duration
}

// Generate writes an article about topic with the selected backend. The whole
// call is bounded by s.Timeout; exceeding it yields an error wrapping
// context.DeadlineExceeded.
func (s *Service) Generate(ctx context.Context, topic string, provider Provider) (Article, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Article{}, ErrMissingTopic
	}

	w, ok := s.Writers[provider]
	if !ok || w == nil {
		return Article{}, upstream.NotConfigured(provider.String() + " writer")
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := w.WriteArticle(ctx, Prompt(topic, provider.CitesSources()))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}
		return Article{}, fmt.Errorf("generate with %s: %w", provider, err)
	}

	article, err := ParseArticle(raw, provider.CitesSources())
	if err != nil {
		return Article{}, fmt.Errorf("generate with %s: %w", provider, err)
	}
	slog.Debug("news article generated",
		slog.String("provider", provider.String()),
		slog.Int("content_len", len(article.Content)),
		slog.Int("sources", len(article.Sources)))
	return article, nil
}

// Prompt builds the instruction sent to every backend.
func Prompt(topic string, withSources bool) string {
	var b strings.Builder
	b.WriteString("Skriv en kort nyhetsartikel på svenska för sajten Private Lives Matter om följande ämne: ")
	b.WriteString(topic)
	b.WriteString("\n\nFörsta raden ska vara rubriken utan formatering. ")
	b.WriteString("Därefter 3–5 stycken brödtext i neutral nyhetston. ")
	if withSources {
		b.WriteString("Avsluta med raden \"Källor:\" följd av en källa per rad i formatet [titel](url). ")
		b.WriteString("Ange bara källor du är säker på.")
	} else {
		b.WriteString("Ange inga källor.")
	}
	return b.String()
}
