package transliterate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"jewelry-studio-backend/internal/models"
)

// TextGenerator is a single text completion call.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	gen TextGenerator
	log *zap.Logger
}

func NewService(gen TextGenerator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gen: gen, log: log.Named("transliterate")}
}

func prompt(name string, lang models.Language) string {
	if lang == models.LanguageArabic {
		return fmt.Sprintf("Transliterate this name to Arabic script. Use standard Arabic script and the most common "+
			"Arabic spelling for names (Umayr=عمير, Mohammed=محمد, Sarah=سارة, Layla=ليلى, Omar=عمر, Fatima=فاطمة). "+
			"Return ONLY the transliterated name with no quotes, explanation or punctuation. Name: %s", name)
	}
	return fmt.Sprintf("Transliterate this name to Chinese script. Use Simplified Chinese characters and the most "+
		"common phonetic transliteration for names (Sarah=萨拉, Michael=迈克尔, David=大卫). "+
		"Return ONLY the transliterated name with no quotes, explanation or punctuation. Name: %s", name)
}

// Transliterate renders a Latin name in the target script. Languages other
// than Arabic and Chinese return the name unchanged. When the model fails,
// Arabic falls back to the local letter map and Chinese to the input.
func (s *Service) Transliterate(ctx context.Context, name string, lang models.Language) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if lang != models.LanguageArabic && lang != models.LanguageChinese {
		return name
	}

	if s.gen != nil {
		text, err := s.gen.GenerateText(ctx, prompt(name, lang))
		if err != nil {
			s.log.Warn("model transliteration failed, using fallback",
				zap.String("language", string(lang)),
				zap.Error(err),
			)
		} else if cleaned := clean(text); cleaned != "" {
			return cleaned
		}
	}

	if lang == models.LanguageArabic {
		return Arabic(name)
	}
	return name
}

func clean(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	return strings.Trim(text, "\"'`.「」")
}
