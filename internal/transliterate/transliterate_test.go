package transliterate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"jewelry-studio-backend/internal/models"
	"jewelry-studio-backend/internal/transliterate"
)

type fakeText struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeText) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func TestArabic_NameCorrections(t *testing.T) {
	assert.Equal(t, "سارة", transliterate.Arabic("Sarah"))
	assert.Equal(t, "ليلى", transliterate.Arabic(" LAYLA "))
	assert.Equal(t, "محمد", transliterate.Arabic("mohammed"))
}

func TestArabic_LetterMap(t *testing.T) {
	assert.Equal(t, "شادي", transliterate.Arabic("Shadi"))
	assert.Equal(t, "ومير", transliterate.Arabic("Umayr"))
	assert.Equal(t, "رولى", transliterate.Arabic("Rola"))
	assert.Equal(t, "مرة", transliterate.Arabic("Mrah"))
	assert.Equal(t, "", transliterate.Arabic("   "))
}

func TestArabic_SkipsUnknownCharacters(t *testing.T) {
	assert.Equal(t, "دن ب", transliterate.Arabic("Dn-1 B"))
}

func TestTransliterate_UsesModel(t *testing.T) {
	gen := &fakeText{text: "  \"عمير\"\n"}
	svc := transliterate.NewService(gen, nil)

	assert.Equal(t, "عمير", svc.Transliterate(context.Background(), "Umayr", models.LanguageArabic))
	assert.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Arabic")
	assert.Contains(t, gen.prompts[0], "Name: Umayr")
}

func TestTransliterate_Fallbacks(t *testing.T) {
	gen := &fakeText{err: errors.New("quota exceeded")}
	svc := transliterate.NewService(gen, nil)

	assert.Equal(t, "سارة", svc.Transliterate(context.Background(), "Sarah", models.LanguageArabic))
	assert.Equal(t, "Sarah", svc.Transliterate(context.Background(), "Sarah", models.LanguageChinese))

	empty := transliterate.NewService(&fakeText{text: "   "}, nil)
	assert.Equal(t, "سارة", empty.Transliterate(context.Background(), "Sarah", models.LanguageArabic))
}

func TestTransliterate_EnglishPassesThrough(t *testing.T) {
	gen := &fakeText{text: "unused"}
	svc := transliterate.NewService(gen, nil)

	assert.Equal(t, "Sarah", svc.Transliterate(context.Background(), "Sarah", models.LanguageEnglish))
	assert.Empty(t, gen.prompts)
	assert.Equal(t, "", svc.Transliterate(context.Background(), "  ", models.LanguageArabic))
}
