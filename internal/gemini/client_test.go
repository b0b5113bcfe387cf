package gemini_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
	"jewelry-studio-backend/internal/gemini"
)

func TestBuildContents_ReferencesBeforeText(t *testing.T) {
	contents := gemini.BuildContents("engrave the name", []gemini.Image{
		{Data: []byte("reference"), MIMEType: "image/jpeg"},
		{Data: []byte("letters")},
		{Data: nil, MIMEType: "image/png"},
	})

	require.Len(t, contents, 1)
	parts := contents[0].Parts
	require.Len(t, parts, 3)

	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, []byte("reference"), parts[0].InlineData.Data)
	assert.Equal(t, "image/jpeg", parts[0].InlineData.MIMEType)
	assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
	assert.Nil(t, parts[2].InlineData)
	assert.Equal(t, "engrave the name", parts[2].Text)
}

func TestFirstImage(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "Here is your pendant"},
				{InlineData: &genai.Blob{Data: []byte("first"), MIMEType: "image/webp"}},
				{InlineData: &genai.Blob{Data: []byte("second"), MIMEType: "image/png"}},
			}},
		}},
	}

	img := gemini.FirstImage(resp)
	require.NotNil(t, img)
	assert.Equal(t, []byte("first"), img.Data)
	assert.Equal(t, "image/webp", img.MIMEType)
}

func TestFirstImage_DefaultsMime(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{InlineData: &genai.Blob{Data: []byte("bytes")}},
			}},
		}},
	}

	img := gemini.FirstImage(resp)
	require.NotNil(t, img)
	assert.Equal(t, "image/png", img.MIMEType)
}

func TestFirstImage_TextOnly(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "I can't do that"}}},
		}},
	}

	assert.Nil(t, gemini.FirstImage(resp))
	assert.Nil(t, gemini.FirstImage(nil))
}
