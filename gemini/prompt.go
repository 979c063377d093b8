package gemini

import (
	"strings"

	"google.golang.org/genai"

	"andary/asset"
	"andary/i18n"
)

// LectureInstruction asks the analysis model for a lecture script followed by
// a single visual prompt on the last line.
const LectureInstruction = "Act as a world-class university professor. Analyze these uploaded materials " +
	"(images of boards, notebooks, or PDF documents) and create a comprehensive educational lecture script. " +
	"Then, output a single highly descriptive visual prompt (in English) that describes a high-end educational " +
	"video explaining these specific topics with 3D animations and a professional setting."

// FallbackVisualPrompt drives the video model when the analysis is blank
const FallbackVisualPrompt = "A professional university lecture explanation video."

// ExtractVisualPrompt returns the last non-blank line of the analysis text.
// The model is not asked for a delimiter, so this is a best-effort split.
func ExtractVisualPrompt(analysis string) string {
	lines := strings.Split(analysis, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return FallbackVisualPrompt
}

// WithLanguageDirective appends the response language to a prompt
func WithLanguageDirective(prompt string, lang i18n.Language) string {
	return prompt + " (Explain in " + lang.Name() + ")"
}

// referenceImages picks the first MaxReferenceImages image assets. PDFs and
// other non-image assets never count toward the cap.
func referenceImages(assets []asset.Asset) ([]*genai.VideoGenerationReferenceImage, error) {
	var refs []*genai.VideoGenerationReferenceImage
	for _, a := range assets {
		if len(refs) == MaxReferenceImages {
			break
		}
		if !a.IsImage() {
			continue
		}
		raw, err := a.Bytes()
		if err != nil {
			return nil, err
		}
		refs = append(refs, &genai.VideoGenerationReferenceImage{
			Image: &genai.Image{
				ImageBytes: raw,
				MIMEType:   a.MIMEType,
			},
			ReferenceType: genai.VideoGenerationReferenceTypeAsset,
		})
	}
	return refs, nil
}

func historyContents(history []Turn, message string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		// a part without text is rejected by the API
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		role := genai.Role(t.Role)
		if role != genai.RoleModel {
			role = genai.RoleUser
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}
	return append(contents, genai.NewContentFromText(message, genai.RoleUser))
}

func systemInstruction(text string) *genai.Content {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return genai.NewContentFromText(text, genai.RoleUser)
}

// preview shortens text for log output
func preview(text string, limit int) string {
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit]) + "..."
}
