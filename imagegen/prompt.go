package imagegen

import (
	"fmt"
	"strings"
)

// PreviewInput describes what the shopper asked to see.
type PreviewInput struct {
	Prompt         string
	ClothingType   string
	Color          string
	ViewAngle      string
	HasLogo        bool
	HasUserPhoto   bool
	TemplatePrompt string
}

const qualitySuffix = "High quality, detailed clothing design, modern style, clean background, professional photography"

// BuildPrompt turns a preview request into the text sent to the image provider.
func BuildPrompt(in PreviewInput) string {
	var b strings.Builder
	if in.ClothingType != "" {
		fmt.Fprintf(&b, "%s design: %s", in.ClothingType, in.Prompt)
	} else {
		fmt.Fprintf(&b, "Professional fashion design: %s", in.Prompt)
	}
	if in.TemplatePrompt != "" {
		b.WriteString(", " + in.TemplatePrompt)
	}
	if in.Color != "" {
		fmt.Fprintf(&b, ", %s color", in.Color)
	}
	if in.ViewAngle != "" && in.ViewAngle != "front" {
		fmt.Fprintf(&b, ", %s view", in.ViewAngle)
	}
	if in.HasLogo {
		b.WriteString(", with custom logo on chest")
	}
	if in.HasUserPhoto {
		b.WriteString(", on a person, realistic fit")
	}
	b.WriteString(". ")
	b.WriteString(qualitySuffix)
	return b.String()
}

// FallbackEnhance is the deterministic rewrite used when the language model is unavailable.
func FallbackEnhance(prompt, clothingType, color string) string {
	colorInfo := ""
	if color != "" {
		colorInfo = " in " + color
	}
	return fmt.Sprintf("Professional %s: %s%s, high quality fabric, modern design", clothingType, prompt, colorInfo)
}
