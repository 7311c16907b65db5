package translate

import "context"

type Translator interface {
	// Translate returns text rendered in the target language.
	Translate(ctx context.Context, text string) (string, error)
}
