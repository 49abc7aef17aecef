package text

import (
	"context"

	"github.com/yoockh/preptalk/internal/models"
)

// Provider generates structured teaching content from a rendered prompt pair.
// Implementations are safe for concurrent use.
type Provider interface {
	GenerateContent(ctx context.Context, system, user string) (models.TeachingContent, error)
}
