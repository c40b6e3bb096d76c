package repositories

import (
	"context"

	"github.com/ghuser/hmjoarksink/pkg/events"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/models"
)

// SoknadRepository stores received applications.
// The domain layer owns this interface; infrastructure implements it.
type SoknadRepository interface {
	// Lagre stores s and stages forward in the same transaction. It returns
	// false when s was already stored, in which case nothing is staged.
	Lagre(ctx context.Context, s *models.Soknad, forward events.Outcome) (bool, error)
}
