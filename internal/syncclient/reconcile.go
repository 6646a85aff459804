package syncclient

import (
	"sort"

	"github.com/abarros/contact-sync/internal/domain"
)

// Reconcile orders a raw snapshot for display: most recently created first.
// Documents whose server timestamp has not resolved yet (zero CreatedAt,
// possible right after an optimistic write echoes back) sort as oldest so
// they do not jump to the top prematurely; they move to their real position
// once the timestamp lands in a later snapshot. Ties break by id so the
// result does not depend on delivery order. The input is left untouched.
func Reconcile(docs []domain.Contact) []domain.Contact {
	out := make([]domain.Contact, len(docs))
	copy(out, docs)

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	return out
}
