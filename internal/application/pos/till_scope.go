package pos

import (
	"context"

	"github.com/bakery/backend/internal/domain/pos"
)

// TillRepos are the repositories a till write touches. Inside
// TillScope.Execute they are bound to the open transaction, so the session
// lock taken through Sessions covers the sale written through Orders.
type TillRepos struct {
	Sessions pos.SessionRepository
	Orders   pos.OrderRepository
}

// TillScope commits everything fn writes through repos, or nothing when fn
// returns an error.
type TillScope interface {
	Execute(ctx context.Context, fn func(repos TillRepos) error) error
}

// DirectTillScope hands its repositories to fn with no transaction around them
type DirectTillScope TillRepos

func (s DirectTillScope) Execute(_ context.Context, fn func(repos TillRepos) error) error {
	return fn(TillRepos(s))
}

var _ TillScope = DirectTillScope{}
