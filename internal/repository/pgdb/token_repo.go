package pgdb

import (
	"context"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

type TokenRepo struct {
	db DBTX
}

func NewTokenRepo(db DBTX) *TokenRepo {
	return &TokenRepo{db: db}
}

// DeleteExpired удаляет refresh-токены с expiration_date раньше before.
func (t *TokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := t.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expiration_date < $1`, before)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return tag.RowsAffected(), nil
}
