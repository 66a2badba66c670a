// Package group implements group membership lookups using PostgreSQL.
package group

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/teamcal-backend/internal/adapter/postgres"
)

// Repo resolves groups to their members.
type Repo struct {
	db postgres.Querier
}

// New creates a new group repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ExpandGroups returns the distinct members of the given groups.
// Unknown group ids contribute nobody.
func (r *Repo) ExpandGroups(ctx context.Context, groupIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(groupIDs) == 0 {
		return []uuid.UUID{}, nil
	}

	sql, args, err := psql.Select("DISTINCT user_id").
		From("group_members").
		Where(squirrel.Eq{"group_id": groupIDs}).
		OrderBy("user_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build expand groups: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("expand groups: %w", err)
	}
	defer rows.Close()

	members := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		members = append(members, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("expand groups: %w", err)
	}
	return members, nil
}
