package roles

import (
	"context"
	"database/sql"
	"fmt"
)

// Repo stores role memberships in Postgres. Changes are visible to the next
// query as soon as the statement returns; there is no caching layer.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Grant adds a role to an address. Granting an already-held role is a no-op
// success.
func (r *Repo) Grant(ctx context.Context, role Role, address string) error {
	const q = `
insert into role_memberships (role, address)
values ($1, $2)
on conflict (role, address) do nothing;
`
	if _, err := r.db.ExecContext(ctx, q, string(role), address); err != nil {
		return fmt.Errorf("failed to grant role: %w", err)
	}
	return nil
}

// Revoke removes a role from an address. Revoking a role the address does not
// hold is a no-op success.
func (r *Repo) Revoke(ctx context.Context, role Role, address string) error {
	const q = `delete from role_memberships where role = $1 and address = $2;`
	if _, err := r.db.ExecContext(ctx, q, string(role), address); err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}
	return nil
}

// HasRole reports whether the address currently holds the role.
func (r *Repo) HasRole(ctx context.Context, role Role, address string) (bool, error) {
	const q = `select 1 from role_memberships where role = $1 and address = $2;`

	var one int
	err := r.db.QueryRowContext(ctx, q, string(role), address).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check role: %w", err)
	}
	return true, nil
}

// RolesOf lists the roles held by an address.
func (r *Repo) RolesOf(ctx context.Context, address string) ([]Role, error) {
	const q = `select role from role_memberships where address = $1 order by role;`

	rows, err := r.db.QueryContext(ctx, q, address)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	out := make([]Role, 0, 3)
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		out = append(out, Role(role))
	}
	return out, rows.Err()
}
