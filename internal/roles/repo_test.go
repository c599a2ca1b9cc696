package roles

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepo_Grant(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepo(db)

	t.Run("grants role", func(t *testing.T) {
		mock.ExpectExec(`insert into role_memberships`).
			WithArgs("HERITAGE", "0xabc").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Grant(context.Background(), RoleHeritage, "0xabc")
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("granting a held role is a no-op success", func(t *testing.T) {
		// on conflict do nothing reports zero rows affected
		mock.ExpectExec(`insert into role_memberships`).
			WithArgs("HERITAGE", "0xabc").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Grant(context.Background(), RoleHeritage, "0xabc")
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepo_Revoke(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepo(db)

	mock.ExpectExec(`delete from role_memberships`).
		WithArgs("SME", "0xdef").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Revoke(context.Background(), RoleSME, "0xdef")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_HasRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepo(db)

	t.Run("held", func(t *testing.T) {
		mock.ExpectQuery(`select 1 from role_memberships`).
			WithArgs("BANK", "0xbank").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		ok, err := repo.HasRole(context.Background(), RoleBank, "0xbank")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("not held", func(t *testing.T) {
		mock.ExpectQuery(`select 1 from role_memberships`).
			WithArgs("BANK", "0xnobody").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

		ok, err := repo.HasRole(context.Background(), RoleBank, "0xnobody")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRepo_RolesOf(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepo(db)

	mock.ExpectQuery(`select role from role_memberships`).
		WithArgs("0xabc").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("HERITAGE").AddRow("SME"))

	held, err := repo.RolesOf(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, []Role{RoleHeritage, RoleSME}, held)
}

func TestParse(t *testing.T) {
	role, err := Parse("heritage")
	require.NoError(t, err)
	assert.Equal(t, RoleHeritage, role)

	_, err = Parse("auditor")
	assert.ErrorIs(t, err, ErrUnknownRole)
}
