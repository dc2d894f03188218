package persistence

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"photo-store/domain/model"
)

func TestUserRepository_GetById(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewUserRepository(db)

	createdAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	updatedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	mock.ExpectPrepare(regexp.QuoteMeta(`SELECT u.id, u.name, u.user_name, u.password, u.created_at, u.updated_at
	FROM public.user AS u
	WHERE u.id = $1`)).
		ExpectQuery().WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_name", "password", "created_at", "updated_at"}).
			AddRow(1, "Maria Silva", "maria", "5f4dcc3b5aa765d61d8327deb882cf99", createdAt, updatedAt))

	res, err := repository.GetById(context.Background(), 1)
	expected := model.User{
		ID:        1,
		Name:      "Maria Silva",
		UserName:  "maria",
		Password:  "5f4dcc3b5aa765d61d8327deb882cf99",
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}

	require.NoError(t, err)
	require.Equal(t, expected, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUserName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewUserRepository(db)

	createdAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	updatedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	mock.ExpectPrepare(regexp.QuoteMeta(`SELECT u.id, u.name, u.user_name, u.password, u.created_at, u.updated_at
	FROM public.user AS u
	WHERE u.user_name = $1`)).
		ExpectQuery().WithArgs("maria").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_name", "password", "created_at", "updated_at"}).
			AddRow(1, "Maria Silva", "maria", "5f4dcc3b5aa765d61d8327deb882cf99", createdAt, updatedAt))

	res, err := repository.GetByUserName(context.Background(), "maria")

	require.NoError(t, err)
	require.Equal(t, "maria", res.UserName)
	require.Equal(t, 1, res.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewUserRepository(db)

	mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO public.user (name, user_name, password) VALUES ($1, $2, $3)`)).
		ExpectExec().WithArgs("Maria Silva", "maria", "5f4dcc3b5aa765d61d8327deb882cf99").
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := model.User{
		Name:     "Maria Silva",
		UserName: "maria",
		Password: "5f4dcc3b5aa765d61d8327deb882cf99",
	}

	err = repository.CreateUser(context.Background(), user)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetById_PrepareError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewUserRepository(db)

	mock.ExpectPrepare(regexp.QuoteMeta(`SELECT u.id, u.name, u.user_name, u.password, u.created_at, u.updated_at
	FROM public.user AS u
	WHERE u.id = $1`)).
		WillReturnError(fmt.Errorf("prepare error"))

	res, err := repository.GetById(context.Background(), 1)

	require.Error(t, err)
	require.Equal(t, model.User{}, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUserName_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewUserRepository(db)

	mock.ExpectPrepare(regexp.QuoteMeta(`SELECT u.id, u.name, u.user_name, u.password, u.created_at, u.updated_at
	FROM public.user AS u
	WHERE u.user_name = $1`)).
		ExpectQuery().WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_name", "password", "created_at", "updated_at"}))

	res, err := repository.GetByUserName(context.Background(), "nobody")

	require.Error(t, err)
	require.Equal(t, model.User{}, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateUser_PrepareError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewUserRepository(db)

	mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO public.user (name, user_name, password) VALUES ($1, $2, $3)`)).
		WillReturnError(fmt.Errorf("prepare error"))

	user := model.User{
		Name:     "Test User",
		UserName: "testuser",
		Password: "testpass",
	}

	err = repository.CreateUser(context.Background(), user)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
