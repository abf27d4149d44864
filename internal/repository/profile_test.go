package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"devconnect/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestProfileRepository_GetByUserID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	t.Run("Success with preloads", func(t *testing.T) {
		profileRows := sqlmock.NewRows([]string{"id", "user_id", "status"}).
			AddRow(1, 10, "Developer")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles" WHERE user_id = $1 AND "profiles"."deleted_at" IS NULL ORDER BY "profiles"."id" LIMIT $2`)).
			WithArgs(10, 1).
			WillReturnRows(profileRows)

		// GORM runs preloads in sorted name order: Education, Experience, User.
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "educations" WHERE "educations"."profile_id" = $1 ORDER BY created_at DESC, id DESC`)).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "profile_id", "school"}).
				AddRow(5, 1, "MIT"))

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "experiences" WHERE "experiences"."profile_id" = $1 ORDER BY created_at DESC, id DESC`)).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "profile_id", "title", "company"}).
				AddRow(7, 1, "Senior Developer", "Acme").
				AddRow(3, 1, "Developer", "Initech"))

		// The user join must fetch only the public columns, never the email.
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","name","avatar" FROM "users" WHERE "users"."id" = $1`)).
			WithArgs(10).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "avatar"}).
				AddRow(10, "John Doe", "//gravatar/john"))

		profile, err := repo.GetByUserID(ctx, 10)
		assert.NoError(t, err)
		assert.NotNil(t, profile)
		assert.Equal(t, "Developer", profile.Status)
		assert.Len(t, profile.Experience, 2)
		assert.Equal(t, "Senior Developer", profile.Experience[0].Title)
		assert.Equal(t, "John Doe", profile.User.Name)
		assert.Empty(t, profile.User.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles" WHERE user_id = $1`)).
			WithArgs(99, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		profile, err := repo.GetByUserID(ctx, 99)
		assert.Error(t, err)
		assert.Nil(t, profile)
		var appErr *models.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProfileRepository_AddExperience(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	entry := &models.Experience{
		ProfileID: 1,
		Title:     "Developer",
		Company:   "Acme",
		From:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "experiences"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.AddExperience(ctx, entry)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_RemoveExperience(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	t.Run("Existing entry", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "experiences" WHERE profile_id = $1 AND id = $2`)).
			WithArgs(1, 7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.RemoveExperience(ctx, 1, 7)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Absent entry is a no-op", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "experiences" WHERE profile_id = $1 AND id = $2`)).
			WithArgs(1, 999).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.RemoveExperience(ctx, 1, 999)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProfileRepository_RemoveEducation(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "educations" WHERE profile_id = $1 AND id = $2`)).
		WithArgs(1, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.RemoveEducation(ctx, 1, 5)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_DeleteByUserID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "profiles" SET "deleted_at"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteByUserID(ctx, 10)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
