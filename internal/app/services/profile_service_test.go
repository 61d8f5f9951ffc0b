package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/kaan/counseldesk/internal/app/models"
	"github.com/kaan/counseldesk/internal/pkg/apperrors"
)

func TestGetProfile(t *testing.T) {
	store := newMemStore()
	user := store.addUser("Sam Student", "s1001@school.test", models.RoleStudent)
	store.addStudent(user)
	svc := NewProfileService(store)

	student, err := svc.GetProfile(context.Background(), identityFor(user))
	assert.NoError(t, err)
	assert.Equal(t, user.ID, student.UserID)
	assert.Equal(t, "s1001", student.StudentID)
}

func TestGetProfileMissing(t *testing.T) {
	store := newMemStore()
	user := store.addUser("No Profile", "orphan@school.test", models.RoleStudent)
	svc := NewProfileService(store)

	_, err := svc.GetProfile(context.Background(), identityFor(user))
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func TestUpdateProfileCascadesNameToUser(t *testing.T) {
	store := newMemStore()
	user := store.addUser("Sam Student", "s1001@school.test", models.RoleStudent)
	store.addStudent(user)
	svc := NewProfileService(store)

	err := svc.UpdateProfile(context.Background(), identityFor(user), "  Samuel Student ", "555-0101")
	assert.NoError(t, err)

	student, err := store.GetByUserID(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Samuel Student", student.Name)
	if assert.NotNil(t, student.Phone) {
		assert.Equal(t, "555-0101", *student.Phone)
	}
	// The account name follows the profile name.
	assert.Equal(t, "Samuel Student", store.users[user.ID].Name)
}

func TestUpdateProfileEmptyPhoneClearsIt(t *testing.T) {
	store := newMemStore()
	user := store.addUser("Sam Student", "s1001@school.test", models.RoleStudent)
	student := store.addStudent(user)
	phone := "555-0101"
	student.Phone = &phone
	svc := NewProfileService(store)

	err := svc.UpdateProfile(context.Background(), identityFor(user), "Sam Student", "  ")
	assert.NoError(t, err)

	updated, _ := store.GetByUserID(context.Background(), user.ID)
	assert.Nil(t, updated.Phone)
}

func TestUpdateProfileEmptyName(t *testing.T) {
	store := newMemStore()
	user := store.addUser("Sam Student", "s1001@school.test", models.RoleStudent)
	store.addStudent(user)
	svc := NewProfileService(store)

	err := svc.UpdateProfile(context.Background(), identityFor(user), "   ", "")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUpdateProfileMissing(t *testing.T) {
	store := newMemStore()
	user := store.addUser("No Profile", "orphan@school.test", models.RoleStudent)
	svc := NewProfileService(store)

	err := svc.UpdateProfile(context.Background(), identityFor(user), "Name", "")
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}
