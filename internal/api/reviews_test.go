package api

import (
	"fmt"
	"net/http"
	"testing"

	"library_system/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReview(t *testing.T) {
	r, gdb := setupTest(t)
	member := createUser(t, gdb, "member", domain.RoleMember)
	book := createBook(t, gdb, "Reviewed", "9780000000030")

	w := doJSON(r, http.MethodPost, "/reviews", tokenFor(t, member), map[string]any{
		"book_id": book.ID,
		"rating":  5,
		"comment": "Excellent book!",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.EqualValues(t, member.ID, body["user_id"], "reviewer is the authenticated identity")
	assert.EqualValues(t, 5, body["rating"])
}

func TestReviewRatingBounds(t *testing.T) {
	r, gdb := setupTest(t)
	member := createUser(t, gdb, "member", domain.RoleMember)
	book := createBook(t, gdb, "Rated", "9780000000031")
	token := tokenFor(t, member)

	// Missing rating.
	w := doJSON(r, http.MethodPost, "/reviews", token, map[string]any{"book_id": book.ID})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.True(t, hasFieldError(fieldErrors(t, w), "rating", domain.MsgBlank))

	// Out of range, both directions.
	for _, rating := range []int{-1, 6} {
		w = doJSON(r, http.MethodPost, "/reviews", token, map[string]any{
			"book_id": book.ID,
			"rating":  rating,
		})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, "rating %d", rating)
		assert.True(t, hasFieldError(fieldErrors(t, w), "rating", domain.MsgRatingRange))
	}

	// The bounds themselves are fine.
	for _, rating := range []int{1, 5} {
		w = doJSON(r, http.MethodPost, "/reviews", token, map[string]any{
			"book_id": book.ID,
			"rating":  rating,
		})
		assert.Equal(t, http.StatusCreated, w.Code, "rating %d", rating)
	}
}

func TestReviewUnknownBook(t *testing.T) {
	r, gdb := setupTest(t)
	member := createUser(t, gdb, "member", domain.RoleMember)
	w := doJSON(r, http.MethodPost, "/reviews", tokenFor(t, member), map[string]any{
		"book_id": 5555,
		"rating":  3,
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.True(t, hasFieldError(fieldErrors(t, w), "book", domain.MsgMustExist))
}

// A member's delete is denied and the review survives; an admin's delete
// succeeds and it is gone.
func TestReviewDeleteRoleGating(t *testing.T) {
	r, gdb := setupTest(t)
	admin := createUser(t, gdb, "admin", domain.RoleAdmin)
	member := createUser(t, gdb, "member", domain.RoleMember)
	book := createBook(t, gdb, "Contentious", "9780000000032")
	review := domain.Review{UserID: member.ID, BookID: book.ID, Rating: 2, Comment: "Meh"}
	require.NoError(t, gdb.Create(&review).Error)
	path := fmt.Sprintf("/reviews/%d", review.ID)

	w := doJSON(r, http.MethodDelete, path, tokenFor(t, member), nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authorized", decodeBody(t, w)["error"])
	var count int64
	require.NoError(t, gdb.Model(&domain.Review{}).Where("id = ?", review.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "denied delete leaves the review in place")

	w = doJSON(r, http.MethodDelete, path, tokenFor(t, admin), nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.NoError(t, gdb.Model(&domain.Review{}).Where("id = ?", review.ID).Count(&count).Error)
	assert.Zero(t, count)
}

// Creation is member-only; admins review nothing.
func TestAdminCannotCreateReview(t *testing.T) {
	r, gdb := setupTest(t)
	admin := createUser(t, gdb, "admin", domain.RoleAdmin)
	book := createBook(t, gdb, "Off Limits", "9780000000033")

	w := doJSON(r, http.MethodPost, "/reviews", tokenFor(t, admin), map[string]any{
		"book_id": book.ID,
		"rating":  4,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authorized", decodeBody(t, w)["error"])
}

// Updates are open to any authenticated identity, not just the author.
func TestUpdateReviewAnyIdentity(t *testing.T) {
	r, gdb := setupTest(t)
	author := createUser(t, gdb, "author", domain.RoleMember)
	editor := createUser(t, gdb, "editor", domain.RoleMember)
	book := createBook(t, gdb, "Editable", "9780000000034")
	review := domain.Review{UserID: author.ID, BookID: book.ID, Rating: 4, Comment: "Good"}
	require.NoError(t, gdb.Create(&review).Error)

	w := doJSON(r, http.MethodPatch, fmt.Sprintf("/reviews/%d", review.ID), tokenFor(t, editor),
		map[string]any{"rating": 3, "comment": "Good, but could be better."})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.EqualValues(t, 3, body["rating"])
	assert.EqualValues(t, author.ID, body["user_id"], "authorship does not change on update")

	// The merged result is still validated.
	w = doJSON(r, http.MethodPatch, fmt.Sprintf("/reviews/%d", review.ID), tokenFor(t, editor),
		map[string]any{"rating": 9})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.True(t, hasFieldError(fieldErrors(t, w), "rating", domain.MsgRatingRange))
}

// Nothing enforces one review per (user, book).
func TestDuplicateReviewsAllowed(t *testing.T) {
	r, gdb := setupTest(t)
	member := createUser(t, gdb, "member", domain.RoleMember)
	book := createBook(t, gdb, "Twice Told", "9780000000035")
	token := tokenFor(t, member)

	for i := 0; i < 2; i++ {
		w := doJSON(r, http.MethodPost, "/reviews", token, map[string]any{
			"book_id": book.ID,
			"rating":  4,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	var count int64
	require.NoError(t, gdb.Model(&domain.Review{}).
		Where("user_id = ? AND book_id = ?", member.ID, book.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestReviewNotFound(t *testing.T) {
	r, gdb := setupTest(t)
	member := createUser(t, gdb, "member", domain.RoleMember)
	w := doJSON(r, http.MethodGet, "/reviews/8080", tokenFor(t, member), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Review not found", decodeBody(t, w)["error"])
}
