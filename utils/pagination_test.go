package utils

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextFor(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestParsePagination(t *testing.T) {
	c, _ := contextFor("/posts")
	page, limit, fields := ParsePagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)
	assert.Empty(t, fields)

	c, _ = contextFor("/posts?page=3&limit=500")
	page, limit, fields = ParsePagination(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, MaxLimit, limit)
	assert.Empty(t, fields)

	c, _ = contextFor("/posts?page=-1&limit=ten")
	_, _, fields = ParsePagination(c)
	assert.Equal(t, []ValidationError{
		{Field: "page", Message: "must be a positive integer"},
		{Field: "limit", Message: "must be a positive integer"},
	}, fields)
}

func TestParsePaginationRejectsOverflowingPage(t *testing.T) {
	c, _ := contextFor("/posts?page=922337203685477582&limit=10")
	_, _, fields := ParsePagination(c)
	assert.Equal(t, []ValidationError{{Field: "page", Message: "is out of range"}}, fields)

	// Largest page whose offset still fits.
	c, _ = contextFor("/posts?page=" + strconv.Itoa(MaxOffset/10+1) + "&limit=10")
	page, _, fields := ParsePagination(c)
	assert.Empty(t, fields)
	assert.Equal(t, MaxOffset/10+1, page)
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, PageOffset(1, 10))
	assert.Equal(t, 20, PageOffset(3, 10))
	assert.Equal(t, 0, PageOffset(0, 10))
	assert.Equal(t, MaxOffset, PageOffset(math.MaxInt64/10+2, 10))
	assert.Equal(t, MaxOffset, PageOffset(math.MaxInt, 1))
}

func TestParseID(t *testing.T) {
	c, w := contextFor("/posts/7")
	c.Params = gin.Params{{Key: "postId", Value: "7"}}
	id, ok := ParseID(c, "postId")
	assert.True(t, ok)
	assert.Equal(t, uint(7), id)

	c, w = contextFor("/posts/0")
	c.Params = gin.Params{{Key: "postId", Value: "0"}}
	_, ok = ParseID(c, "postId")
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSendAppErrorHidesInternalDetails(t *testing.T) {
	c, w := contextFor("/")
	SendAppError(c, NewDatabaseError("query failed", assert.AnError))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "query failed")

	c, w = contextFor("/")
	SendAppError(c, NewNotFoundError("Post not found"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not Found","message":"Post not found","code":404}`, w.Body.String())
}
