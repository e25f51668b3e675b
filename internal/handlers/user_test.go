package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/stretchr/testify/assert"

	"github.com/yukikurage/recipe-api/internal/dto"
	apierrors "github.com/yukikurage/recipe-api/internal/errors"
)

func (suite *HandlerTestSuite) TestRegister_Success() {
	w := suite.request(http.MethodPost, "/api/users", map[string]string{
		"email":    "test@example.com",
		"password": "testpass123",
		"name":     "Test Name",
	}, "")

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]any
	suite.decode(w, &response)
	assert.Equal(suite.T(), "test@example.com", response["email"])
	assert.NotContains(suite.T(), response, "password")
	assert.NotContains(suite.T(), response, "password_hash")
}

func (suite *HandlerTestSuite) TestRegister_DuplicateEmail() {
	suite.createTestUser("test@example.com")

	w := suite.request(http.MethodPost, "/api/users", map[string]string{
		"email":    "test@example.com",
		"password": "testpass123",
	}, "")

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestRegister_PasswordTooShort() {
	w := suite.request(http.MethodPost, "/api/users", map[string]string{
		"email":    "test@example.com",
		"password": "pw",
	}, "")

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response apierrors.APIError
	suite.decode(w, &response)
	assert.Equal(suite.T(), apierrors.ErrCodeValidationFailed, response.Code)
	assert.Contains(suite.T(), response.Details, "password")

	var count int64
	suite.db.Table("users").Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *HandlerTestSuite) TestRegister_RateLimited() {
	codes := map[int]int{}
	for i := range 8 {
		w := suite.request(http.MethodPost, "/api/users", map[string]string{
			"email":    "user" + string(rune('a'+i)) + "@example.com",
			"password": "testpass123",
		}, "")
		codes[w.Code]++
	}

	assert.Greater(suite.T(), codes[http.StatusTooManyRequests], 0)
}

func (suite *HandlerTestSuite) TestToken_Success() {
	suite.createTestUser("test@example.com")

	w := suite.request(http.MethodPost, "/api/users/token", map[string]string{
		"email":    "test@example.com",
		"password": "testpass123",
	}, "")

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TokenDTO
	suite.decode(w, &response)
	assert.NotEmpty(suite.T(), response.Token)

	me := suite.request(http.MethodGet, "/api/users/me", nil, response.Token)
	assert.Equal(suite.T(), http.StatusOK, me.Code)
}

func (suite *HandlerTestSuite) TestToken_InvalidCredentials() {
	suite.createTestUser("test@example.com")

	for _, payload := range []map[string]string{
		{"email": "test@example.com", "password": "badpass"},
		{"email": "nobody@example.com", "password": "testpass123"},
		{"email": "test@example.com", "password": ""},
	} {
		w := suite.request(http.MethodPost, "/api/users/token", payload, "")
		assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

		var response apierrors.APIError
		suite.decode(w, &response)
		assert.Equal(suite.T(), apierrors.ErrCodeInvalidCredentials, response.Code)
		assert.NotContains(suite.T(), w.Body.String(), "token\"")
	}
}

func (suite *HandlerTestSuite) TestSessionLoginAndLogout() {
	suite.createTestUser("test@example.com")

	login := suite.request(http.MethodPost, "/api/users/token", map[string]string{
		"email":    "test@example.com",
		"password": "testpass123",
	}, "")
	suite.Require().Equal(http.StatusOK, login.Code)
	cookies := login.Result().Cookies()
	suite.Require().NotEmpty(cookies)

	withCookies := func(method, url string, cookies []*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, url, nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		suite.router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(suite.T(), http.StatusOK, withCookies(http.MethodGet, "/api/users/me", cookies).Code)

	logout := withCookies(http.MethodPost, "/api/users/logout", cookies)
	assert.Equal(suite.T(), http.StatusOK, logout.Code)

	assert.Equal(suite.T(), http.StatusUnauthorized,
		withCookies(http.MethodGet, "/api/users/me", logout.Result().Cookies()).Code)
}

func (suite *HandlerTestSuite) TestMe_Unauthorized() {
	w := suite.request(http.MethodGet, "/api/users/me", nil, "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w = suite.request(http.MethodGet, "/api/users/me", nil, "not-a-jwt")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestMe_Success() {
	user, token := suite.createTestUser("test@example.com")

	w := suite.request(http.MethodGet, "/api/users/me", nil, token)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var response dto.UserDTO
	suite.decode(w, &response)
	assert.Equal(suite.T(), dto.ToUserDTO(*user), response)
}

func (suite *HandlerTestSuite) TestUpdateMe() {
	_, token := suite.createTestUser("test@example.com")

	w := suite.request(http.MethodPatch, "/api/users/me", map[string]string{
		"name":     "Updated name",
		"password": "newpassword123",
	}, token)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var response dto.UserDTO
	suite.decode(w, &response)
	assert.Equal(suite.T(), "Updated name", response.Name)

	_, _, err := suite.svc.Users.Authenticate(servicesLogin("test@example.com", "newpassword123"))
	assert.NoError(suite.T(), err)
}

func (suite *HandlerTestSuite) TestReplaceMe_RequiresEmailAndPassword() {
	_, token := suite.createTestUser("test@example.com")

	w := suite.request(http.MethodPut, "/api/users/me", map[string]string{"name": "Only name"}, token)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.True(suite.T(), strings.Contains(w.Body.String(), "email"))
}

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.request(http.MethodGet, "/api/health", nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}
