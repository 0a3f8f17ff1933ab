package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocktailgram/backend/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	db := SetupTestDB(t)
	router, _ := setupTestRouter(t, db)

	register := map[string]interface{}{
		"username":   "alice",
		"email":      "alice@example.com",
		"first_name": "Alice",
		"last_name":  "Cooper",
		"password":   "password123",
	}

	w := performRequest(router, "POST", "/api/v1/auth/register", register, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "alice@example.com", user["email"])

	t.Run("password hash never leaks", func(t *testing.T) {
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := map[string]interface{}{
			"username":   "alice2",
			"email":      "alice@example.com",
			"first_name": "Alice",
			"last_name":  "Cooper",
			"password":   "password123",
		}
		w := performRequest(router, "POST", "/api/v1/auth/register", dup, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		dup := map[string]interface{}{
			"username":   "alice",
			"email":      "other@example.com",
			"first_name": "Alice",
			"last_name":  "Cooper",
			"password":   "password123",
		}
		w := performRequest(router, "POST", "/api/v1/auth/register", dup, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		bad := map[string]interface{}{
			"username":   "bob",
			"email":      "bob@example.com",
			"first_name": "Bob",
			"last_name":  "Stone",
			"password":   "short",
		}
		w := performRequest(router, "POST", "/api/v1/auth/register", bad, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("login succeeds with the right password", func(t *testing.T) {
		w := performRequest(router, "POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "alice@example.com",
			"password": "password123",
		}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["token"])
	})

	t.Run("login fails with a wrong password", func(t *testing.T) {
		w := performRequest(router, "POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "alice@example.com",
			"password": "wrongpassword",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("login fails for an unknown account", func(t *testing.T) {
		w := performRequest(router, "POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "nobody@example.com",
			"password": "password123",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestMe(t *testing.T) {
	db := SetupTestDB(t)
	router, authService := setupTestRouter(t, db)
	user, token := CreateTestUserAndToken(t, authService, "alice")

	t.Run("anonymous is rejected", func(t *testing.T) {
		w := performRequest(router, "GET", "/api/v1/users/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed token is rejected", func(t *testing.T) {
		w := performRequest(router, "GET", "/api/v1/users/me", nil, "not-a-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("authenticated caller sees their profile", func(t *testing.T) {
		w := performRequest(router, "GET", "/api/v1/users/me", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, user.ID.String(), resp["id"])
		assert.Equal(t, "alice", resp["username"])
	})
}

func TestSubscriptions(t *testing.T) {
	db := SetupTestDB(t)
	router, authService := setupTestRouter(t, db)
	fx := setupRecipeFixture(t, db)
	alice, aliceToken := CreateTestUserAndToken(t, authService, "alice")
	author, authorToken := CreateTestUserAndToken(t, authService, "chef")

	// The author publishes three recipes for the recipes_limit check.
	for _, name := range []string{"Pancakes", "Cake", "Waffles"} {
		createRecipeViaAPI(t, router, authorToken, recipeBody(name, []uuid.UUID{fx.breakfast.ID}, []map[string]interface{}{
			{"id": fx.flour.ID, "amount": 100},
		}))
	}

	t.Run("self subscription is rejected", func(t *testing.T) {
		w := performRequest(router, "POST", "/api/v1/users/"+alice.ID.String()+"/subscribe", nil, aliceToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("subscribing to a missing user is a 404", func(t *testing.T) {
		w := performRequest(router, "POST", "/api/v1/users/"+uuid.NewString()+"/subscribe", nil, aliceToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("subscribe", func(t *testing.T) {
		w := performRequest(router, "POST", "/api/v1/users/"+author.ID.String()+"/subscribe", nil, aliceToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "chef", resp["username"])
		assert.True(t, resp["is_subscribed"].(bool))
		assert.Equal(t, float64(3), resp["recipes_count"])
	})

	t.Run("double subscribe is rejected", func(t *testing.T) {
		w := performRequest(router, "POST", "/api/v1/users/"+author.ID.String()+"/subscribe", nil, aliceToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var count int64
		require.NoError(t, db.Model(&models.Subscription{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("subscription flag shows on the author profile", func(t *testing.T) {
		w := performRequest(router, "GET", "/api/v1/users/"+author.ID.String(), nil, aliceToken)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp["is_subscribed"].(bool))

		// Anonymous callers always see false.
		w = performRequest(router, "GET", "/api/v1/users/"+author.ID.String(), nil, "")
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp["is_subscribed"].(bool))
	})

	t.Run("subscriptions listing truncates recipes", func(t *testing.T) {
		w := performRequest(router, "GET", "/api/v1/users/subscriptions?recipes_limit=2", nil, aliceToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Count   int                      `json:"count"`
			Results []map[string]interface{} `json:"results"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, 1, resp.Count)
		require.Len(t, resp.Results, 1)

		entry := resp.Results[0]
		assert.Equal(t, "chef", entry["username"])
		assert.Equal(t, float64(3), entry["recipes_count"])
		assert.Len(t, entry["recipes"].([]interface{}), 2)
	})

	t.Run("unsubscribe", func(t *testing.T) {
		w := performRequest(router, "DELETE", "/api/v1/users/"+author.ID.String()+"/subscribe", nil, aliceToken)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = performRequest(router, "DELETE", "/api/v1/users/"+author.ID.String()+"/subscribe", nil, aliceToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListUsers(t *testing.T) {
	db := SetupTestDB(t)
	router, authService := setupTestRouter(t, db)
	CreateTestUserAndToken(t, authService, "alice")
	CreateTestUserAndToken(t, authService, "bob")

	w := performRequest(router, "GET", "/api/v1/users", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count   int                      `json:"count"`
		Results []map[string]interface{} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "alice", resp.Results[0]["username"])
	assert.Equal(t, "bob", resp.Results[1]["username"])
}
