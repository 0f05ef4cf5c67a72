package dto

import (
	"encoding/json"
	"testing"
	"time"

	"users-api/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalDate_Unmarshal(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantSet  bool
		wantDate string // empty means nil value
		wantErr  bool
	}{
		{name: "absent", body: `{}`},
		{name: "null", body: `{"birthday":null}`, wantSet: true},
		{name: "empty string", body: `{"birthday":""}`, wantSet: true},
		{name: "date", body: `{"birthday":"1990-05-17"}`, wantSet: true, wantDate: "1990-05-17"},
		{name: "timestamp", body: `{"birthday":"1990-05-17T23:30:00Z"}`, wantSet: true, wantDate: "1990-05-17"},
		{name: "garbage", body: `{"birthday":"yesterday"}`, wantErr: true},
		{name: "number", body: `{"birthday":19900517}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateUserRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSet, req.Birthday.Set)
			if tt.wantDate == "" {
				assert.Nil(t, req.Birthday.Value)
				return
			}
			require.NotNil(t, req.Birthday.Value)
			assert.Equal(t, tt.wantDate, req.Birthday.Value.Format(DateLayout))
		})
	}
}

func TestFromModelToUserResponse(t *testing.T) {
	birthday := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	user := &models.User{
		ID:        42,
		FirstName: "Ana",
		LastName:  "Lopez",
		Email:     "ana@x.com",
		Password:  "$2a$10$digest",
		Birthday:  &birthday,
	}

	resp := FromModelToUserResponse(user)
	require.NotNil(t, resp.Birthday)
	assert.Equal(t, "1990-05-17", *resp.Birthday)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "digest")

	user.Birthday = nil
	body, err = json.Marshal(FromModelToUserResponse(user))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"birthday":null`)
}

func TestFromModelsToUserResponses_Empty(t *testing.T) {
	out := FromModelsToUserResponses(nil)
	assert.NotNil(t, out)
	assert.Len(t, out, 0)
}
