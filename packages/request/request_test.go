package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_HeaderUniquenessAndOrder(t *testing.T) {
	r := New("GET", "https://api.test/users")
	r.SetHeader("Accept", "application/json")
	r.SetHeader("Authorization", "Bearer one")
	r.SetHeader("X-Trace", "t1")

	// Overwriting keeps the key at its original position.
	r.SetHeader("Authorization", "Bearer two")

	headers := r.Headers()
	require.Len(t, headers, 3)
	assert.Equal(t, Header{Key: "Accept", Value: "application/json"}, headers[0])
	assert.Equal(t, Header{Key: "Authorization", Value: "Bearer two"}, headers[1])
	assert.Equal(t, Header{Key: "X-Trace", Value: "t1"}, headers[2])

	assert.Equal(t, "Bearer two", r.Header("Authorization"))
	assert.Empty(t, r.Header("Missing"))
}

func TestRequest_HeadersReturnsCopy(t *testing.T) {
	r := New("GET", "https://api.test")
	r.SetHeader("A", "1")

	headers := r.Headers()
	headers[0].Value = "mutated"
	assert.Equal(t, "1", r.Header("A"))
}

func TestRequest_Clone(t *testing.T) {
	r := New("POST", "{{BASE_URL}}/users")
	r.SetHeader("Content-Type", "application/json")
	r.SetBody(`{"name": "{{NAME}}"}`)
	r.SetMetadata("service", "users.v1.Users")

	clone := r.Clone()
	clone.URL = "https://resolved.test/users"
	clone.SetHeader("Content-Type", "text/plain")
	clone.SetMetadata("service", "other")

	assert.Equal(t, "{{BASE_URL}}/users", r.URL)
	assert.Equal(t, "application/json", r.Header("Content-Type"))
	assert.Equal(t, "users.v1.Users", r.Metadata["service"])
}

func TestRequest_JSONRoundTrip(t *testing.T) {
	r := New("PUT", "https://api.test/items/1")
	r.SetHeader("Authorization", "Bearer tok")
	r.SetHeader("Accept", "application/json")
	r.SetBody(`{"done": true}`)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var back Request
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r.Method, back.Method)
	assert.Equal(t, r.URL, back.URL)
	assert.Equal(t, r.Body, back.Body)
	assert.Equal(t, r.Headers(), back.Headers())
}
