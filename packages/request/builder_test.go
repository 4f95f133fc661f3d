package request

import (
	"testing"

	"github.com/apiprobe/apiprobe/packages/descriptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_REST(t *testing.T) {
	r := Seed(&descriptor.RESTOperation{
		Method:    "get",
		Path:      "/pets/{id}",
		ServerURL: "https://petstore.test/v1",
	})

	assert.Equal(t, "GET", r.Method)
	assert.Equal(t, "https://petstore.test/v1/pets/{id}", r.URL)
	assert.Equal(t, "application/json", r.Header("Content-Type"))
	assert.Empty(t, r.Body)
}

func TestSeed_RESTWithoutServer(t *testing.T) {
	r := Seed(&descriptor.RESTOperation{Method: "POST", Path: "/pets"})
	assert.Equal(t, "{{BASE_URL}}/pets", r.URL)
}

func TestSeed_GraphQL(t *testing.T) {
	r := Seed(&descriptor.GraphQLOperation{
		Fields: []string{"users", "posts", "comments", "tags"},
	})

	assert.Equal(t, "POST", r.Method)
	assert.Equal(t, "{{BASE_URL}}/graphql", r.URL)
	assert.Equal(t, "application/json", r.Header("Content-Type"))
	// Capped at the first three fields.
	assert.Equal(t, "query {\n  users\n  posts\n  comments\n}", r.Body)
}

func TestSeed_Grpc(t *testing.T) {
	r := Seed(&descriptor.GrpcMethod{
		Package:      "users.v1",
		Service:      "Users",
		Name:         "GetUser",
		RequestType:  "GetUserRequest",
		ResponseType: "User",
	})

	assert.Equal(t, "POST", r.Method)
	assert.Equal(t, "{{GRPC_ENDPOINT}}/users.v1.Users/GetUser", r.URL)
	assert.Equal(t, "users.v1.Users", r.Metadata["service"])
	assert.Equal(t, "GetUser", r.Metadata["method"])
	assert.JSONEq(t, `{"id": "123"}`, r.Body)
}

func TestSeed_Postman(t *testing.T) {
	r := Seed(&descriptor.PostmanRequest{
		ID:     "1-0",
		Name:   "create user",
		Method: "POST",
		URL:    "{{BASE_URL}}/users",
		Headers: []descriptor.Header{
			{Key: "Authorization", Value: "Bearer {{TOKEN}}"},
		},
		Body: `{"name": "Ada"}`,
	})

	assert.Equal(t, "POST", r.Method)
	assert.Equal(t, "{{BASE_URL}}/users", r.URL)
	assert.Equal(t, "Bearer {{TOKEN}}", r.Header("Authorization"))
	assert.Equal(t, `{"name": "Ada"}`, r.Body)
}

func TestSampleBody_SuffixShapes(t *testing.T) {
	tests := []struct {
		requestType string
		want        string
	}{
		{"GetUserRequest", `{"id": "123"}`},
		{"ListOrdersRequest", `{"page": 1, "pageSize": 10}`},
		{"CreateItemRequest", `{"name": "Example", "description": "Sample data"}`},
		{"UpdateItemRequest", `{"id": "123", "name": "Updated"}`},
		{"DeleteItemRequest", `{"id": "123"}`},
		{"WeirdMessage", `{"field1": "value1", "field2": 123, "field3": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.requestType, func(t *testing.T) {
			assert.JSONEq(t, tt.want, SampleBody(tt.requestType))
		})
	}
}

func TestSeed_UnknownOperation(t *testing.T) {
	r := Seed(nil)
	require.NotNil(t, r)
	assert.Equal(t, "GET", r.Method)
	assert.Empty(t, r.URL)
}
