package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nestedCollection = `{
  "info": {"name": "Shop API", "description": "storefront calls"},
  "item": [
    {"name": "ping", "request": {"method": "GET", "url": "https://shop.test/ping"}},
    {
      "name": "Users",
      "item": [
        {"name": "list users", "request": {
          "method": "GET",
          "url": {"raw": "{{BASE_URL}}/users"},
          "header": [{"key": "Authorization", "value": "Bearer {{TOKEN}}"}]
        }},
        {"name": "create user", "request": {
          "method": "post",
          "url": "{{BASE_URL}}/users",
          "body": {"mode": "raw", "raw": "{\"name\": \"Ada\"}"}
        }}
      ]
    },
    {"name": "health", "request": {"method": "GET", "url": "https://shop.test/health"}}
  ]
}`

func TestParsePostman_FlattensPreOrder(t *testing.T) {
	d := Normalize(KindPostman, "file", "shop.postman.json", nestedCollection)

	assert.Empty(t, d.Error)
	assert.Equal(t, "Shop API", d.Name)
	assert.Equal(t, "storefront calls", d.Description)
	require.Len(t, d.Operations, 4)

	ids := make([]string, 0, 4)
	for _, op := range d.Operations {
		ids = append(ids, op.(*PostmanRequest).ID)
	}
	assert.Equal(t, []string{"0", "1-0", "1-1", "2"}, ids)

	listUsers := d.Operations[1].(*PostmanRequest)
	assert.Equal(t, "list users", listUsers.Name)
	assert.Equal(t, "GET", listUsers.Method)
	assert.Equal(t, "{{BASE_URL}}/users", listUsers.URL)
	require.Len(t, listUsers.Headers, 1)
	assert.Equal(t, "Authorization", listUsers.Headers[0].Key)

	createUser := d.Operations[2].(*PostmanRequest)
	assert.Equal(t, "POST", createUser.Method)
	assert.Equal(t, `{"name": "Ada"}`, createUser.Body)
}

func TestParsePostman_ItemsSpelling(t *testing.T) {
	src := `{
  "info": {"name": "Alt Export"},
  "items": [
    {"name": "Group", "items": [
      {"name": "inner", "method": "DELETE", "url": "https://alt.test/x"}
    ]}
  ]
}`

	d := Normalize(KindPostman, "file", "alt.json", src)
	assert.Empty(t, d.Error)
	require.Len(t, d.Operations, 1)

	op := d.Operations[0].(*PostmanRequest)
	assert.Equal(t, "0-0", op.ID)
	assert.Equal(t, "inner", op.Name)
	assert.Equal(t, "DELETE", op.Method)
	assert.Equal(t, "https://alt.test/x", op.URL)
}

func TestParsePostman_FolderRequiresItemsArray(t *testing.T) {
	// An item without an items array is a request leaf even when it has
	// no request fields; an empty items array still marks a folder.
	src := `{
  "info": {"name": "Edge"},
  "item": [
    {"name": "bare leaf"},
    {"name": "empty folder", "item": []}
  ]
}`

	d := Normalize(KindPostman, "file", "edge.json", src)
	require.Len(t, d.Operations, 1)

	op := d.Operations[0].(*PostmanRequest)
	assert.Equal(t, "0", op.ID)
	assert.Equal(t, "bare leaf", op.Name)
	assert.Equal(t, "GET", op.Method)
}

func TestParsePostman_MalformedJSON(t *testing.T) {
	d := Normalize(KindPostman, "file", "bad.json", "not json at all")
	assert.Empty(t, d.Operations)
	assert.Contains(t, d.Error, "parsing Postman collection")
}

func TestParsePostman_EmptyCollection(t *testing.T) {
	d := Normalize(KindPostman, "file", "empty.json", `{"info": {"name": "Void"}, "item": []}`)
	assert.Empty(t, d.Operations)
	assert.Equal(t, "collection has no items", d.Error)
}
