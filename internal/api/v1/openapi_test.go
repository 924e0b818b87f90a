package apiv1

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const specPath = "../../../public/docs/v1/openapi.yml"

func loadDocument(t *testing.T) *openapi3.T {
	t.Helper()
	doc, err := openapi3.NewLoader().LoadFromFile(specPath)
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
	return doc
}

func TestOpenAPIDocumentsRoutes(t *testing.T) {
	doc := loadDocument(t)

	for _, path := range []string{"/ping", "/membership"} {
		item := doc.Paths.Find(path)
		require.NotNil(t, item, path)
		assert.NotNil(t, item.Get, path)
	}
}

func TestResponsesMatchSchemas(t *testing.T) {
	doc := loadDocument(t)

	tests := []struct {
		user   string
		path   string
		schema string
		status int
	}{
		{user: "pro", path: "/api/v1/membership", schema: "Membership", status: 200},
		{user: "pending", path: "/api/v1/membership", schema: "Membership", status: 200},
		{user: "", path: "/api/v1/membership", schema: "Error", status: 401},
		{user: "", path: "/api/v1/ping", schema: "Pong", status: 200},
	}
	for _, tc := range tests {
		resp, err := newApp(tc.user).Test(httptest.NewRequest("GET", tc.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode)

		var body interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		schema := doc.Components.Schemas[tc.schema]
		require.NotNil(t, schema, tc.schema)
		assert.NoError(t, schema.Value.VisitJSON(body), tc.path)
	}
}
