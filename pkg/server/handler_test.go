package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/oasmock/pkg/validation/deserialize"
	"github.com/getmockd/oasmock/pkg/generator"
	"github.com/getmockd/oasmock/pkg/mocker"
	"github.com/getmockd/oasmock/pkg/openapi"
	"github.com/getmockd/oasmock/pkg/validation"
)

const petsYAML = `
openapi: 3.0.3
info:
  title: Pets
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: listPets
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
            minimum: 1
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
              example:
                - id: 1
                  name: Rex
            application/xml:
              schema:
                type: array
                xml:
                  name: pets
                  wrapped: true
                items:
                  $ref: '#/components/schemas/Pet'
        '400':
          description: bad request
          content:
            application/json:
              example:
                error: bad request
    post:
      operationId: createPet
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
          application/x-www-form-urlencoded:
            schema:
              $ref: '#/components/schemas/Pet'
          application/xml:
            schema:
              $ref: '#/components/schemas/Pet'
      responses:
        '201':
          description: created
          headers:
            Location:
              schema:
                type: string
              example: /pets/1
          content:
            application/json:
              example:
                id: 1
                name: Rex
        '422':
          description: invalid
          content:
            application/problem+json: {}
  /pets/{petId}:
    get:
      operationId: getPet
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: integer
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
              examples:
                rex:
                  value:
                    id: 1
                    name: Rex
                tom:
                  value:
                    id: 2
                    name: Tom
        '404':
          description: not found
          content:
            application/json:
              example:
                message: not found
  /config:
    get:
      operationId: getConfig
      responses:
        '200':
          description: ok
          content:
            application/yaml:
              example:
                debug: true
  /ping:
    get:
      operationId: ping
      responses:
        '204':
          description: no content
  /items:
    get:
      operationId: listItems
      parameters:
        - name: limit
          in: query
          schema:
            $ref: '#/components/schemas/Limit'
        - name: ids
          in: query
          schema:
            type: array
            items:
              $ref: '#/components/schemas/Limit'
      responses:
        '200':
          description: ok
          content:
            application/json:
              example:
                ok: true
        '400':
          description: bad request
          content:
            application/json:
              example:
                bad: true
components:
  schemas:
    Limit:
      type: integer
      minimum: 1
    Pet:
      type: object
      required: [name]
      xml:
        name: pet
      properties:
        id:
          type: integer
          xml:
            attribute: true
        name:
          type: string
`

func newTestHandler(t *testing.T, opts ...Option) *Handler {
	t.Helper()
	spec, err := openapi.Load(context.Background(), []byte(petsYAML))
	require.NoError(t, err)

	validator := validation.NewRequestValidator(deserialize.NewDefaultRegistry(), validation.NewJSONSchemaValidator())
	m := mocker.New(generator.New(), mocker.WithValidator(validator))
	return NewHandler(spec, m, opts...)
}

func do(t *testing.T, h http.Handler, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHandler_StaticExample(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/pets", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"id":1,"name":"Rex"}]`, rec.Body.String())

	_, err := uuid.Parse(rec.Header().Get(HeaderRequestID))
	assert.NoError(t, err)
}

func TestHandler_RequestIDIsPropagated(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/pets", "", http.Header{HeaderRequestID: {"req-42"}})

	assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))
}

func TestHandler_GeneratedXML(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/pets", "", http.Header{"Accept": {"application/xml"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, `<?xml version="1.0" encoding="UTF-8"?>`), body)
	assert.Contains(t, body, `<pets><pet id="`)
	assert.Contains(t, body, `<name>`)
}

func TestHandler_YAMLExample(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/config", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	var out map[string]any
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, true, out["debug"])
}

func TestHandler_NoContent(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/ping", "", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Type"))
}

func TestHandler_RequestBodies(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{name: "json", contentType: "application/json", body: `{"name":"Rex"}`},
		{name: "json with charset", contentType: "application/json; charset=utf-8", body: `{"id":3,"name":"Rex"}`},
		{name: "form", contentType: "application/x-www-form-urlencoded", body: "name=Rex"},
		{name: "form with integer", contentType: "application/x-www-form-urlencoded", body: "id=1&name=Rex"},
		{name: "xml", contentType: "application/xml", body: `<pet><name>Rex</name></pet>`},
		{name: "xml integer attribute", contentType: "application/xml", body: `<pet id="1"><name>Rex</name></pet>`},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/pets", tt.body, http.Header{"Content-Type": {tt.contentType}})

			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			assert.Equal(t, "/pets/1", rec.Header().Get("Location"))
			assert.JSONEq(t, `{"id":1,"name":"Rex"}`, rec.Body.String())
		})
	}
}

func TestHandler_InvalidRequests(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		target      string
		contentType string
		body        string
		wantStatus  int
		wantType    string
		wantCode    string
	}{
		{
			name:        "schema violation uses problem document",
			method:      http.MethodPost,
			target:      "/pets",
			contentType: "application/json",
			body:        `{"id":1}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantType:    mocker.TypeValidationError,
			wantCode:    "required",
		},
		{
			name:        "missing body",
			method:      http.MethodPost,
			target:      "/pets",
			wantStatus:  http.StatusUnprocessableEntity,
			wantType:    mocker.TypeValidationError,
			wantCode:    validation.CodeRequired,
		},
		{
			name:        "unsupported media type",
			method:      http.MethodPost,
			target:      "/pets",
			contentType: "text/csv",
			body:        "name\nRex",
			wantStatus:  http.StatusUnprocessableEntity,
			wantType:    mocker.TypeValidationError,
			wantCode:    validation.CodeUnsupportedMediaType,
		},
		{
			name:        "form value not an integer",
			method:      http.MethodPost,
			target:      "/pets",
			contentType: "application/x-www-form-urlencoded",
			body:        "id=one&name=Rex",
			wantStatus:  http.StatusUnprocessableEntity,
			wantType:    mocker.TypeValidationError,
			wantCode:    "type",
		},
		{
			name:        "malformed json",
			method:      http.MethodPost,
			target:      "/pets",
			contentType: "application/json",
			body:        `{"name":`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantType:    mocker.TypeValidationError,
			wantCode:    validation.CodeInvalidBody,
		},
		{
			name:        "malformed xml",
			method:      http.MethodPost,
			target:      "/pets",
			contentType: "application/xml",
			body:        `<pet><name>Rex</pet>`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantType:    mocker.TypeValidationError,
			wantCode:    validation.CodeInvalidBody,
		},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.contentType != "" {
				header.Set("Content-Type", tt.contentType)
			}
			rec := do(t, h, tt.method, tt.target, tt.body, header)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

			problem := decodeJSON(t, rec)
			assert.Equal(t, tt.wantType, problem["type"])
			assert.EqualValues(t, tt.wantStatus, problem["status"])

			items, ok := problem["validation"].([]any)
			require.True(t, ok, "validation list missing: %v", problem)
			require.NotEmpty(t, items)
			codes := make([]any, 0, len(items))
			for _, item := range items {
				codes = append(codes, item.(map[string]any)["code"])
			}
			assert.Contains(t, codes, tt.wantCode)
		})
	}
}

func TestHandler_InvalidParameterUsesErrorResponse(t *testing.T) {
	h := newTestHandler(t)

	t.Run("query", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/pets?limit=0", "", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"bad request"}`, rec.Body.String())
	})

	t.Run("path", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/pets/abc", "", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"not found"}`, rec.Body.String())
	})
}

func TestHandler_ReferencedParameterSchemas(t *testing.T) {
	tests := []struct {
		target     string
		wantStatus int
		wantBody   string
	}{
		{target: "/items?limit=5", wantStatus: http.StatusOK, wantBody: `{"ok":true}`},
		{target: "/items?ids=1&ids=2", wantStatus: http.StatusOK, wantBody: `{"ok":true}`},
		{target: "/items?limit=0", wantStatus: http.StatusBadRequest, wantBody: `{"bad":true}`},
		{target: "/items?ids=1&ids=x", wantStatus: http.StatusBadRequest, wantBody: `{"bad":true}`},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, "", nil)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHandler_Prefer(t *testing.T) {
	tests := []struct {
		name       string
		prefer     string
		wantStatus int
		wantBody   string
		wantType   string
	}{
		{name: "first example by default", wantStatus: http.StatusOK, wantBody: `{"id":1,"name":"Rex"}`},
		{name: "named example", prefer: "example=tom", wantStatus: http.StatusOK, wantBody: `{"id":2,"name":"Tom"}`},
		{name: "quoted example", prefer: `example="tom"`, wantStatus: http.StatusOK, wantBody: `{"id":2,"name":"Tom"}`},
		{name: "status code", prefer: "code=404", wantStatus: http.StatusNotFound, wantBody: `{"message":"not found"}`},
		{name: "undeclared code", prefer: "code=418", wantStatus: http.StatusNotFound, wantType: mocker.TypeStatusCodeNotDefined},
		{name: "unknown example", prefer: "example=felix", wantStatus: http.StatusNotFound, wantType: mocker.TypeExampleNotFound},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.prefer != "" {
				header.Set("Prefer", tt.prefer)
			}
			rec := do(t, h, http.MethodGet, "/pets/1", "", header)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantType != "" {
				assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
				assert.Equal(t, tt.wantType, decodeJSON(t, rec)["type"])
				return
			}
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHandler_PreferDynamic(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/pets/1", "", http.Header{"Prefer": {"dynamic=true"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Contains(t, body, "id")
	assert.Contains(t, body, "name")
	assert.NotEqual(t, "Rex", body["name"])

	again := do(t, h, http.MethodGet, "/pets/1", "", http.Header{"Prefer": {"dynamic=true"}})
	assert.Equal(t, rec.Body.String(), again.Body.String())
}

func TestHandler_MockConfigDefaults(t *testing.T) {
	h := newTestHandler(t, WithMockConfig(mocker.Config{ExampleKey: "tom"}))

	rec := do(t, h, http.MethodGet, "/pets/1", "", nil)
	assert.JSONEq(t, `{"id":2,"name":"Tom"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/pets/1", "", http.Header{"Prefer": {"example=rex"}})
	assert.JSONEq(t, `{"id":1,"name":"Rex"}`, rec.Body.String())
}

func TestHandler_NotAcceptable(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/pets", "", http.Header{"Accept": {"application/yaml"}})

	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	assert.Equal(t, mocker.TypeNotAcceptable, decodeJSON(t, rec)["type"])
}

func TestHandler_Routing(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantType   string
	}{
		{name: "unknown path", method: http.MethodGet, target: "/owners", wantStatus: http.StatusNotFound, wantType: "route_not_found"},
		{name: "undeclared method", method: http.MethodDelete, target: "/pets", wantStatus: http.StatusMethodNotAllowed, wantType: "method_not_allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.target, "", nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantType, decodeJSON(t, rec)["type"])
		})
	}
}

func TestHandler_BodyTooLarge(t *testing.T) {
	h := newTestHandler(t, WithMaxBodySize(8))

	rec := do(t, h, http.MethodPost, "/pets", `{"name":"Rexxxxxxxxx"}`, http.Header{"Content-Type": {"application/json"}})

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "body_too_large", decodeJSON(t, rec)["type"])
}

func TestHandler_Head(t *testing.T) {
	spec, err := openapi.Load(context.Background(), []byte(`
openapi: 3.0.3
info: {title: Head, version: "1"}
paths:
  /status:
    head:
      responses:
        '200':
          description: ok
          content:
            text/plain:
              example: up
`))
	require.NoError(t, err)
	h := NewHandler(spec, mocker.New(nil))

	rec := do(t, h, http.MethodHead, "/status", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Content-Length"))
	assert.Empty(t, rec.Body.String())
}
