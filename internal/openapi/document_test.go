package openapi

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParse_PreservesPathOrder(t *testing.T) {
	doc, err := Parse([]byte(`{
		"paths": {
			"/zebras": {"get": {"operationId": "ListZebras"}},
			"/apples": {"get": {"operationId": "ListApples"}},
			"/mangos": {"get": {"operationId": "ListMangos"}}
		}
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var keys []string
	for pair := doc.Paths.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	want := []string{"/zebras", "/apples", "/mangos"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("expected source order %v, got %v", want, keys)
	}
}

func TestParse_MissingPathsYieldsEmptyMap(t *testing.T) {
	doc, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.Paths == nil || doc.Paths.Len() != 0 {
		t.Errorf("expected empty paths map, got %v", doc.Paths)
	}
}

func TestParse_OperationFields(t *testing.T) {
	doc, err := Parse([]byte(`{
		"paths": {
			"/items/{id}": {
				"post": {
					"operationId": "UpdateItem",
					"description": "Update an item.",
					"parameters": [
						{"name": "id", "in": "path", "schema": {"type": "string"}},
						{"name": "idempotency-key", "in": "header", "schema": {"type": "string"}}
					],
					"requestBody": {"content": {
						"application/json": {"schema": {"$ref": "#/components/schemas/UpdateItem"}},
						"text/plain": {"schema": {"type": "string"}}
					}}
				}
			}
		},
		"components": {"schemas": {"UpdateItem": {"type": "object"}}}
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	item, ok := doc.Paths.Get("/items/{id}")
	if !ok {
		t.Fatal("expected path /items/{id}")
	}
	op := item.Operation("post")
	if op == nil || op.OperationID != "UpdateItem" {
		t.Fatalf("unexpected operation: %+v", op)
	}
	if len(op.Parameters) != 2 || op.Parameters[1].In != "header" {
		t.Errorf("unexpected parameters: %+v", op.Parameters)
	}

	// Only JSON content is recognized.
	body := op.RequestBody.JSONSchema()
	if body == nil || body.Ref != "#/components/schemas/UpdateItem" {
		t.Errorf("unexpected JSON body schema: %+v", body)
	}
	if item.Operation("get") != nil || item.Operation("put") != nil {
		t.Errorf("unexpected operations on path item")
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte(`{"paths": {"/ping": {"get": {"operationId": "Ping"}}}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Paths.Len() != 1 {
		t.Errorf("expected 1 path, got %d", doc.Paths.Len())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
