package client

import (
	"strings"
	"testing"

	"coursefetch/internal"
)

type testEntity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestDecodeListBareArray(t *testing.T) {
	body := []byte(`{"success":true,"data":[{"id":"a","name":"Alpha"},{"id":"b","name":"Beta"}]}`)

	items, err := decodeList[testEntity]("test", "load items", 200, body, matchBareArray, matchNestedArray)
	if err != nil {
		t.Fatalf("decodeList failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].ID != "a" || items[1].Name != "Beta" {
		t.Errorf("Unexpected items: %+v", items)
	}
}

func TestDecodeListNestedArray(t *testing.T) {
	body := []byte(`{"success":true,"data":{"data":[{"id":"a","name":"Alpha"},{"id":"b","name":"Beta"}]}}`)

	items, err := decodeList[testEntity]("test", "load items", 200, body, matchBareArray, matchNestedArray)
	if err != nil {
		t.Fatalf("decodeList failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
}

func TestDecodeListEquivalentShapes(t *testing.T) {
	// The same logical content through both list shapes must produce
	// the same entities.
	bare := []byte(`{"success":true,"data":[{"id":"x","name":"X"}]}`)
	nested := []byte(`{"success":true,"data":{"data":[{"id":"x","name":"X"}]}}`)

	fromBare, err := decodeList[testEntity]("test", "load items", 200, bare, matchBareArray, matchNestedArray)
	if err != nil {
		t.Fatalf("bare shape failed: %v", err)
	}
	fromNested, err := decodeList[testEntity]("test", "load items", 200, nested, matchBareArray, matchNestedArray)
	if err != nil {
		t.Fatalf("nested shape failed: %v", err)
	}

	if len(fromBare) != len(fromNested) || fromBare[0] != fromNested[0] {
		t.Errorf("Shapes disagree: %+v vs %+v", fromBare, fromNested)
	}
}

func TestDecodeListEmptyArrayIsOk(t *testing.T) {
	body := []byte(`{"success":true,"data":[]}`)

	items, err := decodeList[testEntity]("test", "load items", 200, body, matchBareArray)
	if err != nil {
		t.Fatalf("Empty list should be Ok, got: %v", err)
	}
	if items == nil {
		t.Fatal("Empty list should decode to a non-nil slice")
	}
	if len(items) != 0 {
		t.Errorf("Expected 0 items, got %d", len(items))
	}
}

func TestDecodeListSuccessFalseNeverOk(t *testing.T) {
	// success:false fails even when a well-formed payload is present.
	body := []byte(`{"success":false,"message":"nope","data":[{"id":"a","name":"Alpha"}]}`)

	_, err := decodeList[testEntity]("test", "load items", 200, body, matchBareArray)
	if err == nil {
		t.Fatal("Expected failure when success is false")
	}
	if !internal.IsType(err, internal.ErrBusinessFailure) {
		t.Errorf("Expected business failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "nope") {
		t.Errorf("Expected server message in error, got %q", err.Error())
	}
}

func TestDecodeListMissingPayloadFails(t *testing.T) {
	body := []byte(`{"success":true,"message":"fine"}`)

	_, err := decodeList[testEntity]("test", "load items", 200, body, matchBareArray, matchNestedArray)
	if err == nil {
		t.Fatal("Expected failure when payload is absent")
	}
	if !internal.IsType(err, internal.ErrBusinessFailure) {
		t.Errorf("Expected business failure, got %v", err)
	}
}

func TestDecodeListStatusErrorEmbedsCode(t *testing.T) {
	// The body must not be parsed on a non-2xx status.
	_, err := decodeList[testEntity]("test", "load items", 503, []byte(`not json`), matchBareArray)
	if err == nil {
		t.Fatal("Expected failure on HTTP 503")
	}
	if !internal.IsType(err, internal.ErrHTTPStatus) {
		t.Errorf("Expected status error, got %v", err)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("Expected status code in message, got %q", err.Error())
	}
}

func TestDecodeListMalformedJSON(t *testing.T) {
	_, err := decodeList[testEntity]("test", "load items", 200, []byte(`{not json`), matchBareArray)
	if err == nil {
		t.Fatal("Expected failure on malformed JSON")
	}
	if !internal.IsType(err, internal.ErrMalformedPayload) {
		t.Errorf("Expected parse failure, got %v", err)
	}
	if strings.Contains(err.Error(), "invalid character") {
		t.Errorf("Parser internals leaked into message: %q", err.Error())
	}
}

func TestDecodeListShapeNotAccepted(t *testing.T) {
	// A bare array fails when only the nested shape is accepted.
	body := []byte(`{"success":true,"data":[{"id":"a","name":"Alpha"}]}`)

	_, err := decodeList[testEntity]("test", "load items", 200, body, matchNestedArray)
	if err == nil {
		t.Fatal("Expected failure for unaccepted shape")
	}
}

func TestDecodeListSuccessWrongTypeDefaultsFalse(t *testing.T) {
	body := []byte(`{"success":"yes","data":[{"id":"a","name":"Alpha"}]}`)

	_, err := decodeList[testEntity]("test", "load items", 200, body, matchBareArray)
	if err == nil {
		t.Fatal("Expected failure when success is not a boolean")
	}
}

func TestDecodeObject(t *testing.T) {
	body := []byte(`{"success":true,"data":{"id":"a","name":"Alpha"}}`)

	item, err := decodeObject[testEntity]("test", "load item", 200, body)
	if err != nil {
		t.Fatalf("decodeObject failed: %v", err)
	}
	if item.ID != "a" || item.Name != "Alpha" {
		t.Errorf("Unexpected item: %+v", item)
	}
}

func TestDecodeObjectNullPayloadFails(t *testing.T) {
	body := []byte(`{"success":true,"data":null}`)

	_, err := decodeObject[testEntity]("test", "load item", 200, body)
	if err == nil {
		t.Fatal("Expected failure for null payload")
	}
	if !internal.IsType(err, internal.ErrBusinessFailure) {
		t.Errorf("Expected business failure, got %v", err)
	}
}

func TestDecodeObjectCaseInsensitiveFields(t *testing.T) {
	body := []byte(`{"Success":true,"Data":{"Id":"a","NAME":"Alpha"}}`)

	item, err := decodeObject[testEntity]("test", "load item", 200, body)
	if err != nil {
		t.Fatalf("decodeObject failed: %v", err)
	}
	if item.ID != "a" || item.Name != "Alpha" {
		t.Errorf("Case-insensitive matching failed: %+v", item)
	}
}

func TestDecodeObjectUnknownFieldsIgnored(t *testing.T) {
	body := []byte(`{"success":true,"extra":42,"data":{"id":"a","name":"Alpha","stray":[1,2]}}`)

	item, err := decodeObject[testEntity]("test", "load item", 200, body)
	if err != nil {
		t.Fatalf("decodeObject failed: %v", err)
	}
	if item.ID != "a" {
		t.Errorf("Unexpected item: %+v", item)
	}
}
