package types

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

func sampleSchema() *Response {
	inner := NewResponse()
	inner.Set(ResponseField{Key: "code", Kind: KindData})
	inner.Set(ResponseField{Key: "description", Kind: KindData})

	resp := NewResponse()
	resp.Set(ResponseField{Key: "success", Kind: KindData})
	resp.Set(ResponseField{Key: "errors", Kind: KindArray, Nested: inner})
	resp.Set(ResponseField{Key: "meta", Kind: KindObject, Nested: NewResponse()})
	return resp
}

func TestResponseSetKeepsOrder(t *testing.T) {
	resp := NewResponse()
	resp.Set(ResponseField{Key: "b", Kind: KindData})
	resp.Set(ResponseField{Key: "a", Kind: KindData})
	resp.Set(ResponseField{Key: "c", Kind: KindData})
	// replacement must not move the key
	resp.Set(ResponseField{Key: "a", Kind: KindArray})

	want := []string{"b", "a", "c"}
	got := resp.Keys()
	if len(got) != len(want) {
		t.Fatalf("got %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d = %q, want %q", i, got[i], want[i])
		}
	}
	f, ok := resp.Get("a")
	if !ok || f.Kind != KindArray {
		t.Errorf("Get(a) = %+v, %v, want replaced array field", f, ok)
	}
}

func TestResponseEqual(t *testing.T) {
	a := sampleSchema()
	b := sampleSchema()
	if !a.Equal(b) {
		t.Error("identical schemas not equal")
	}

	// key order must not matter
	c := NewResponse()
	c.Set(ResponseField{Key: "meta", Kind: KindObject, Nested: NewResponse()})
	c.Set(ResponseField{Key: "success", Kind: KindData})
	inner := NewResponse()
	inner.Set(ResponseField{Key: "description", Kind: KindData})
	inner.Set(ResponseField{Key: "code", Kind: KindData})
	c.Set(ResponseField{Key: "errors", Kind: KindArray, Nested: inner})
	if !a.Equal(c) {
		t.Error("reordered schema not equal")
	}

	d := sampleSchema()
	d.Set(ResponseField{Key: "extra", Kind: KindData})
	if a.Equal(d) {
		t.Error("schema with extra field reported equal")
	}

	e := sampleSchema()
	e.Set(ResponseField{Key: "success", Kind: KindObject, Nested: NewResponse()})
	if a.Equal(e) {
		t.Error("schema with changed kind reported equal")
	}
}

func TestResponseEqualNil(t *testing.T) {
	var nilResp *Response
	if !nilResp.Equal(NewResponse()) {
		t.Error("nil schema should equal empty schema")
	}
	if !nilResp.Equal(nil) {
		t.Error("nil schema should equal nil schema")
	}
	if nilResp.Equal(sampleSchema()) {
		t.Error("nil schema should not equal populated schema")
	}
}

func TestResponseJSONRoundTrip(t *testing.T) {
	resp := sampleSchema()
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// field order must survive marshalling
	s := string(data)
	iSuccess := strings.Index(s, `"success"`)
	iErrors := strings.Index(s, `"errors"`)
	iMeta := strings.Index(s, `"meta"`)
	if iSuccess < 0 || iErrors < 0 || iMeta < 0 {
		t.Fatalf("marshalled schema missing keys: %s", s)
	}
	if !(iSuccess < iErrors && iErrors < iMeta) {
		t.Errorf("keys out of order in %s", s)
	}

	var back Response
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Equal(&back) {
		t.Errorf("round trip changed schema: %s", data)
	}
	gotKeys := back.Keys()
	wantKeys := resp.Keys()
	for i := range wantKeys {
		if gotKeys[i] != wantKeys[i] {
			t.Errorf("round trip changed key order: got %v, want %v", gotKeys, wantKeys)
			break
		}
	}
}

func TestResponseMarshalEmpty(t *testing.T) {
	data, err := json.Marshal(NewResponse())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"fields":{}}` {
		t.Errorf("empty schema = %s, want {\"fields\":{}}", data)
	}
}

func TestRequestMarshalNilResponses(t *testing.T) {
	req := Request{Action: "get", Resource: "Students", Scope: "studentdetails", Version: 2}
	data, err := json.Marshal(&req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"success_response":null`) {
		t.Errorf("nil success response not null in %s", data)
	}
}

func TestResponseMarshalYAMLOrder(t *testing.T) {
	data, err := yaml.Marshal(sampleSchema())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	iSuccess := strings.Index(s, "success:")
	iErrors := strings.Index(s, "errors:")
	iMeta := strings.Index(s, "meta:")
	if iSuccess < 0 || iErrors < 0 || iMeta < 0 {
		t.Fatalf("yaml output missing keys:\n%s", s)
	}
	if !(iSuccess < iErrors && iErrors < iMeta) {
		t.Errorf("yaml keys out of order:\n%s", s)
	}
}

func TestRequestName(t *testing.T) {
	req := Request{Action: "get", Resource: "StudentDetails"}
	if got := req.Name(); got != "getStudentDetails" {
		t.Errorf("Name() = %q, want getStudentDetails", got)
	}
}
