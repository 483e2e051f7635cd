package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/ValentinKolb/dSync/lib/store"
)

func TestMessageTypeJSON(t *testing.T) {
	for msgType := MsgTUnknown; msgType <= MsgTSuccess; msgType++ {
		data, err := json.Marshal(msgType)
		if err != nil {
			t.Fatalf("Marshal(%d) failed: %v", msgType, err)
		}
		var decoded MessageType
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", data, err)
		}
		if decoded != msgType {
			t.Errorf("round trip of %s = %s", msgType, decoded)
		}
	}

	var decoded MessageType
	if err := json.Unmarshal([]byte(`"no_such_method"`), &decoded); err == nil {
		t.Errorf("expected error for unknown message type")
	}
}

func TestResponseCarriesDomainError(t *testing.T) {
	resp := NewAcquireValueSetResponse("", nil, store.Errorf(store.RetCNoMatch, "no set with tags %v", []string{"x"}))

	if resp.Code != uint64(store.RetCNoMatch) {
		t.Errorf("Code = %d, want %d", resp.Code, store.RetCNoMatch)
	}

	err := resp.AsError()
	if !errors.Is(err, store.ErrNoMatch) {
		t.Errorf("AsError() = %v, want ErrNoMatch", err)
	}
}

func TestResponseCarriesPlainError(t *testing.T) {
	resp := NewRunKeywordResponse("", fmt.Errorf("boom"))

	err := resp.AsError()
	if !errors.Is(err, store.ErrInternal) {
		t.Errorf("AsError() = %v, want internal error", err)
	}
	if resp.Err != "boom" {
		t.Errorf("Err = %q, want %q", resp.Err, "boom")
	}
}

func TestResponseWithoutError(t *testing.T) {
	resp := NewAcquireLockResponse(true, nil)
	if err := resp.AsError(); err != nil {
		t.Errorf("AsError() = %v, want nil", err)
	}
	if !resp.Ok {
		t.Errorf("Ok = false, want true")
	}
}
