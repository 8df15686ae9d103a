package domain

import (
	"encoding/json"
	"testing"
)

func TestParsePlayerIDs(t *testing.T) {
	ids, err := ParsePlayerIDs(" 1, 2,,3 ")
	if err != nil || len(ids) != 3 || ids[2] != 3 {
		t.Fatalf("unexpected ids=%v err=%v", ids, err)
	}
	if _, err := ParsePlayerIDs("1,x"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestPlayerID_JSON两种形态(t *testing.T) {
	var ids []PlayerID
	if err := json.Unmarshal([]byte(`[10001779, "10001780"]`), &ids); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(ids) != 2 || ids[0] != 10001779 || ids[1] != 10001780 {
		t.Fatalf("ids=%v", ids)
	}
	var id PlayerID
	if err := json.Unmarshal([]byte(`"abc"`), &id); err == nil {
		t.Fatalf("expected error")
	}
}
