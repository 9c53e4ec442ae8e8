package lnmarkets

import "testing"

// The golden vectors below were computed once with a fixed dummy secret and
// serve as a regression baseline; a live secret is never needed here.
func TestSign_GoldenVector(t *testing.T) {
	got := Sign("1700000000000", "GET", "/v2/futures", "type=closed&limit=1000", []byte("test"))
	want := "2vA1TBtrSV2LVUsfBzXDiNR02zElXkLKQ5/XDYSQ54A="
	if got != want {
		t.Errorf("Sign() = %s, want %s", got, want)
	}
}

func TestSign_EmptyQueryString(t *testing.T) {
	got := Sign("1700000000000", "POST", "/v2/futures", "", []byte("test"))
	want := "FBzW+UQwtkJCJNxicA0ZB37qniuXCNwl2lnaNVf8TKs="
	if got != want {
		t.Errorf("Sign() = %s, want %s", got, want)
	}
}

func TestSign_Deterministic(t *testing.T) {
	a := Sign("1700000000000", "GET", "/v2/futures", "type=closed&limit=1000", []byte("test"))
	b := Sign("1700000000000", "GET", "/v2/futures", "type=closed&limit=1000", []byte("test"))
	if a != b {
		t.Errorf("Sign() is not deterministic: %s != %s", a, b)
	}
}
