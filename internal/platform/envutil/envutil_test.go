package envutil

import (
	"testing"
	"time"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("AMEL_TEST_INT", "abc")
	if got := Int("AMEL_TEST_INT", 7); got != 7 {
		t.Fatalf("Int: want=7 got=%d", got)
	}
	t.Setenv("AMEL_TEST_INT", " 42 ")
	if got := Int("AMEL_TEST_INT", 7); got != 42 {
		t.Fatalf("Int: want=42 got=%d", got)
	}
}

func TestDurationAcceptsSecondsAndUnits(t *testing.T) {
	t.Setenv("AMEL_TEST_DUR", "30")
	if got := Duration("AMEL_TEST_DUR", time.Second); got != 30*time.Second {
		t.Fatalf("Duration secs: got=%s", got)
	}
	t.Setenv("AMEL_TEST_DUR", "2m")
	if got := Duration("AMEL_TEST_DUR", time.Second); got != 2*time.Minute {
		t.Fatalf("Duration units: got=%s", got)
	}
}

func TestListAndBool(t *testing.T) {
	t.Setenv("AMEL_TEST_LIST", "a, ,b,")
	got := List("AMEL_TEST_LIST", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("List: got=%v", got)
	}
	t.Setenv("AMEL_TEST_BOOL", "off")
	if Bool("AMEL_TEST_BOOL", true) {
		t.Fatalf("Bool: expected false")
	}
}
