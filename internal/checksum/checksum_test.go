package checksum

import "testing"

func TestSum_Stable(t *testing.T) {
	a := Sum([]byte("hello"))
	b := Sum([]byte("hello"))
	if a != b {
		t.Fatalf("checksum not stable: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("len = %d, want 64", len(a))
	}
	if Sum([]byte("hello!")) == a {
		t.Error("different input produced same checksum")
	}
}

func TestMatchesETag(t *testing.T) {
	sum := Sum([]byte("body"))
	cases := []struct {
		header string
		want   bool
	}{
		{"", false},
		{ETag(sum), true},
		{"W/" + ETag(sum), true},
		{`"other", ` + ETag(sum), true},
		{`"other"`, false},
		{"*", true},
	}
	for _, c := range cases {
		if got := MatchesETag(c.header, sum); got != c.want {
			t.Errorf("MatchesETag(%q) = %v, want %v", c.header, got, c.want)
		}
	}
}
