package platform

import "testing"

func TestAppendMachine(t *testing.T) {
	cases := []struct{ desc, machine, want string }{
		{"Ubuntu 22.04.3 LTS", "x86_64", "Ubuntu 22.04.3 LTS x86_64"},
		{"Ubuntu 22.04.3 LTS", "", "Ubuntu 22.04.3 LTS"},
	}
	for _, c := range cases {
		if got := appendMachine(c.desc, c.machine); got != c.want {
			t.Fatalf("appendMachine(%q, %q) = %q, want %q", c.desc, c.machine, got, c.want)
		}
	}
}
