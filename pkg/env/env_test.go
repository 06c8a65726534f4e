package env

import "testing"

func TestGetFallsBackOnUnsetOrBlank(t *testing.T) {
	t.Setenv("UMKM_ENV_TEST_SET", "  value  ")
	t.Setenv("UMKM_ENV_TEST_BLANK", "   ")

	if got := Get("UMKM_ENV_TEST_SET", "fallback"); got != "value" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	if got := Get("UMKM_ENV_TEST_BLANK", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}
	if got := Get("UMKM_ENV_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for unset value, got %q", got)
	}
}
