package sessioncookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReadTrimsAndValidates(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := Read(r); ok {
		t.Fatal("expected no session without cookie")
	}

	r.AddCookie(&http.Cookie{Name: Name, Value: "  sess-1  "})
	value, ok := Read(r)
	if !ok || value != "sess-1" {
		t.Fatalf("Read = %q, %v", value, ok)
	}
}

func TestReadRejectsBlankCookie(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: Name, Value: "   "})
	if _, ok := Read(r); ok {
		t.Fatal("expected blank cookie to be ignored")
	}
}

func TestWriteSetsHardenedCookie(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Write(rec, httptest.NewRequest(http.MethodGet, "/", nil), "sess-2")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != Name || c.Value != "sess-2" {
		t.Fatalf("cookie = %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly {
		t.Fatal("cookie must be HttpOnly")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("samesite = %v", c.SameSite)
	}
	if c.Path != "/" {
		t.Fatalf("path = %q", c.Path)
	}
}

func TestClearExpiresCookie(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Clear(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	if cookies[0].MaxAge != -1 {
		t.Fatalf("max age = %d, want -1", cookies[0].MaxAge)
	}
}
