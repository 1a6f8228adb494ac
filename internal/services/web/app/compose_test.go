package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/requestmeta"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/sessioncookie"
)

type stubModule struct {
	id    string
	mount module.Mount
}

func (m stubModule) ID() string { return m.id }

func (m stubModule) Mount() (module.Mount, error) { return m.mount, nil }

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	})
}

func TestComposeRejectsDuplicateModulePrefix(t *testing.T) {
	t.Parallel()

	_, err := Compose(ComposeInput{
		PublicModules: []module.Module{
			stubModule{id: "one", mount: module.Mount{Prefix: "/one/", Handler: okHandler("one")}},
			stubModule{id: "two", mount: module.Mount{Prefix: "/one/", Handler: okHandler("two")}},
		},
	})
	if err == nil {
		t.Fatalf("expected duplicate prefix error")
	}
}

func TestComposeRejectsInvalidPrefixes(t *testing.T) {
	t.Parallel()

	for _, prefix := range []string{"", "app/x/", "/app/x"} {
		_, err := Compose(ComposeInput{
			PublicModules: []module.Module{
				stubModule{id: "bad", mount: module.Mount{Prefix: prefix, Handler: okHandler("bad")}},
			},
		})
		if err == nil {
			t.Fatalf("prefix %q: expected invalid prefix error", prefix)
		}
	}
}

func TestComposeRejectsPublicModuleUnderAppPrefix(t *testing.T) {
	t.Parallel()

	_, err := Compose(ComposeInput{
		PublicModules: []module.Module{
			stubModule{id: "sneaky", mount: module.Mount{Prefix: "/app/sneaky/", Handler: okHandler("no")}},
		},
	})
	if err == nil || !strings.Contains(err.Error(), "protected prefix") {
		t.Fatalf("err = %v, want protected prefix rejection", err)
	}
}

func TestComposeRejectsProtectedModuleOutsideAppPrefix(t *testing.T) {
	t.Parallel()

	_, err := Compose(ComposeInput{
		ProtectedModules: []module.Module{
			stubModule{id: "loose", mount: module.Mount{Prefix: "/loose/", Handler: okHandler("no")}},
		},
	})
	if err == nil || !strings.Contains(err.Error(), "/app/") {
		t.Fatalf("err = %v, want app prefix rejection", err)
	}
}

func TestComposeRedirectsAnonymousProtectedRequests(t *testing.T) {
	t.Parallel()

	handler, err := Compose(ComposeInput{
		ProtectedModules: []module.Module{
			stubModule{id: "charts", mount: module.Mount{Prefix: "/app/charts/", Handler: okHandler("charts")}},
		},
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/charts", nil))
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if got := w.Header().Get("Location"); got != defaultLoginPath {
		t.Fatalf("location = %q, want %q", got, defaultLoginPath)
	}
}

func TestComposeMountsSlashlessAlias(t *testing.T) {
	t.Parallel()

	handler, err := Compose(ComposeInput{
		AuthRequired: func(*http.Request) bool { return true },
		ProtectedModules: []module.Module{
			stubModule{id: "charts", mount: module.Mount{Prefix: "/app/charts/", Handler: okHandler("charts")}},
		},
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	for _, path := range []string{"/app/charts", "/app/charts/"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("path %q status = %d, want 200", path, w.Code)
		}
	}
}

func TestComposeBlocksCrossOriginCookieMutations(t *testing.T) {
	t.Parallel()

	handler, err := Compose(ComposeInput{
		AuthRequired: func(*http.Request) bool { return true },
		ProtectedModules: []module.Module{
			stubModule{id: "charts", mount: module.Mount{Prefix: "/app/charts/", Handler: okHandler("charts")}},
		},
		RequestSchemePolicy: requestmeta.SchemePolicy{},
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/app/charts/", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "session-1"})
	req.Header.Set("Origin", "http://evil.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("cross-origin status = %d, want 403", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "http://example.com/app/charts/", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "session-1"})
	req.Header.Set("Origin", "http://example.com")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("same-origin status = %d, want 200", w.Code)
	}
}
