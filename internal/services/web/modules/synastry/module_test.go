package synastry

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cosmichub/cosmichub/internal/astro/chart"
	"github.com/cosmichub/cosmichub/internal/birthdata"
	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/entitlements"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
	"github.com/cosmichub/cosmichub/internal/services/web/storage/sqlite"
	"github.com/cosmichub/cosmichub/internal/tiers"
)

const savedChartID = "aaaaaaaaaaaaaaaaaaaaaaaaaa"

const partnerCard = "BEGIN:VCARD\r\n" +
	"VERSION:4.0\r\n" +
	"FN:Vera Moon\r\n" +
	"BDAY:19880322\r\n" +
	"END:VCARD\r\n"

func newTestHandler(t *testing.T, tier tiers.Tier) http.Handler {
	t.Helper()
	store, err := sqlite.Open(t.TempDir() + "/cosmichub.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	ctx := context.Background()
	if err := store.CreateUser(ctx, webstorage.User{
		ID:           "user-1",
		Email:        "astra@example.com",
		PasswordHash: []byte("hash"),
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	birth, err := birthdata.ParseTextBirthData(birthdata.TextBirthData{
		BirthDate: "1990-06-15",
		BirthTime: "14:30",
	})
	if err != nil {
		t.Fatalf("parse birth data: %v", err)
	}
	natal, err := chart.Calculate(birth)
	if err != nil {
		t.Fatalf("calculate chart: %v", err)
	}
	chartJSON, err := json.Marshal(natal)
	if err != nil {
		t.Fatalf("marshal chart: %v", err)
	}
	if err := store.CreateChart(ctx, webstorage.SavedChart{
		ID:        savedChartID,
		UserID:    "user-1",
		Name:      "Natal",
		Kind:      "natal",
		BirthDate: "1990-06-15",
		BirthTime: "14:30",
		ChartJSON: chartJSON,
	}); err != nil {
		t.Fatalf("create chart: %v", err)
	}

	resolvers := module.Resolvers{
		ResolveUserID: func(*http.Request) string { return "user-1" },
		ResolveTier:   func(*http.Request) tiers.Tier { return tier },
	}
	mount, err := New(store, entitlements.NewMeter(store), resolvers).Mount()
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	return mount.Handler
}

func postCard(t *testing.T, handler http.Handler, chartID, card string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if chartID != "" {
		if err := form.WriteField("chart", chartID); err != nil {
			t.Fatalf("write chart field: %v", err)
		}
	}
	part, err := form.CreateFormFile("vcard", "partner.vcf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(card)); err != nil {
		t.Fatalf("write card: %v", err)
	}
	if err := form.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/app/synastry/import-vcard", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestImportRequiresPremium(t *testing.T) {
	handler := newTestHandler(t, tiers.Free)
	w := postCard(t, handler, savedChartID, partnerCard)
	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", w.Code)
	}
}

func TestImportComparesCharts(t *testing.T) {
	handler := newTestHandler(t, tiers.Premium)
	w := postCard(t, handler, savedChartID, partnerCard)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var result struct {
		PartnerName string `json:"partner_name"`
		Report      struct {
			Elements map[string]int `json:"elements"`
		} `json:"report"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.PartnerName != "Vera Moon" {
		t.Fatalf("partner name = %q, want Vera Moon", result.PartnerName)
	}
	if len(result.Report.Elements) == 0 {
		t.Fatal("expected a combined element distribution")
	}
}

func TestImportRawBody(t *testing.T) {
	handler := newTestHandler(t, tiers.Premium)
	req := httptest.NewRequest(http.MethodPost, "/app/synastry/import-vcard?chart="+savedChartID, strings.NewReader(partnerCard))
	req.Header.Set("Content-Type", "text/vcard")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestImportRequiresChartField(t *testing.T) {
	handler := newTestHandler(t, tiers.Premium)
	w := postCard(t, handler, "", partnerCard)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestImportRejectsCardWithoutBirthday(t *testing.T) {
	handler := newTestHandler(t, tiers.Premium)
	card := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:No Day\r\nEND:VCARD\r\n"
	w := postCard(t, handler, savedChartID, card)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestImportUnknownChart(t *testing.T) {
	handler := newTestHandler(t, tiers.Premium)
	w := postCard(t, handler, "bbbbbbbbbbbbbbbbbbbbbbbbbb", partnerCard)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestImportGetMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t, tiers.Premium)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/synastry/import-vcard", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
}
