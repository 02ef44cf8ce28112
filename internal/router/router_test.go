package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pet-health-records/internal/domain/reports"
	"pet-health-records/internal/extract"
	"pet-health-records/internal/ports/capabilities"
	"pet-health-records/internal/router"
)

// -------------------------
// Fakes
// -------------------------

// fakeOCR reemplaza al binario tesseract en los tests.
type fakeOCR struct {
	text string
	err  error
}

func (f fakeOCR) Run(_ context.Context, _ string, _ ...string) ([]byte, []byte, error) {
	if f.err != nil {
		return nil, []byte("ocr failed"), f.err
	}
	return []byte(f.text), nil, nil
}

type fakeUpstream struct {
	mu      sync.Mutex
	calls   int32
	outcome reports.Outcome
	err     error
	block   chan struct{}
}

func (f *fakeUpstream) Generate(ctx context.Context, _ reports.Payload) (reports.Outcome, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return reports.Outcome{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome, f.err
}

type fakeCaps struct{ allow bool }

func (f fakeCaps) Has(_ context.Context, _ string, _ capabilities.Capability) (bool, error) {
	return f.allow, nil
}

func newServer(t *testing.T, opts router.Options) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(opts))
	t.Cleanup(ts.Close)
	return ts
}

func ocrServer(t *testing.T, text string) *httptest.Server {
	return newServer(t, router.Options{
		ImageExtractor: extract.NewImageExtractor(extract.OCRConfig{}).WithRunner(fakeOCR{text: text}),
	})
}

var jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}, bytes.Repeat([]byte{0x11}, 64)...)

func TestHTTP_EndToEnd_RecordIngestion(t *testing.T) {
	ts := ocrServer(t, "Vacuna antirrábica aplicada 2026-08-01")

	ownerID := "owner-1"
	strangerID := "stranger-1"

	petID := createPet(t, ts.URL, ownerID, map[string]any{
		"name":    "Milo",
		"species": "dog",
	})

	// un extraño no ve los registros del pet
	{
		st, _ := doReq(t, ts.URL, "GET", "/pets/"+petID+"/records", strangerID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for stranger, got %d", st)
		}
	}

	// 1) sube una foto de la libreta de vacunación
	recordID := uploadRecord(t, ts.URL, ownerID, petID, "libreta.jpg", "image/jpeg", jpegBytes)

	// 2) el texto OCR quedó indexado en la descripción
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/records", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list records, got %d body=%s", st, string(body))
		}
		var list []map[string]any
		_ = json.Unmarshal(body, &list)
		if len(list) != 1 {
			t.Fatalf("expected 1 record, got %d", len(list))
		}
		desc, _ := list[0]["description"].(string)
		if !strings.Contains(desc, "Vacuna antirrábica") {
			t.Errorf("description = %q", desc)
		}
		// el listado no arrastra los payloads
		if _, ok := list[0]["files"]; ok {
			t.Error("list should not include file payloads")
		}
	}

	// 3) el detalle trae los archivos inline
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/records/"+recordID, ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get record, got %d body=%s", st, string(body))
		}
		var rec map[string]any
		_ = json.Unmarshal(body, &rec)
		files, _ := rec["files"].(map[string]any)
		if _, ok := files["libreta.jpg"]; !ok {
			t.Errorf("expected inline file, got %v", rec["files"])
		}
	}

	// 4) tipo no soportado => 415, sin fila
	{
		st, _ := uploadRaw(t, ts.URL, ownerID, petID, "nota.txt", "text/plain", []byte("hola"))
		if st != http.StatusUnsupportedMediaType {
			t.Fatalf("expected 415 for text/plain, got %d", st)
		}
	}

	// 5) borrar y verificar
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/pets/"+petID+"/records/"+recordID, ownerID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/pets/"+petID+"/records/"+recordID, ownerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}
}

func TestHTTP_UploadDegradesWhenOCRFails(t *testing.T) {
	ts := newServer(t, router.Options{
		ImageExtractor: extract.NewImageExtractor(extract.OCRConfig{}).WithRunner(fakeOCR{err: io.ErrUnexpectedEOF}),
	})

	ownerID := "owner-1"
	petID := createPet(t, ts.URL, ownerID, map[string]any{"name": "Luna", "species": "cat"})

	st, body := uploadRaw(t, ts.URL, ownerID, petID, "borrosa.jpg", "image/jpeg", jpegBytes)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 despite ocr failure, got %d body=%s", st, string(body))
	}

	var resp struct {
		Record   map[string]any `json:"record"`
		Warnings []string       `json:"extraction_warnings"`
	}
	_ = json.Unmarshal(body, &resp)
	if len(resp.Warnings) == 0 {
		t.Fatalf("expected extraction warnings, body=%s", string(body))
	}
	if desc, _ := resp.Record["description"].(string); desc != "" {
		t.Errorf("description should be empty, got %q", desc)
	}
}

func TestHTTP_GenerateReport_JSON(t *testing.T) {
	up := &fakeUpstream{outcome: reports.Outcome{Report: &reports.HealthReport{
		OverallStatus: reports.OverallStatus{Level: reports.LevelGood, Summary: "saludable", IconKey: "heart"},
		PotentialRisks: []reports.ReportItem{
			{Title: "Riesgo nuevo", IconKey: "icono-que-no-existe"},
		},
	}}}
	ts := newServer(t, router.Options{Upstream: up})

	ownerID := "owner-1"
	petID := createPet(t, ts.URL, ownerID, map[string]any{"name": "Milo", "species": "dog"})

	// sin location => 412, y el upstream ni se entera
	{
		st, _ := doReq(t, ts.URL, "POST", "/pets/"+petID+"/report", ownerID, map[string]any{})
		if st != http.StatusPreconditionFailed {
			t.Fatalf("expected 412 without location, got %d", st)
		}
		if n := atomic.LoadInt32(&up.calls); n != 0 {
			t.Fatalf("upstream called %d times without location", n)
		}
	}

	// pet ajeno => 404
	{
		st, _ := doReq(t, ts.URL, "POST", "/pets/"+petID+"/report", "otro-usuario", map[string]any{
			"location": map[string]float64{"latitude": -34.6, "longitude": -58.4},
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for foreign pet, got %d", st)
		}
	}

	st, body := doReq(t, ts.URL, "POST", "/pets/"+petID+"/report", ownerID, map[string]any{
		"location": map[string]float64{"latitude": -34.6, "longitude": -58.4},
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 generate, got %d body=%s", st, string(body))
	}

	var resp struct {
		Report reports.HealthReport `json:"report"`
		View   reports.InlineView   `json:"view"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Report.OverallStatus.Level != reports.LevelGood {
		t.Errorf("report level = %q", resp.Report.OverallStatus.Level)
	}
	if resp.View.Status.Icon != reports.IconHeart || resp.View.Status.Color != reports.ColorGreen {
		t.Errorf("view status = %+v", resp.View.Status)
	}
	// ícono desconocido del upstream => fallback, nunca 500
	if resp.View.Risks[0].Icon != reports.IconPaw {
		t.Errorf("unknown icon resolved to %q, want %q", resp.View.Risks[0].Icon, reports.IconPaw)
	}
}

func TestHTTP_GenerateReport_PDFTransport(t *testing.T) {
	up := &fakeUpstream{outcome: reports.Outcome{PDF: []byte("%PDF-1.4 legacy")}}
	ts := newServer(t, router.Options{Upstream: up})

	ownerID := "owner-1"
	petID := createPet(t, ts.URL, ownerID, map[string]any{"name": "Milo", "species": "dog"})

	req, _ := http.NewRequest("POST", ts.URL+"/pets/"+petID+"/report",
		strings.NewReader(`{"location":{"latitude":-34.6,"longitude":-58.4}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Debug-User-ID", ownerID)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	body, _ := io.ReadAll(res.Body)
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Fatalf("body = %q", body)
	}
}

func TestHTTP_GenerateReport_CapabilityGate(t *testing.T) {
	up := &fakeUpstream{outcome: reports.Outcome{Report: &reports.HealthReport{
		OverallStatus: reports.OverallStatus{Level: reports.LevelGood},
	}}}

	// plan sin reportes IA => 403 antes de tocar el upstream
	ts := newServer(t, router.Options{Upstream: up, Capabilities: fakeCaps{allow: false}})

	ownerID := "owner-1"
	petID := createPet(t, ts.URL, ownerID, map[string]any{"name": "Milo", "species": "dog"})

	st, _ := doReq(t, ts.URL, "POST", "/pets/"+petID+"/report", ownerID, map[string]any{
		"location": map[string]float64{"latitude": -34.6, "longitude": -58.4},
	})
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 without capability, got %d", st)
	}
	if n := atomic.LoadInt32(&up.calls); n != 0 {
		t.Fatalf("upstream called %d times without capability", n)
	}
}

func TestHTTP_GenerateReport_ConcurrentRequests(t *testing.T) {
	up := &fakeUpstream{
		outcome: reports.Outcome{Report: &reports.HealthReport{
			OverallStatus: reports.OverallStatus{Level: reports.LevelGood},
		}},
		block: make(chan struct{}),
	}
	ts := newServer(t, router.Options{Upstream: up})

	ownerID := "owner-1"
	petID := createPet(t, ts.URL, ownerID, map[string]any{"name": "Milo", "species": "dog"})

	firstSt := make(chan int, 1)
	go func() {
		st, _ := doReq(t, ts.URL, "POST", "/pets/"+petID+"/report", ownerID, map[string]any{
			"location": map[string]float64{"latitude": -34.6, "longitude": -58.4},
		})
		firstSt <- st
	}()

	// espera a que el primero esté dentro del upstream
	for atomic.LoadInt32(&up.calls) == 0 {
		time.Sleep(time.Millisecond)
	}

	st, _ := doReq(t, ts.URL, "POST", "/pets/"+petID+"/report", ownerID, map[string]any{
		"location": map[string]float64{"latitude": -34.6, "longitude": -58.4},
	})
	if st != http.StatusConflict {
		t.Fatalf("expected 409 for concurrent generate, got %d", st)
	}

	close(up.block)
	if st := <-firstSt; st != http.StatusOK {
		t.Fatalf("first generate got %d", st)
	}

	if n := atomic.LoadInt32(&up.calls); n != 1 {
		t.Fatalf("upstream called %d times, want exactly 1", n)
	}
}

func TestHTTP_Logs_CRUDAndExport(t *testing.T) {
	ts := newServer(t, router.Options{})

	ownerID := "owner-1"
	petID := createPet(t, ts.URL, ownerID, map[string]any{"name": "Luna", "species": "cat"})

	// sin título ni texto => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/pets/"+petID+"/logs", ownerID, map[string]any{})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for empty log, got %d", st)
		}
	}

	var logID string
	{
		st, body := doReq(t, ts.URL, "POST", "/pets/"+petID+"/logs", ownerID, map[string]any{
			"title": "Vómitos",
			"text":  "dos episodios a la mañana",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create log, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &resp)
		logID = resp.ID
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/logs", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list logs, got %d", st)
		}
		var list []map[string]any
		_ = json.Unmarshal(body, &list)
		if len(list) != 1 {
			t.Fatalf("expected 1 log, got %d", len(list))
		}
	}

	// export PDF de la bitácora
	{
		st, body, ct := doReqRaw(t, ts.URL, "GET", "/pets/"+petID+"/logs/export", ownerID)
		if st != http.StatusOK {
			t.Fatalf("expected 200 logs export, got %d", st)
		}
		if ct != "application/pdf" {
			t.Fatalf("content type = %q", ct)
		}
		if !bytes.HasPrefix(body, []byte("%PDF")) {
			t.Fatal("logs export is not a pdf")
		}
	}

	{
		st, _ := doReq(t, ts.URL, "DELETE", "/pets/"+petID+"/logs/"+logID, ownerID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete log, got %d", st)
		}
	}
}

func TestHTTP_BulkExport(t *testing.T) {
	ts := ocrServer(t, "texto")

	ownerID := "owner-1"
	petID := createPet(t, ts.URL, ownerID, map[string]any{"name": "Milo", "species": "dog"})

	// sin registros no hay zip
	{
		st, _, _ := doReqRaw(t, ts.URL, "GET", "/pets/"+petID+"/records/export", ownerID)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for empty export, got %d", st)
		}
	}

	uploadRecord(t, ts.URL, ownerID, petID, "libreta.jpg", "image/jpeg", jpegBytes)

	st, body, ct := doReqRaw(t, ts.URL, "GET", "/pets/"+petID+"/records/export", ownerID)
	if st != http.StatusOK {
		t.Fatalf("expected 200 export, got %d", st)
	}
	if ct != "application/zip" {
		t.Fatalf("content type = %q", ct)
	}
	// magic number de zip
	if !bytes.HasPrefix(body, []byte("PK")) {
		t.Fatal("export is not a zip")
	}

	// historial completo en PDF
	st, body, ct = doReqRaw(t, ts.URL, "GET", "/pets/"+petID+"/report/pdf", ownerID)
	if st != http.StatusOK {
		t.Fatalf("expected 200 history pdf, got %d", st)
	}
	if ct != "application/pdf" || !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Fatalf("unexpected history pdf response (ct=%q)", ct)
	}
}

func TestHTTP_Health(t *testing.T) {
	ts := newServer(t, router.Options{})
	res, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("health = %d", res.StatusCode)
	}
}

func TestHTTP_SwaggerDoc(t *testing.T) {
	ts := newServer(t, router.Options{})
	res, err := http.Get(ts.URL + "/swagger/doc.json")
	if err != nil {
		t.Fatalf("get swagger doc: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("swagger doc = %d", res.StatusCode)
	}
	var doc map[string]any
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		t.Fatalf("swagger doc is not json: %v", err)
	}
	if _, ok := doc["paths"]; !ok {
		t.Fatal("swagger doc has no paths")
	}
}

// -------------------------
// Helpers
// -------------------------

func createPet(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.ID
}

func uploadRecord(t *testing.T, baseURL, userID, petID, filename, mimeType string, data []byte) string {
	t.Helper()

	st, body := uploadRaw(t, baseURL, userID, petID, filename, mimeType, data)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 upload, got %d body=%s", st, string(body))
	}

	var resp struct {
		Record struct {
			ID string `json:"id"`
		} `json:"record"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Record.ID == "" {
		t.Fatalf("upload: missing record id body=%s", string(body))
	}
	return resp.Record.ID
}

func uploadRaw(t *testing.T, baseURL, userID, petID, filename, mimeType string, data []byte) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="files"; filename="`+filename+`"`)
	hdr.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req, err := http.NewRequest("POST", baseURL+"/pets/"+petID+"/records", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Debug-User-ID", userID)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	return res.StatusCode, body
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func doReqRaw(t *testing.T, baseURL, method, path, debugUserID string) (int, []byte, string) {
	t.Helper()

	req, err := http.NewRequest(method, baseURL+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("X-Debug-User-ID", debugUserID)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	return res.StatusCode, body, res.Header.Get("Content-Type")
}
