package site

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestAPI(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()
	st := newTestStore(t)
	r := chi.NewRouter()
	RegisterRoutes(r, st)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, st
}

func TestCreateSiteEndpoint(t *testing.T) {
	srv, _ := newTestAPI(t)

	body, _ := json.Marshal(Site{
		Name:         "Example",
		Origin:       "https://example.com",
		IncludePaths: []string{"docs/**"},
		Enabled:      true,
	})
	resp, err := http.Post(srv.URL+"/api/sites", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var created Site
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.Name != "Example" {
		t.Errorf("created = %+v", created)
	}
}

func TestCreateSiteRequiresName(t *testing.T) {
	srv, _ := newTestAPI(t)

	resp, err := http.Post(srv.URL+"/api/sites", "application/json", bytes.NewReader([]byte(`{"origin":"https://x.example"}`)))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetSiteEndpoint(t *testing.T) {
	srv, st := newTestAPI(t)
	id, _ := st.Create(context.Background(), Site{Name: "n", Enabled: true})

	resp, err := http.Get(srv.URL + "/api/sites/" + id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var got Site
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != id {
		t.Errorf("id = %q, want %q", got.ID, id)
	}
}

func TestGetMissingSiteEndpoint(t *testing.T) {
	srv, _ := newTestAPI(t)
	resp, err := http.Get(srv.URL + "/api/sites/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDisableEnableEndpoints(t *testing.T) {
	srv, st := newTestAPI(t)
	ctx := context.Background()
	id, _ := st.Create(ctx, Site{Name: "n", Enabled: true})

	resp, err := http.Post(srv.URL+"/api/sites/"+id+"/disable", "", nil)
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("disable status = %d", resp.StatusCode)
	}
	got, _ := st.GetByID(ctx, id)
	if got.Enabled {
		t.Error("site still enabled")
	}

	resp, err = http.Post(srv.URL+"/api/sites/"+id+"/enable", "", nil)
	if err != nil {
		t.Fatalf("enable: %v", err)
	}
	resp.Body.Close()
	got, _ = st.GetByID(ctx, id)
	if !got.Enabled {
		t.Error("site still disabled")
	}
}

func TestDeleteSiteEndpoint(t *testing.T) {
	srv, st := newTestAPI(t)
	ctx := context.Background()
	id, _ := st.Create(ctx, Site{Name: "n"})

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/sites/"+id, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if _, err := st.GetByID(ctx, id); err == nil {
		t.Error("site still present")
	}
}
