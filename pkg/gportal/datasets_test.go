package gportal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestDatasets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gpr/search/service/satsensor.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"title": "<img src='/gpr/img/gcom-c.png'>GCOM-C/SGLI ",
				"children": [
					{
						"title": "LEVEL1",
						"children": [
							{"title": "L1B", "dataset": "10001003,10001004"}
						]
					},
					{"title": "LEVEL2", "dataset": "10002000"}
				]
			}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)
	datasets, err := client.Datasets(context.Background())
	if err != nil {
		t.Fatalf("Datasets failed: %v", err)
	}

	want := map[string]any{
		"GCOM-C/SGLI": map[string]any{
			"LEVEL1": map[string]any{
				"L1B": []string{"10001003", "10001004"},
			},
			"LEVEL2": []string{"10002000"},
		},
	}
	if !reflect.DeepEqual(datasets, want) {
		t.Errorf("Datasets = %#v, want %#v", datasets, want)
	}
}
